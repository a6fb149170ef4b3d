// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/pdiddy/trackmatch/internal/httputil"
	"github.com/pdiddy/trackmatch/pkg/types"
)

// Spotify endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	spotifyAPIBase  = "https://api.spotify.com/v1"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

const (
	defaultRequestsPerSecond = 5
	maxPageLimit             = 50
)

// ErrMissingCredentials is returned when no client id or secret is configured.
var ErrMissingCredentials = errors.New("spotify client id and secret are required")

// Spotify searches the Spotify Web API for tracks.
type Spotify struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	baseURL string
	cfg     types.CatalogConfig
}

// NewSpotify creates a client that obtains bearer tokens with the
// client-credentials flow. Tokens are fetched lazily and refreshed on expiry.
func NewSpotify(ctx context.Context, cfg types.CatalogConfig, logger *slog.Logger) (*Spotify, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: timeout})

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     spotifyTokenURL,
	}
	client := cc.Client(ctx)
	client.Timeout = timeout

	return NewSpotifyWithClient(client, spotifyAPIBase, cfg, logger), nil
}

// NewSpotifyWithClient creates a client around an already-authenticated
// http.Client and a custom API base URL (for testing).
func NewSpotifyWithClient(client *http.Client, baseURL string, cfg types.CatalogConfig, logger *slog.Logger) *Spotify {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	return &Spotify{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger.With(slog.String("catalog", "spotify")),
		baseURL: strings.TrimRight(baseURL, "/"),
		cfg:     cfg,
	}
}

// Name returns the catalog identifier.
func (s *Spotify) Name() string { return "spotify" }

// Search runs a track search and returns up to limit candidates in the
// catalog's relevance order. Every failure is a *QueryError.
func (s *Spotify) Search(ctx context.Context, query string, limit int) ([]types.CandidateTrack, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &QueryError{Query: query, Err: errors.New("empty query")}
	}
	limit = min(max(limit, 1), maxPageLimit)

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &QueryError{Query: query, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	params := url.Values{
		"q":     {query},
		"type":  {"track"},
		"limit": {strconv.Itoa(limit)},
	}
	if s.cfg.Market != "" {
		params.Set("market", s.cfg.Market)
	}
	reqURL := s.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &QueryError{Query: query, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if s.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", s.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, s.client, req, s.cfg.MaxRetries)
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, &QueryError{Query: query, Status: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &QueryError{Query: query, Status: resp.StatusCode, Err: errors.New(errorMessage(body))}
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, &QueryError{Query: query, Status: resp.StatusCode, Err: fmt.Errorf("parsing search response: %w", err)}
	}

	candidates := make([]types.CandidateTrack, 0, len(sr.Tracks.Items))
	for _, it := range sr.Tracks.Items {
		if it.ID == "" {
			continue
		}
		candidates = append(candidates, it.Candidate())
	}

	s.logger.Debug("track search completed",
		slog.String("query", query),
		slog.Int("results", len(candidates)))

	return candidates, nil
}

// errorMessage extracts the message from a Spotify error body, falling
// back to the raw text.
func errorMessage(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Message != "" {
		return er.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	if msg == "" {
		msg = "unexpected response"
	}
	return msg
}

// Spotify API JSON structures.
type searchResponse struct {
	Tracks struct {
		Items []Item `json:"items"`
		Total int    `json:"total"`
	} `json:"tracks"`
}

type errorResponse struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}
