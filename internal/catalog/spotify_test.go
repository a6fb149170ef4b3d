// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/trackmatch/internal/httputil"
	"github.com/pdiddy/trackmatch/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

const searchFixture = `{
  "tracks": {
    "total": 2,
    "items": [
      {
        "id": "4u7EnebtmKWzUH433cf5Qv",
        "name": "Bohemian Rhapsody - Remastered 2011",
        "artists": [{"id": "a1", "name": "Queen"}],
        "album": {
          "id": "al1",
          "name": "A Night At The Opera (2011 Remaster)",
          "artists": [{"id": "a1", "name": "Queen"}],
          "release_date": "1975-11-21"
        },
        "duration_ms": 354320,
        "track_number": 11,
        "disc_number": 1,
        "external_urls": {"spotify": "https://open.spotify.com/track/4u7EnebtmKWzUH433cf5Qv"}
      },
      {
        "id": "7tFiyTwD0nx5a1eklYtX2J",
        "name": "Bohemian Rhapsody",
        "artists": [{"id": "a1", "name": "Queen"}, {"id": "a2", "name": "Wembley Choir"}],
        "album": {
          "id": "al2",
          "name": "Live At Wembley",
          "artists": [{"id": "va", "name": "Various Artists"}],
          "release_date": "1992"
        },
        "duration_ms": 360000,
        "external_urls": {"spotify": "https://open.spotify.com/track/7tFiyTwD0nx5a1eklYtX2J"}
      },
      {
        "id": "",
        "name": "Local file without id"
      }
    ]
  }
}`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalogCfg() types.CatalogConfig {
	return types.CatalogConfig{
		HTTPConfig:        types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "trackmatch-test/0.1"},
		RequestsPerSecond: 1000,
		MaxRetries:        2,
	}
}

func TestSpotifySearchParsesItems(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, searchFixture)
	}))
	defer ts.Close()

	cfg := testCatalogCfg()
	cfg.Market = "GB"
	s := NewSpotifyWithClient(ts.Client(), ts.URL+"/", cfg, testLogger())

	got, err := s.Search(context.Background(), `track:"Bohemian Rhapsody" artist:"Queen"`, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "/search", captured.URL.Path)
	q := captured.URL.Query()
	assert.Equal(t, `track:"Bohemian Rhapsody" artist:"Queen"`, q.Get("q"))
	assert.Equal(t, "track", q.Get("type"))
	assert.Equal(t, "10", q.Get("limit"))
	assert.Equal(t, "GB", q.Get("market"))
	assert.Equal(t, "trackmatch-test/0.1", captured.Header.Get("User-Agent"))

	first := got[0]
	assert.Equal(t, "4u7EnebtmKWzUH433cf5Qv", first.ExternalID)
	assert.Equal(t, "Bohemian Rhapsody - Remastered 2011", first.TrackName)
	assert.Equal(t, "Queen", first.ArtistName)
	assert.Equal(t, "Queen", first.AlbumArtistName)
	assert.Equal(t, "1975", first.ReleaseYear())
	assert.Equal(t, 354320, first.DurationMs)
	assert.Equal(t, 11, first.TrackNumber)
	assert.Equal(t, "https://open.spotify.com/track/4u7EnebtmKWzUH433cf5Qv", first.URL)

	second := got[1]
	assert.Equal(t, "Queen, Wembley Choir", second.ArtistName)
	assert.Equal(t, "Various Artists", second.AlbumArtistName)
	assert.Equal(t, 0, second.TrackNumber)
	assert.Equal(t, 1, second.EffectiveDisc())
}

func TestSpotifySearchClampsLimit(t *testing.T) {
	var limits []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limits = append(limits, r.URL.Query().Get("limit"))
		fmt.Fprint(w, `{"tracks":{"items":[]}}`)
	}))
	defer ts.Close()

	s := NewSpotifyWithClient(ts.Client(), ts.URL, testCatalogCfg(), testLogger())
	for _, limit := range []int{0, 200} {
		_, err := s.Search(context.Background(), "queen", limit)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"1", "50"}, limits)
}

func TestSpotifySearchErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"api error message", http.StatusUnauthorized, `{"error":{"status":401,"message":"The access token expired"}}`, 401, "The access token expired"},
		{"plain body", http.StatusBadGateway, "upstream down", 502, "upstream down"},
		{"rate limited after retries", http.StatusTooManyRequests, "", 429, "unexpected response"},
		{"malformed json", http.StatusOK, `{"tracks":`, 200, "parsing search response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			s := NewSpotifyWithClient(ts.Client(), ts.URL, testCatalogCfg(), testLogger())
			_, err := s.Search(context.Background(), "queen", 10)

			var qe *QueryError
			require.True(t, errors.As(err, &qe))
			assert.Equal(t, "queen", qe.Query)
			assert.Equal(t, tt.wantStatus, qe.Status)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestSpotifySearchEmptyQuery(t *testing.T) {
	s := NewSpotifyWithClient(http.DefaultClient, "http://127.0.0.1:0", testCatalogCfg(), testLogger())
	_, err := s.Search(context.Background(), "   ", 10)
	var qe *QueryError
	require.ErrorAs(t, err, &qe)
}

func TestSpotifySearchTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	s := NewSpotifyWithClient(&http.Client{Timeout: time.Second}, url, testCatalogCfg(), testLogger())
	_, err := s.Search(context.Background(), "queen", 10)
	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, 0, qe.Status)
}

func TestNewSpotifyClientCredentials(t *testing.T) {
	var tokenCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"tok-123","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"tracks":{"items":[]}}`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	oldAPI, oldToken := spotifyAPIBase, spotifyTokenURL
	spotifyAPIBase, spotifyTokenURL = ts.URL+"/v1", ts.URL+"/api/token"
	defer func() { spotifyAPIBase, spotifyTokenURL = oldAPI, oldToken }()

	cfg := testCatalogCfg()
	cfg.ClientID, cfg.ClientSecret = "id", "secret"
	s, err := NewSpotify(context.Background(), cfg, testLogger())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = s.Search(context.Background(), "queen", 5)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, tokenCalls, "token should be cached between searches")
}

func TestNewSpotifyRequiresCredentials(t *testing.T) {
	_, err := NewSpotify(context.Background(), testCatalogCfg(), testLogger())
	assert.ErrorIs(t, err, ErrMissingCredentials)
}
