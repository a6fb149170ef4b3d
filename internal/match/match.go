// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match finds the best catalog candidate for a local track. It
// issues a cascade of progressively relaxed queries, scores every new
// candidate, keeps the best, and decides whether it clears the
// confidence threshold.
package match

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiddy/trackmatch/internal/normalize"
	"github.com/pdiddy/trackmatch/internal/scoring"
	"github.com/pdiddy/trackmatch/pkg/types"
)

// Catalog searches an external track catalog. Implementations return
// candidates in the catalog's relevance order.
type Catalog interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]types.CandidateTrack, error)
}

const (
	defaultPageLimit      = 10
	defaultEarlyExitScore = 96
	defaultFailureDelay   = 2 * time.Second
)

// DefaultConfig returns the cascade settings used when none are configured.
func DefaultConfig() types.MatchConfig {
	return types.MatchConfig{
		PageLimit:      defaultPageLimit,
		FailureDelay:   defaultFailureDelay,
		EarlyExitScore: defaultEarlyExitScore,
		Workers:        1,
	}
}

// Queries returns the cascade for local, most specific first: cleaned
// track, artist, and album; cleaned track, artist, and year; numeral-free
// track with artist; cleaned track with artist; and the raw text.
func Queries(local types.LocalTrack) []string {
	name := normalize.Clean(local.Name)
	artist := normalize.Clean(local.Artist)
	return []string{
		fmt.Sprintf(`track:"%s" artist:"%s" album:"%s"`, name, artist, normalize.Clean(local.Album)),
		fmt.Sprintf(`track:"%s" artist:"%s" year:%d`, name, artist, local.Year),
		fmt.Sprintf(`track:"%s" artist:"%s"`, normalize.SanitizeForSearch(local.Name), artist),
		fmt.Sprintf(`track:"%s" artist:"%s"`, name, artist),
		fmt.Sprintf("%s %s", local.Name, local.Artist),
	}
}

// FindBestMatch runs the query cascade for local and scores each candidate
// the first time it is seen. A candidate replaces the running best only
// with a strictly higher score, so a zero-scoring candidate never becomes
// best and ties keep the earlier one. Once the best score reaches
// cfg.EarlyExitScore no further queries are issued.
//
// A failed query is logged, followed by a pause of cfg.FailureDelay
// unless it was the last one, and the cascade moves on. If ctx ends first
// the result is marked Cancelled. FindBestMatch does not decide the match;
// see MatchTrack.
func FindBestMatch(ctx context.Context, local types.LocalTrack, rules *types.ScoringRules, catalog Catalog, cfg types.MatchConfig, logger *slog.Logger) types.MatchResult {
	pageLimit := cfg.PageLimit
	if pageLimit <= 0 {
		pageLimit = defaultPageLimit
	}
	earlyExit := cfg.EarlyExitScore
	if earlyExit <= 0 {
		earlyExit = defaultEarlyExitScore
	}

	var result types.MatchResult
	seen := make(map[string]struct{})

	queries := Queries(local)
	for i, query := range queries {
		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}

		result.QueriesIssued++
		candidates, err := catalog.Search(ctx, query, pageLimit)
		if err != nil {
			result.QueryErrors++
			if ctx.Err() != nil {
				result.Cancelled = true
				break
			}
			logger.Warn("catalog query failed",
				slog.String("catalog", catalog.Name()),
				slog.String("query", query),
				slog.String("error", err.Error()))
			if i == len(queries)-1 {
				break
			}
			if !sleep(ctx, cfg.FailureDelay) {
				result.Cancelled = true
				break
			}
			continue
		}

		for _, cand := range candidates {
			if _, ok := seen[cand.ExternalID]; ok {
				continue
			}
			seen[cand.ExternalID] = struct{}{}

			score, breakdown := scoring.Score(local, cand, rules)
			result.Evaluations = append(result.Evaluations, newEvaluation(local, cand, query, score, breakdown))

			if score > result.Confidence {
				c := cand
				result.Best = &c
				result.Confidence = score
			}
		}

		if result.Confidence >= earlyExit {
			logger.Debug("cascade stopped early",
				slog.String("query", query),
				slog.Int("confidence", result.Confidence))
			break
		}
	}

	return result
}

// Decide reports whether a best candidate exists and its confidence
// meets rules.ConfidenceThreshold.
func Decide(best *types.CandidateTrack, confidence int, rules *types.ScoringRules) bool {
	return best != nil && float64(confidence) >= rules.ConfidenceThreshold
}

// MatchTrack finds the best candidate for local, applies the match
// decision, and stamps the decision on every evaluation.
func MatchTrack(ctx context.Context, local types.LocalTrack, rules *types.ScoringRules, catalog Catalog, cfg types.MatchConfig, logger *slog.Logger) types.MatchResult {
	result := FindBestMatch(ctx, local, rules, catalog, cfg, logger)
	result.Matched = Decide(result.Best, result.Confidence, rules)
	for i := range result.Evaluations {
		result.Evaluations[i].MatchFound = result.Matched
	}
	return result
}

func newEvaluation(local types.LocalTrack, cand types.CandidateTrack, query string, score int, b types.ScoreBreakdown) types.Evaluation {
	return types.Evaluation{
		LocalArtist:     local.Artist,
		LocalTrack:      local.Name,
		LocalAlbum:      local.Album,
		CandidateID:     cand.ExternalID,
		CandidateArtist: cand.ArtistName,
		CandidateTrack:  cand.TrackName,
		CandidateAlbum:  cand.AlbumName,
		CandidateYear:   cand.ReleaseYear(),
		Query:           query,
		FinalScore:      score,
		Breakdown:       b,
	}
}

// sleep waits for d or until ctx is done; it reports whether the full
// wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
