// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/pdiddy/trackmatch/pkg/types"
)

// Summary holds counts from a batch run.
type Summary struct {
	Matched   int
	Unmatched int
	Failed    int
}

// Total returns the number of rows processed.
func (s Summary) Total() int {
	return s.Matched + s.Unmatched + s.Failed
}

// Summarize counts outcomes in results.
func Summarize(results []types.RowResult) Summary {
	var s Summary
	for _, r := range results {
		switch {
		case r.Failed():
			s.Failed++
		case r.Result != nil && r.Result.Matched:
			s.Matched++
		default:
			s.Unmatched++
		}
	}
	return s
}

// Run matches every row and returns one RowResult per row in input order.
// Rows that failed validation are recorded with their error and never
// searched. With cfg.Workers > 1 tracks are matched concurrently; each
// track still runs its own sequential cascade. Progress lines are written
// to w. If ctx is cancelled, every row not fully searched carries
// ctx.Err(), keeping any evaluations already made, and Run returns it.
func Run(ctx context.Context, rows []types.Row, rules *types.ScoringRules, catalog Catalog, cfg types.MatchConfig, logger *slog.Logger, w io.Writer) ([]types.RowResult, error) {
	results := make([]types.RowResult, len(rows))
	total := len(rows)

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	workers = min(workers, max(total, 1))

	var mu sync.Mutex // serializes progress output
	jobs := make(chan int)
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results[i] = types.RowResult{Row: rows[i], Err: err}
					continue
				}
				var buf bytes.Buffer
				results[i] = matchRow(ctx, rows[i], total, rules, catalog, cfg, logger, &buf)
				mu.Lock()
				w.Write(buf.Bytes())
				mu.Unlock()
			}
		}()
	}

	next := 0
feed:
	for ; next < total; next++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- next:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		for i := next; i < total; i++ {
			results[i] = types.RowResult{Row: rows[i], Err: err}
		}
		return results, err
	}
	return results, nil
}

func matchRow(ctx context.Context, row types.Row, total int, rules *types.ScoringRules, catalog Catalog, cfg types.MatchConfig, logger *slog.Logger, w io.Writer) types.RowResult {
	artist, name := row.Fields["Artist"], row.Fields["Name"]

	if row.Err != nil {
		logger.Warn("row data error",
			slog.Int("row", row.Index),
			slog.String("error", row.Err.Error()))
		fmt.Fprintf(w, "error   %d/%d: %s - %s: %v (marked not found)\n", row.Index, total, artist, name, row.Err)
		return types.RowResult{Row: row, Err: row.Err}
	}

	result := MatchTrack(ctx, *row.Track, rules, catalog, cfg, logger)
	if result.Cancelled {
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		fmt.Fprintf(w, "error   %d/%d: %s - %s: %v (search interrupted)\n", row.Index, total, artist, name, err)
		return types.RowResult{Row: row, Result: &result, Err: err}
	}
	if result.Matched {
		fmt.Fprintf(w, "matched %d/%d: %s - %s -> %q (%d%%)\n", row.Index, total, artist, name, result.Best.TrackName, result.Confidence)
	} else {
		fmt.Fprintf(w, "missed  %d/%d: %s - %s (highest confidence %d%%)\n", row.Index, total, artist, name, result.Confidence)
	}
	return types.RowResult{Row: row, Result: &result}
}
