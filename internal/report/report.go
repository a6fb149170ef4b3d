// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders batch match results as a per-track summary and a
// per-candidate details log, and writes them as XLSX, SQLite, JSON, or
// YAML.
package report

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/trackmatch/internal/ingest"
	"github.com/pdiddy/trackmatch/pkg/types"
)

// Summary columns appended after the input columns.
const (
	ColFound      = "Found on Spotify"
	ColInclude    = "Include in Playlist"
	ColConfidence = "Confidence"
	ColTrackID    = "Spotify Track ID"
	ColName       = "Spotify Name"
	ColArtist     = "Spotify Artist"
	ColAlbum      = "Spotify Album"
	ColURL        = "Spotify URL"
)

// SummaryColumns follow the input columns in every summary row.
var SummaryColumns = []string{ColFound, ColInclude, ColConfidence, ColTrackID, ColName, ColArtist, ColAlbum, ColURL}

// DetailColumns lead every details row; breakdown signals follow.
var DetailColumns = []string{
	"Local Artist", "Local Track", "Local Album", "Match Found",
	"Spotify Artist", "Spotify Track", "Spotify Album", "Spotify Year", "Final Score",
}

// SummaryRow is the outcome for one input row.
type SummaryRow struct {
	Fields     map[string]string `json:"fields" yaml:"fields"`
	Found      bool              `json:"found_on_spotify" yaml:"found_on_spotify"`
	Include    bool              `json:"include_in_playlist" yaml:"include_in_playlist"`
	Confidence string            `json:"confidence" yaml:"confidence"`
	TrackID    string            `json:"spotify_track_id" yaml:"spotify_track_id"`
	Name       string            `json:"spotify_name" yaml:"spotify_name"`
	Artist     string            `json:"spotify_artist" yaml:"spotify_artist"`
	Album      string            `json:"spotify_album" yaml:"spotify_album"`
	URL        string            `json:"spotify_url" yaml:"spotify_url"`
}

// DetailRow is one scored candidate.
type DetailRow struct {
	LocalArtist   string               `json:"local_artist" yaml:"local_artist"`
	LocalTrack    string               `json:"local_track" yaml:"local_track"`
	LocalAlbum    string               `json:"local_album" yaml:"local_album"`
	MatchFound    bool                 `json:"match_found" yaml:"match_found"`
	SpotifyArtist string               `json:"spotify_artist" yaml:"spotify_artist"`
	SpotifyTrack  string               `json:"spotify_track" yaml:"spotify_track"`
	SpotifyAlbum  string               `json:"spotify_album" yaml:"spotify_album"`
	SpotifyYear   string               `json:"spotify_year" yaml:"spotify_year"`
	FinalScore    int                  `json:"final_score" yaml:"final_score"`
	Breakdown     types.ScoreBreakdown `json:"breakdown" yaml:"breakdown"`
}

// Report is everything written for one batch run.
type Report struct {
	RunID        string
	CreatedAt    time.Time
	InputColumns []string
	Summary      []SummaryRow
	Details      []DetailRow
}

// Table is a rectangular view of a report sheet. Cells hold string,
// bool, int, float64, or nil for an absent value.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Build assembles the report for a run. inputColumns is the input header;
// optional columns it lacks are appended so every summary carries them.
// Summary rows are ordered by album artist with empty values first;
// details by local artist, local track, then descending final score.
func Build(inputColumns []string, results []types.RowResult) *Report {
	r := &Report{
		RunID:        uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		InputColumns: withOptionalColumns(inputColumns),
	}

	for _, res := range results {
		r.Summary = append(r.Summary, summaryRow(res))
		if res.Result == nil {
			continue
		}
		for _, ev := range res.Result.Evaluations {
			r.Details = append(r.Details, detailRow(ev))
		}
	}

	slices.SortStableFunc(r.Summary, func(a, b SummaryRow) int {
		return strings.Compare(a.Fields[ingest.ColAlbumArtist], b.Fields[ingest.ColAlbumArtist])
	})
	slices.SortStableFunc(r.Details, func(a, b DetailRow) int {
		return cmp.Or(
			strings.Compare(a.LocalArtist, b.LocalArtist),
			strings.Compare(a.LocalTrack, b.LocalTrack),
			cmp.Compare(b.FinalScore, a.FinalScore),
		)
	})
	return r
}

// Counts returns how many summary rows were matched, missed, and errored.
func (r *Report) Counts() (matched, missed, errored int) {
	for _, s := range r.Summary {
		switch {
		case s.Found:
			matched++
		case s.Confidence == confidenceError:
			errored++
		default:
			missed++
		}
	}
	return matched, missed, errored
}

// SignalColumns lists every breakdown signal name in first-seen order.
func (r *Report) SignalColumns() []string {
	var cols []string
	seen := make(map[string]bool)
	for _, d := range r.Details {
		for _, s := range d.Breakdown.Signals {
			if !seen[s.Name] {
				seen[s.Name] = true
				cols = append(cols, s.Name)
			}
		}
	}
	return cols
}

// SummaryTable renders the summary sheet.
func (r *Report) SummaryTable() Table {
	t := Table{Name: "Summary", Columns: append(slices.Clone(r.InputColumns), SummaryColumns...)}
	for _, s := range r.Summary {
		row := make([]any, 0, len(t.Columns))
		for _, col := range r.InputColumns {
			row = append(row, s.Fields[col])
		}
		row = append(row, s.Found, s.Include, s.Confidence, s.TrackID, s.Name, s.Artist, s.Album, s.URL)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// DetailsTable renders the details sheet. Signals a candidate never
// recorded are nil.
func (r *Report) DetailsTable() Table {
	signals := r.SignalColumns()
	t := Table{Name: "Details", Columns: append(slices.Clone(DetailColumns), signals...)}
	for _, d := range r.Details {
		row := []any{
			d.LocalArtist, d.LocalTrack, d.LocalAlbum, d.MatchFound,
			d.SpotifyArtist, d.SpotifyTrack, d.SpotifyAlbum, d.SpotifyYear, d.FinalScore,
		}
		for _, name := range signals {
			if s, ok := d.Breakdown.Get(name); ok {
				row = append(row, s.Any())
			} else {
				row = append(row, nil)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

const confidenceError = "Error"

func summaryRow(res types.RowResult) SummaryRow {
	s := SummaryRow{Fields: res.Row.Fields}
	if s.Fields == nil {
		s.Fields = map[string]string{}
	}

	switch {
	case res.Err != nil || res.Result == nil:
		s.Confidence = confidenceError
	case res.Result.Matched:
		best := res.Result.Best
		s.Found, s.Include = true, true
		s.Confidence = fmt.Sprintf("%d%%", res.Result.Confidence)
		s.TrackID = best.ExternalID
		s.Name = best.TrackName
		s.Artist = best.ArtistName
		s.Album = best.AlbumName
		s.URL = best.URL
	default:
		s.Confidence = fmt.Sprintf("%d%% (Below Threshold)", res.Result.Confidence)
	}
	return s
}

func detailRow(ev types.Evaluation) DetailRow {
	return DetailRow{
		LocalArtist:   ev.LocalArtist,
		LocalTrack:    ev.LocalTrack,
		LocalAlbum:    ev.LocalAlbum,
		MatchFound:    ev.MatchFound,
		SpotifyArtist: ev.CandidateArtist,
		SpotifyTrack:  ev.CandidateTrack,
		SpotifyAlbum:  ev.CandidateAlbum,
		SpotifyYear:   ev.CandidateYear,
		FinalScore:    ev.FinalScore,
		Breakdown:     ev.Breakdown,
	}
}

func withOptionalColumns(columns []string) []string {
	out := slices.Clone(columns)
	for _, col := range ingest.OptionalColumns {
		if !slices.Contains(out, col) {
			out = append(out, col)
		}
	}
	return out
}
