// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store is a SQLite report database. Each batch run is appended under its
// own run id, so one database can hold a history of runs.
type Store struct {
	db *sql.DB
}

// RunInfo describes one stored run.
type RunInfo struct {
	ID        string
	CreatedAt time.Time
	Matched   int
	Missed    int
	Errored   int
}

// Total returns the number of rows in the run.
func (r RunInfo) Total() int {
	return r.Matched + r.Missed + r.Errored
}

// OpenStore opens or creates the report database at path and ensures its
// schema exists.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			columns TEXT,
			matched INTEGER,
			missed INTEGER,
			errored INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS summary (
			run_id TEXT NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			found INTEGER,
			include INTEGER,
			confidence TEXT,
			spotify_track_id TEXT,
			spotify_name TEXT,
			spotify_artist TEXT,
			spotify_album TEXT,
			spotify_url TEXT,
			fields TEXT,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS details (
			run_id TEXT NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			local_artist TEXT,
			local_track TEXT,
			local_album TEXT,
			match_found INTEGER,
			spotify_artist TEXT,
			spotify_track TEXT,
			spotify_album TEXT,
			spotify_year TEXT,
			final_score INTEGER,
			breakdown TEXT,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_details_local ON details(run_id, local_artist, local_track)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun stores r in a single transaction.
func (s *Store) SaveRun(ctx context.Context, r *Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	columnsJSON, err := json.Marshal(r.InputColumns)
	if err != nil {
		return fmt.Errorf("marshaling columns: %w", err)
	}
	matched, missed, errored := r.Counts()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, columns, matched, missed, errored) VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID, r.CreatedAt.UTC().Format(timeLayout), string(columnsJSON), matched, missed, errored,
	); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for i, row := range r.Summary {
		fieldsJSON, err := json.Marshal(row.Fields)
		if err != nil {
			return fmt.Errorf("marshaling fields: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO summary (run_id, position, found, include, confidence,
				spotify_track_id, spotify_name, spotify_artist, spotify_album, spotify_url, fields)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.RunID, i+1, row.Found, row.Include, row.Confidence,
			row.TrackID, row.Name, row.Artist, row.Album, row.URL, string(fieldsJSON),
		); err != nil {
			return fmt.Errorf("inserting summary row %d: %w", i+1, err)
		}
	}

	for i, d := range r.Details {
		breakdownJSON, err := json.Marshal(d.Breakdown.Signals)
		if err != nil {
			return fmt.Errorf("marshaling breakdown: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO details (run_id, position, local_artist, local_track, local_album, match_found,
				spotify_artist, spotify_track, spotify_album, spotify_year, final_score, breakdown)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.RunID, i+1, d.LocalArtist, d.LocalTrack, d.LocalAlbum, d.MatchFound,
			d.SpotifyArtist, d.SpotifyTrack, d.SpotifyAlbum, d.SpotifyYear, d.FinalScore, string(breakdownJSON),
		); err != nil {
			return fmt.Errorf("inserting details row %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, matched, missed, errored FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var (
			info    RunInfo
			created string
		)
		if err := rows.Scan(&info.ID, &created, &info.Matched, &info.Missed, &info.Errored); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		info.CreatedAt, _ = time.Parse(timeLayout, created)
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

// WriteSQLite appends r to the database at path, creating it if needed.
func WriteSQLite(ctx context.Context, path string, r *Report) error {
	s, err := OpenStore(path)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.SaveRun(ctx, r)
}
