// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest reads the local track collection from a CSV file with a
// header row. Each data row becomes a types.Row carrying either a parsed
// LocalTrack or the reason it could not be parsed.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/trackmatch/internal/normalize"
	"github.com/pdiddy/trackmatch/pkg/types"
)

// Column names recognised in the input header.
const (
	ColArtist      = "Artist"
	ColName        = "Name"
	ColAlbum       = "Album"
	ColYear        = "Year"
	ColDuration    = "Duration"
	ColAlbumArtist = "Album Artist"
	ColTrackNumber = "Track #"
	ColDiscNumber  = "Disc #"
)

// RequiredColumns must all be present in the header.
var RequiredColumns = []string{ColArtist, ColName, ColAlbum, ColYear, ColDuration}

// OptionalColumns are read when present.
var OptionalColumns = []string{ColAlbumArtist, ColTrackNumber, ColDiscNumber}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// RowError reports why a single data row could not become a LocalTrack.
// Row is 1-based over data rows.
type RowError struct {
	Row   int
	Field string
	Err   error
}

func (e *RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d: %s: %v", e.Row, e.Field, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Table is the parsed input: the header in file order and one Row per
// data line.
type Table struct {
	Columns []string
	Rows    []types.Row
}

// InputPath appends ".csv" when path has no such extension.
func InputPath(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		return path
	}
	return path + ".csv"
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses CSV from r. A missing required column is fatal and wraps
// ErrMissingColumn; problems within a row are recorded on that row as a
// *RowError.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("reading header: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	table := &Table{Columns: header}
	for index := 1; ; index++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", index, err)
		}

		fields := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(record) {
				fields[h] = strings.TrimSpace(record[i])
			}
		}

		row := types.Row{Index: index, Fields: fields}
		track, err := parseTrack(index, fields)
		if err != nil {
			row.Err = err
		} else {
			row.Track = track
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func parseTrack(index int, f map[string]string) (*types.LocalTrack, error) {
	year, err := parseYear(f[ColYear])
	if err != nil {
		return nil, &RowError{Row: index, Field: ColYear, Err: err}
	}

	return &types.LocalTrack{
		Artist:      f[ColArtist],
		Name:        f[ColName],
		Album:       f[ColAlbum],
		AlbumArtist: f[ColAlbumArtist],
		Year:        year,
		Duration:    f[ColDuration],
		DurationMs:  normalize.DurationMs(f[ColDuration]),
		TrackNumber: parseOptionalInt(f[ColTrackNumber]),
		DiscNumber:  parseOptionalInt(f[ColDiscNumber]),
	}, nil
}

// parseYear accepts whole numbers, including spreadsheet-style "1975.0".
func parseYear(s string) (int, error) {
	if s == "" {
		return 0, errors.New("year is missing")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("year %q is not a whole number", s)
	}
	return int(v), nil
}

// parseOptionalInt returns 0 (absent) for empty or unparsable values.
func parseOptionalInt(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != math.Trunc(v) || v <= 0 || math.IsInf(v, 0) {
		return 0
	}
	return int(v)
}
