// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Artist,Name,Album,Album Artist,Year,Duration,Track #,Disc #
Queen,Bohemian Rhapsody,A Night at the Opera,,1975,5:55,11,1
Led Zeppelin,Stairway to Heaven,Led Zeppelin IV,Led Zeppelin,1971.0,8:02,4,
Various,Unknown Song,Mix,,,3:00,,
Nirvana,Come as You Are,Nevermind,,1991,3:39,three,x
`

func TestReadParsesRows(t *testing.T) {
	table, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"Artist", "Name", "Album", "Album Artist", "Year", "Duration", "Track #", "Disc #"}, table.Columns)
	require.Len(t, table.Rows, 4)

	queen := table.Rows[0]
	assert.Equal(t, 1, queen.Index)
	require.NoError(t, queen.Err)
	require.NotNil(t, queen.Track)
	assert.Equal(t, "Queen", queen.Track.Artist)
	assert.Equal(t, "Queen", queen.Track.EffectiveAlbumArtist())
	assert.Equal(t, 1975, queen.Track.Year)
	assert.Equal(t, 355000, queen.Track.DurationMs)
	assert.Equal(t, 11, queen.Track.TrackNumber)
	assert.Equal(t, 1, queen.Track.EffectiveDisc())
	assert.Equal(t, "5:55", queen.Fields["Duration"])
}

func TestReadAcceptsFloatYear(t *testing.T) {
	table, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	zep := table.Rows[1]
	require.NoError(t, zep.Err)
	assert.Equal(t, 1971, zep.Track.Year)
	assert.Equal(t, 0, zep.Track.DiscNumber)
	assert.Equal(t, 1, zep.Track.EffectiveDisc())
}

func TestReadMissingYearIsRowError(t *testing.T) {
	table, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	row := table.Rows[2]
	assert.Nil(t, row.Track)
	var rowErr *RowError
	require.True(t, errors.As(row.Err, &rowErr))
	assert.Equal(t, 3, rowErr.Row)
	assert.Equal(t, ColYear, rowErr.Field)
	assert.Contains(t, row.Err.Error(), "year is missing")
	assert.Equal(t, "Various", row.Fields["Artist"], "fields are kept for the report")
}

func TestReadUnparsableNumbersAreAbsent(t *testing.T) {
	table, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	nirvana := table.Rows[3]
	require.NoError(t, nirvana.Err)
	assert.Equal(t, 0, nirvana.Track.TrackNumber)
	assert.Equal(t, 0, nirvana.Track.DiscNumber)
}

func TestReadBadYear(t *testing.T) {
	for _, year := range []string{"nineteen", "1975.5", "NaN"} {
		t.Run(year, func(t *testing.T) {
			input := "Artist,Name,Album,Year,Duration\nQueen,Song,Album," + year + ",3:00\n"
			table, err := Read(strings.NewReader(input))
			require.NoError(t, err)
			require.Len(t, table.Rows, 1)

			var rowErr *RowError
			assert.ErrorAs(t, table.Rows[0].Err, &rowErr)
		})
	}
}

func TestReadOptionalColumnsMayBeAbsent(t *testing.T) {
	input := "Artist,Name,Album,Year,Duration\nQueen,Song,Album,1980,garbage\n"
	table, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	track := table.Rows[0].Track
	require.NotNil(t, track)
	assert.Equal(t, "", track.AlbumArtist)
	assert.Equal(t, 0, track.DurationMs, "unparsable duration is zero")
}

func TestReadMissingColumns(t *testing.T) {
	_, err := Read(strings.NewReader("Artist,Name,Duration\nQueen,Song,3:00\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "Album, Year")
}

func TestReadEmptyInput(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadStripsByteOrderMark(t *testing.T) {
	input := "\ufeffArtist,Name,Album,Year,Duration\nQueen,Song,Album,1980,3:00\n"
	table, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "Artist", table.Columns[0])
	assert.Equal(t, "Queen", table.Rows[0].Track.Artist)
}

func TestReadShortRecord(t *testing.T) {
	input := "Artist,Name,Album,Year,Duration,Album Artist\nQueen,Song,Album,1980,3:00\n"
	table, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.NoError(t, table.Rows[0].Err)
	assert.Equal(t, "Queen", table.Rows[0].Track.EffectiveAlbumArtist())
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	table, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 4)

	_, err = ReadFile(filepath.Join(t.TempDir(), "absent.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInputPath(t *testing.T) {
	assert.Equal(t, "library.csv", InputPath("library"))
	assert.Equal(t, "library.csv", InputPath("library.csv"))
	assert.Equal(t, "LIBRARY.CSV", InputPath("LIBRARY.CSV"))
}
