// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the trackmatch pipeline:
// local and remote track records, scoring rules, score breakdowns, and
// per-track match results.
package types

// LocalTrack is one row of the caller's music catalog, validated and
// converted at the ingestion boundary. It is never modified after
// construction.
type LocalTrack struct {
	// Artist is the track artist as written in the source catalog.
	Artist string `json:"artist" yaml:"artist"`

	// Name is the track title.
	Name string `json:"name" yaml:"name"`

	// Album is the album title.
	Album string `json:"album" yaml:"album"`

	// AlbumArtist is the album-level artist. Empty means "same as Artist".
	AlbumArtist string `json:"album_artist,omitempty" yaml:"album_artist,omitempty"`

	// Year is the release year. Required.
	Year int `json:"year" yaml:"year"`

	// Duration is the original "M:SS" or "H:MM:SS" text.
	Duration string `json:"duration" yaml:"duration"`

	// DurationMs is Duration converted to milliseconds; 0 when unparsable.
	DurationMs int `json:"duration_ms" yaml:"duration_ms"`

	// TrackNumber is the position on the disc; 0 means unknown.
	TrackNumber int `json:"track_number,omitempty" yaml:"track_number,omitempty"`

	// DiscNumber is the disc index; 0 is read as disc 1.
	DiscNumber int `json:"disc_number,omitempty" yaml:"disc_number,omitempty"`
}

// EffectiveAlbumArtist returns AlbumArtist, falling back to Artist.
func (t LocalTrack) EffectiveAlbumArtist() string {
	if t.AlbumArtist != "" {
		return t.AlbumArtist
	}
	return t.Artist
}

// EffectiveDisc returns DiscNumber, defaulting to 1.
func (t LocalTrack) EffectiveDisc() int {
	if t.DiscNumber <= 0 {
		return 1
	}
	return t.DiscNumber
}

// CandidateTrack is one track returned by the external catalog. It lives
// for the duration of one cascade and is identified by ExternalID.
type CandidateTrack struct {
	TrackName string `json:"track_name" yaml:"track_name"`

	// ArtistName joins every contributing artist with ", ".
	ArtistName string `json:"artist_name" yaml:"artist_name"`

	AlbumName string `json:"album_name" yaml:"album_name"`

	// AlbumArtistName joins the album artists with ", ".
	AlbumArtistName string `json:"album_artist_name" yaml:"album_artist_name"`

	// ReleaseDate is the album release date as the catalog reports it
	// ("1975", "1975-11", or "1975-11-21").
	ReleaseDate string `json:"release_date" yaml:"release_date"`

	DurationMs int    `json:"duration_ms" yaml:"duration_ms"`
	ExternalID string `json:"id" yaml:"id"`
	URL        string `json:"url" yaml:"url"`

	// TrackNumber is 0 when the catalog omits it.
	TrackNumber int `json:"track_number,omitempty" yaml:"track_number,omitempty"`

	// DiscNumber is 0 when the catalog omits it; read as disc 1.
	DiscNumber int `json:"disc_number,omitempty" yaml:"disc_number,omitempty"`
}

// ReleaseYear returns the first four characters of ReleaseDate as text.
func (c CandidateTrack) ReleaseYear() string {
	if len(c.ReleaseDate) < 4 {
		return c.ReleaseDate
	}
	return c.ReleaseDate[:4]
}

// EffectiveAlbumArtist returns AlbumArtistName, falling back to ArtistName.
func (c CandidateTrack) EffectiveAlbumArtist() string {
	if c.AlbumArtistName != "" {
		return c.AlbumArtistName
	}
	return c.ArtistName
}

// EffectiveDisc returns DiscNumber, defaulting to 1.
func (c CandidateTrack) EffectiveDisc() int {
	if c.DiscNumber <= 0 {
		return 1
	}
	return c.DiscNumber
}
