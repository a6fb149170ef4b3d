// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog implements the external track catalog the matcher
// searches. The Spotify client authenticates with client credentials,
// paces requests, and converts raw search items into candidate tracks.
package catalog

import (
	"fmt"
	"strings"

	"github.com/pdiddy/trackmatch/pkg/types"
)

// QueryError reports a failed catalog search. It is recoverable: the
// matcher logs it and moves on to its next query.
type QueryError struct {
	Query  string
	Status int
	Err    error
}

func (e *QueryError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog query %q: HTTP %d: %v", e.Query, e.Status, e.Err)
	}
	return fmt.Sprintf("catalog query %q: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Item is one raw search result as the catalog returns it.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	Album       Album    `json:"album"`
	DurationMs  int      `json:"duration_ms"`
	TrackNumber int      `json:"track_number"`
	DiscNumber  int      `json:"disc_number"`
	ExternalURL struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

// Artist is a contributing artist of a track or album.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Album is the album a search item belongs to.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	ReleaseDate string   `json:"release_date"`
}

// Candidate converts a raw item into the matcher's candidate record.
func (it Item) Candidate() types.CandidateTrack {
	return types.CandidateTrack{
		TrackName:       it.Name,
		ArtistName:      joinArtists(it.Artists),
		AlbumName:       it.Album.Name,
		AlbumArtistName: joinArtists(it.Album.Artists),
		ReleaseDate:     it.Album.ReleaseDate,
		DurationMs:      max(it.DurationMs, 0),
		ExternalID:      it.ID,
		URL:             it.ExternalURL.Spotify,
		TrackNumber:     it.TrackNumber,
		DiscNumber:      it.DiscNumber,
	}
}

func joinArtists(artists []Artist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}
