// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ScoringRules holds the weights, thresholds, bonuses, and penalties the
// scorer consumes. A ScoringRules value is loaded once per run and shared
// read-only by every scoring call. Penalties are signed: they are added to
// the score as-is, so a configured penalty is normally negative.
type ScoringRules struct {
	BaseWeights BaseWeights `json:"base_weights" yaml:"base_weights"`
	Rules       RuleLimits  `json:"rules" yaml:"rules"`
	Bonuses     Bonuses     `json:"bonuses" yaml:"bonuses"`
	Penalties   Penalties   `json:"penalties" yaml:"penalties"`

	// ConfidenceThreshold is the minimum final score accepted as a match.
	ConfidenceThreshold float64 `json:"confidence_threshold" yaml:"confidence_threshold"`
}

// BaseWeights scale the artist and track-name similarities (0-100) into
// score points.
type BaseWeights struct {
	Artist    float64 `json:"artist" yaml:"artist"`
	TrackName float64 `json:"track_name" yaml:"track_name"`
}

// RuleLimits are the thresholds that switch bonuses and penalties on.
type RuleLimits struct {
	MinArtistSimilarity       float64 `json:"min_artist_similarity" yaml:"min_artist_similarity"`
	DurationDiffMediumPercent float64 `json:"duration_diff_medium_percent" yaml:"duration_diff_medium_percent"`
	DurationDiffLargePercent  float64 `json:"duration_diff_large_percent" yaml:"duration_diff_large_percent"`
	YearDiffMediumYears       float64 `json:"year_diff_medium_years" yaml:"year_diff_medium_years"`
	YearDiffLargeYears        float64 `json:"year_diff_large_years" yaml:"year_diff_large_years"`
}

// Bonuses are added when a signal confirms the candidate.
type Bonuses struct {
	PerfectCoreMatch float64 `json:"perfect_core_match" yaml:"perfect_core_match"`
	StrongAlbumMatch float64 `json:"strong_album_match" yaml:"strong_album_match"`
	AlbumArtistMatch float64 `json:"album_artist_match" yaml:"album_artist_match"`
	TrackNumberMatch float64 `json:"track_number_match" yaml:"track_number_match"`
}

// Penalties are added when a signal contradicts the candidate.
type Penalties struct {
	UnmatchedWordsPenalty float64 `json:"unmatched_words_penalty" yaml:"unmatched_words_penalty"`
	AlbumMismatch         float64 `json:"album_mismatch" yaml:"album_mismatch"`
	AlbumArtistMismatch   float64 `json:"album_artist_mismatch" yaml:"album_artist_mismatch"`
	TrackNumberMismatch   float64 `json:"track_number_mismatch" yaml:"track_number_mismatch"`
	DurationDiffMedium    float64 `json:"duration_diff_medium" yaml:"duration_diff_medium"`
	DurationDiffLarge     float64 `json:"duration_diff_large" yaml:"duration_diff_large"`
	YearDiffMedium        float64 `json:"year_diff_medium" yaml:"year_diff_medium"`
	YearDiffLarge         float64 `json:"year_diff_large" yaml:"year_diff_large"`
	LiveMismatch          float64 `json:"live_mismatch" yaml:"live_mismatch"`
}
