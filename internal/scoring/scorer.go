// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scoring computes the confidence that a catalog candidate is the
// same recording as a local track, with an auditable breakdown of every
// contributing signal, and loads the rules that drive it.
package scoring

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pdiddy/trackmatch/internal/normalize"
	"github.com/pdiddy/trackmatch/internal/similarity"
	"github.com/pdiddy/trackmatch/pkg/types"
)

// Breakdown signal names.
const (
	SignalArtistSimilarity     = "artist_similarity_%"
	SignalArtistScore          = "artist_score"
	SignalReasonForZero        = "reason_for_zero"
	SignalTrackSimilarity      = "track_similarity_%"
	SignalTrackNameScore       = "track_name_score"
	SignalArtistUnmatchedWords = "artist_unmatched_words_penalty"
	SignalTrackUnmatchedWords  = "track_unmatched_words_penalty"
	SignalPerfectCoreBonus     = "perfect_core_bonus"
	SignalAlbumSimilarity      = "album_similarity_%"
	SignalAlbumNameBonus       = "album_name_bonus"
	SignalAlbumNamePenalty     = "album_name_penalty"
	SignalAlbumArtistBonus     = "album_artist_bonus"
	SignalAlbumArtistPenalty   = "album_artist_penalty"
	SignalTrackNumberBonus     = "track_number_bonus"
	SignalTrackNumberPenalty   = "track_number_penalty"
	SignalDurationDiffPercent  = "duration_diff_%"
	SignalDurationPenalty      = "duration_penalty"
	SignalYearDifference       = "year_difference"
	SignalYearPenalty          = "year_penalty"
	SignalLiveMismatchPenalty  = "live_mismatch_penalty"
	SignalFinalScore           = "final_score"
)

// Album similarity cut points. Above strongAlbum earns the album bonus,
// below weakAlbum the album penalty; track numbers are only compared when
// the album clears trackNumberAlbumGate.
const (
	strongAlbum          = 90
	weakAlbum            = 50
	strongAlbumArtist    = 90
	trackNumberAlbumGate = 85
)

// Score rates candidate against local under rules and returns the final
// score (0-100) with its breakdown. A candidate whose artist similarity is
// below rules.Rules.MinArtistSimilarity scores exactly 0 and no other
// signal is evaluated.
func Score(local types.LocalTrack, candidate types.CandidateTrack, rules *types.ScoringRules) (int, types.ScoreBreakdown) {
	var b types.ScoreBreakdown

	localArtist, candArtist := normalize.Clean(local.Artist), normalize.Clean(candidate.ArtistName)
	localName, candName := normalize.Clean(local.Name), normalize.Clean(candidate.TrackName)

	artistSim := similarity.TokenSetRatio(localArtist, candArtist)
	b.Measure(SignalArtistSimilarity, float64(artistSim))
	b.AddTerm(SignalArtistScore, float64(artistSim)/100*rules.BaseWeights.Artist)
	if float64(artistSim) < rules.Rules.MinArtistSimilarity {
		b.Measure(SignalFinalScore, 0)
		b.Note(SignalReasonForZero, fmt.Sprintf("Artist similarity %d%% is below threshold %s%%",
			artistSim, formatNumber(rules.Rules.MinArtistSimilarity)))
		return 0, b
	}

	trackSim := similarity.TokenSetRatio(localName, candName)
	b.Measure(SignalTrackSimilarity, float64(trackSim))
	b.AddTerm(SignalTrackNameScore, float64(trackSim)/100*rules.BaseWeights.TrackName)

	// A token-set score of 100 also covers one label containing the other
	// ("Guns N Roses" vs "Guns Roses"), so demand the same word sets.
	if artistSim == 100 && !normalize.SameWords(localArtist, candArtist) {
		b.AddTerm(SignalArtistUnmatchedWords, rules.Penalties.UnmatchedWordsPenalty)
	}
	if trackSim == 100 && !normalize.SameWords(localName, candName) {
		b.AddTerm(SignalTrackUnmatchedWords, rules.Penalties.UnmatchedWordsPenalty)
	}
	if artistSim == 100 && trackSim == 100 {
		b.AddTerm(SignalPerfectCoreBonus, rules.Bonuses.PerfectCoreMatch)
	}

	albumSim := similarity.TokenSetRatio(local.Album, candidate.AlbumName)
	b.Measure(SignalAlbumSimilarity, float64(albumSim))
	switch {
	case albumSim > strongAlbum:
		b.AddTerm(SignalAlbumNameBonus, rules.Bonuses.StrongAlbumMatch)
	case albumSim < weakAlbum:
		b.AddTerm(SignalAlbumNamePenalty, rules.Penalties.AlbumMismatch)
	}

	scoreAlbumArtist(&b, local, candidate, artistSim, rules)

	if albumSim > trackNumberAlbumGate {
		scoreTrackNumber(&b, local, candidate, rules)
	}

	scoreDuration(&b, local, candidate, rules)
	scoreYear(&b, local, candidate, rules)

	if normalize.IsLive(local.Name, local.Album) != normalize.IsLive(candidate.TrackName, candidate.AlbumName) {
		b.AddTerm(SignalLiveMismatchPenalty, rules.Penalties.LiveMismatch)
	}

	final := clamp(int(math.Floor(b.TermSum())), 0, 100)
	b.Measure(SignalFinalScore, float64(final))
	return final, b
}

func scoreAlbumArtist(b *types.ScoreBreakdown, local types.LocalTrack, candidate types.CandidateTrack, artistSim int, rules *types.ScoringRules) {
	localAA, candAA := local.EffectiveAlbumArtist(), candidate.EffectiveAlbumArtist()
	localVA, candVA := normalize.IsVariousArtists(localAA), normalize.IsVariousArtists(candAA)

	switch {
	case localVA && candVA:
		b.AddTerm(SignalAlbumArtistBonus, rules.Bonuses.AlbumArtistMatch)
	case similarity.Ratio(localAA, candAA) > strongAlbumArtist:
		b.AddTerm(SignalAlbumArtistBonus, rules.Bonuses.AlbumArtistMatch)
	case localVA != candVA && artistSim < 100:
		b.AddTerm(SignalAlbumArtistPenalty, rules.Penalties.AlbumArtistMismatch)
	}
}

// scoreTrackNumber compares disc and track positions. Unknown positions on
// either side leave the signal unevaluated.
func scoreTrackNumber(b *types.ScoreBreakdown, local types.LocalTrack, candidate types.CandidateTrack, rules *types.ScoringRules) {
	if local.TrackNumber <= 0 || candidate.TrackNumber <= 0 {
		return
	}
	if local.EffectiveDisc() == candidate.EffectiveDisc() && local.TrackNumber == candidate.TrackNumber {
		b.AddTerm(SignalTrackNumberBonus, rules.Bonuses.TrackNumberMatch)
		return
	}
	b.AddTerm(SignalTrackNumberPenalty, rules.Penalties.TrackNumberMismatch)
}

// scoreDuration penalizes length differences relative to the local
// duration. A zero local duration counts as a 100% difference.
func scoreDuration(b *types.ScoreBreakdown, local types.LocalTrack, candidate types.CandidateTrack, rules *types.ScoringRules) {
	diffPct := 100.0
	if local.DurationMs > 0 {
		diff := math.Abs(float64(local.DurationMs - candidate.DurationMs))
		diffPct = diff / float64(local.DurationMs) * 100
	}
	b.Measure(SignalDurationDiffPercent, math.Round(diffPct*100)/100)

	switch {
	case diffPct > rules.Rules.DurationDiffLargePercent:
		b.AddTerm(SignalDurationPenalty, rules.Penalties.DurationDiffLarge)
	case diffPct > rules.Rules.DurationDiffMediumPercent:
		b.AddTerm(SignalDurationPenalty, rules.Penalties.DurationDiffMedium)
	}
}

// scoreYear penalizes release-year distance. A candidate without a
// numeric year leaves the signal unevaluated.
func scoreYear(b *types.ScoreBreakdown, local types.LocalTrack, candidate types.CandidateTrack, rules *types.ScoringRules) {
	candYear, err := strconv.Atoi(candidate.ReleaseYear())
	if err != nil {
		return
	}
	diff := local.Year - candYear
	if diff < 0 {
		diff = -diff
	}
	b.Measure(SignalYearDifference, float64(diff))

	switch {
	case float64(diff) > rules.Rules.YearDiffLargeYears:
		b.AddTerm(SignalYearPenalty, rules.Penalties.YearDiffLarge)
	case float64(diff) > rules.Rules.YearDiffMediumYears:
		b.AddTerm(SignalYearPenalty, rules.Penalties.YearDiffMedium)
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
