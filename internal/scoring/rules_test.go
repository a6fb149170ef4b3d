// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rulesYAML = `
base_weights:
  artist: 40
  track_name: 40
rules:
  min_artist_similarity: 70
  duration_diff_medium_percent: 5
  duration_diff_large_percent: 15
  year_diff_medium_years: 2
  year_diff_large_years: 5
bonuses:
  perfect_core_match: 10
  strong_album_match: 10
  album_artist_match: 5
  track_number_match: 5
penalties:
  unmatched_words_penalty: -15
  album_mismatch: -10
  album_artist_mismatch: -10
  track_number_mismatch: -5
  duration_diff_medium: -10
  duration_diff_large: -25
  year_diff_medium: -5
  year_diff_large: -10
  live_mismatch: -20
confidence_threshold: 80
`

const rulesTOML = `
confidence_threshold = 75.5

[base_weights]
artist = 40
track_name = 40

[rules]
min_artist_similarity = 70
duration_diff_medium_percent = 5
duration_diff_large_percent = 15
year_diff_medium_years = 2
year_diff_large_years = 5

[bonuses]
strong_album_match = 10
album_artist_match = 5
track_number_match = 5

[penalties]
unmatched_words_penalty = -15
album_mismatch = -10
album_artist_mismatch = -10
track_number_mismatch = -5
duration_diff_medium = -10
duration_diff_large = -25
year_diff_medium = -5
year_diff_large = -10
live_mismatch = -20
`

func TestParseRulesYAML(t *testing.T) {
	rules, err := ParseRules([]byte(rulesYAML), "yaml")
	require.NoError(t, err)

	assert.Equal(t, 40.0, rules.BaseWeights.Artist)
	assert.Equal(t, 70.0, rules.Rules.MinArtistSimilarity)
	assert.Equal(t, 10.0, rules.Bonuses.PerfectCoreMatch)
	assert.Equal(t, -20.0, rules.Penalties.LiveMismatch)
	assert.Equal(t, 80.0, rules.ConfidenceThreshold)
}

func TestParseRulesTOMLPerfectCoreOptional(t *testing.T) {
	rules, err := ParseRules([]byte(rulesTOML), "toml")
	require.NoError(t, err)

	assert.Equal(t, 0.0, rules.Bonuses.PerfectCoreMatch)
	assert.Equal(t, 75.5, rules.ConfidenceThreshold)
	assert.Equal(t, -25.0, rules.Penalties.DurationDiffLarge)
}

func TestParseRulesMissingKeys(t *testing.T) {
	data := `{"base_weights": {"artist": 40}, "confidence_threshold": 80}`
	_, err := ParseRules([]byte(data), "json")
	require.Error(t, err)

	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Missing, "base_weights.track_name")
	assert.Contains(t, ce.Missing, "penalties.live_mismatch")
	assert.NotContains(t, ce.Missing, "base_weights.artist")
	assert.NotContains(t, ce.Missing, "bonuses.perfect_core_match")
}

func TestParseRulesNonNumeric(t *testing.T) {
	bad := `
base_weights: {artist: forty, track_name: 40}
rules: {min_artist_similarity: 70, duration_diff_medium_percent: 5, duration_diff_large_percent: 15, year_diff_medium_years: 2, year_diff_large_years: 5}
bonuses: {strong_album_match: 10, album_artist_match: 5, track_number_match: 5}
penalties: {unmatched_words_penalty: -15, album_mismatch: -10, album_artist_mismatch: -10, track_number_mismatch: -5, duration_diff_medium: -10, duration_diff_large: -25, year_diff_medium: -5, year_diff_large: -10, live_mismatch: -20}
confidence_threshold: 80
`
	_, err := ParseRules([]byte(bad), "yaml")
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"base_weights.artist"}, ce.NotNumeric)
	assert.Empty(t, ce.Missing)
}

func TestParseRulesMalformed(t *testing.T) {
	_, err := ParseRules([]byte(`{not json`), "json")
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, err.Error(), "parsing rules")
}

func TestLoadRulesByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yml")
	require.NoError(t, os.WriteFile(path, []byte(rulesYAML), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, 80.0, rules.ConfidenceThreshold)
}

func TestLoadRulesMissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "nope.json"))
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRulesExampleFile(t *testing.T) {
	rules, err := LoadRules(filepath.Join("..", "..", "config.example.json"))
	require.NoError(t, err)
	assert.Equal(t, 80.0, rules.ConfidenceThreshold)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, "yaml", FormatFromPath("a/rules.YAML"))
	assert.Equal(t, "yaml", FormatFromPath("rules.yml"))
	assert.Equal(t, "toml", FormatFromPath("rules.toml"))
	assert.Equal(t, "json", FormatFromPath("config.json"))
	assert.Equal(t, "json", FormatFromPath("config"))
}
