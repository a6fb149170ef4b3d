// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/trackmatch/pkg/types"
)

// requiredKeys lists every dotted rules key that must be present.
// bonuses.perfect_core_match is optional and defaults to 0.
var requiredKeys = []string{
	"base_weights.artist",
	"base_weights.track_name",
	"rules.min_artist_similarity",
	"rules.duration_diff_medium_percent",
	"rules.duration_diff_large_percent",
	"rules.year_diff_medium_years",
	"rules.year_diff_large_years",
	"bonuses.strong_album_match",
	"bonuses.album_artist_match",
	"bonuses.track_number_match",
	"penalties.unmatched_words_penalty",
	"penalties.album_mismatch",
	"penalties.album_artist_mismatch",
	"penalties.track_number_mismatch",
	"penalties.duration_diff_medium",
	"penalties.duration_diff_large",
	"penalties.year_diff_medium",
	"penalties.year_diff_large",
	"penalties.live_mismatch",
	"confidence_threshold",
}

var optionalKeys = []string{
	"bonuses.perfect_core_match",
}

// ConfigError reports a rules file that cannot drive scoring. It is fatal:
// no matching starts with incomplete rules.
type ConfigError struct {
	Path       string
	Missing    []string
	NotNumeric []string
	Err        error
}

func (e *ConfigError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing keys: "+strings.Join(e.Missing, ", "))
	}
	if len(e.NotNumeric) > 0 {
		parts = append(parts, "non-numeric keys: "+strings.Join(e.NotNumeric, ", "))
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return fmt.Sprintf("scoring rules %s: %s", e.Path, strings.Join(parts, "; "))
}

func (e *ConfigError) Unwrap() error { return e.Err }

// LoadRules reads a JSON, YAML, or TOML rules file, chosen by extension,
// and validates that every required key is present and numeric.
func LoadRules(path string) (*types.ScoringRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("reading rules file: %w", err)}
	}
	rules, err := ParseRules(data, FormatFromPath(path))
	if err != nil {
		var ce *ConfigError
		if errors.As(err, &ce) {
			ce.Path = path
		}
		return nil, err
	}
	return rules, nil
}

// FormatFromPath maps a file extension to "json", "yaml", or "toml".
// Unknown extensions are read as JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}

// ParseRules decodes rules from data in the given format.
func ParseRules(data []byte, format string) (*types.ScoringRules, error) {
	raw := map[string]any{}
	var err error
	switch format {
	case "yaml":
		err = yaml.Unmarshal(data, &raw)
	case "toml":
		err = toml.Unmarshal(data, &raw)
	case "json":
		err = json.Unmarshal(data, &raw)
	default:
		err = fmt.Errorf("unsupported rules format %q", format)
	}
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("parsing rules: %w", err)}
	}

	ce := &ConfigError{}
	for _, key := range requiredKeys {
		v, ok := lookup(raw, key)
		switch {
		case !ok:
			ce.Missing = append(ce.Missing, key)
		case !isNumber(v):
			ce.NotNumeric = append(ce.NotNumeric, key)
		}
	}
	for _, key := range optionalKeys {
		if v, ok := lookup(raw, key); ok && !isNumber(v) {
			ce.NotNumeric = append(ce.NotNumeric, key)
		}
	}
	if len(ce.Missing) > 0 || len(ce.NotNumeric) > 0 {
		sort.Strings(ce.Missing)
		sort.Strings(ce.NotNumeric)
		return nil, ce
	}

	// The raw map is known-good; round-trip it through JSON so all three
	// formats share the struct tags on types.ScoringRules.
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("normalizing rules: %w", err)}
	}
	var rules types.ScoringRules
	if err := json.Unmarshal(normalized, &rules); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("decoding rules: %w", err)}
	}
	return &rules, nil
}

// lookup resolves a dotted key through nested maps.
func lookup(m map[string]any, dotted string) (any, bool) {
	parts := strings.Split(dotted, ".")
	var cur any = m
	for _, p := range parts {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = node[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}
