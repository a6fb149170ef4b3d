// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns raw title and artist text into comparable forms.
// All functions are pure.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	bracketed     = regexp.MustCompile(`\[.*?\]`)
	parenthetical = regexp.MustCompile(`\(.*?\)`)
	romanNumeral  = regexp.MustCompile(`(?i)\b(?:V|IV|III|II|I)\b`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Clean removes every "[...]" and "(...)" annotation, such as
// "(Remastered 2009)" or "[Live]", and trims surrounding whitespace.
func Clean(text string) string {
	text = bracketed.ReplaceAllString(text, "")
	text = parenthetical.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// SanitizeForSearch applies Clean, then drops standalone Roman numerals
// I through V ("Part II", "Rocky IV") and collapses whitespace. It only
// feeds the relaxed search query; scoring never sees its output.
func SanitizeForSearch(text string) string {
	text = romanNumeral.ReplaceAllString(Clean(text), "")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// DurationMs converts "M:SS" or "H:MM:SS" to milliseconds. Anything else,
// including negative or non-numeric parts, yields 0.
func DurationMs(duration string) int {
	parts := strings.Split(strings.TrimSpace(duration), ":")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0
		}
		nums[i] = n
	}

	switch len(nums) {
	case 3:
		return (nums[0]*3600 + nums[1]*60 + nums[2]) * 1000
	case 2:
		return (nums[0]*60 + nums[1]) * 1000
	default:
		return 0
	}
}

// IsLive reports whether either text mentions "live" in any case. The
// check is a plain substring test.
func IsLive(texts ...string) bool {
	for _, t := range texts {
		if strings.Contains(strings.ToLower(t), "live") {
			return true
		}
	}
	return false
}

// IsVariousArtists reports whether an album-artist label denotes a
// compilation.
func IsVariousArtists(albumArtist string) bool {
	return strings.Contains(strings.ToLower(albumArtist), "various artists")
}

// WordSet returns the set of lower-cased, whitespace-separated words.
func WordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// SameWords reports whether a and b contain the same set of words,
// ignoring case, order, and repetition.
func SameWords(a, b string) bool {
	sa, sb := WordSet(a), WordSet(b)
	if len(sa) != len(sb) {
		return false
	}
	for w := range sa {
		if _, ok := sb[w]; !ok {
			return false
		}
	}
	return true
}
