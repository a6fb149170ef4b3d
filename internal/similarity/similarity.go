// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package similarity provides the 0-100 string comparators used by the
// scorer. TokenSetRatio compares the word sets of two labels so that
// reordering ("Beatles, The") and partial containment score highly; Ratio
// compares the raw strings character by character.
package similarity

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// Ratio returns the indel similarity of a and b scaled to 0-100: twice the
// longest common subsequence over the combined length. Identical strings
// score 100; an empty side scores 0. The comparison is case-sensitive.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	lcs := edlib.LCS(a, b)
	return round(200 * float64(lcs) / float64(la+lb))
}

// TokenSetRatio compares a and b by their sets of words after Process.
// The shared words are compared against each side's full word set and the
// best of the three pairings wins, so a label contained in the other scores
// 100. Returns 0 when either side has no words.
func TokenSetRatio(a, b string) int {
	pa, pb := Process(a), Process(b)
	if pa == "" || pb == "" {
		return 0
	}

	ta, tb := tokenSet(pa), tokenSet(pb)
	var shared, onlyA, onlyB []string
	for w := range ta {
		if _, ok := tb[w]; ok {
			shared = append(shared, w)
		} else {
			onlyA = append(onlyA, w)
		}
	}
	for w := range tb {
		if _, ok := ta[w]; !ok {
			onlyB = append(onlyB, w)
		}
	}
	sort.Strings(shared)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sect := strings.Join(shared, " ")
	combinedA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	return max(
		Ratio(sect, combinedA),
		Ratio(sect, combinedB),
		Ratio(combinedA, combinedB),
	)
}

// Process folds diacritics, replaces every run of non-word characters
// with a space, lower-cases, and trims.
func Process(s string) string {
	folded, _, err := transform.String(foldDiacritics(), s)
	if err == nil {
		s = folded
	}
	s = nonWord.ReplaceAllString(s, " ")
	return strings.TrimSpace(strings.ToLower(s))
}

func foldDiacritics() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// round rounds half to even, matching the reference fuzzy-matching family.
func round(x float64) int {
	return int(math.RoundToEven(x))
}
