// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"math"
	"strconv"
)

// Signal is one named entry of a ScoreBreakdown. Measurements (similarity
// percentages, differences) carry a Value but are not Terms; bonuses,
// penalties, and weighted scores are Terms and are summed into the final
// score. Notes carry Text only.
type Signal struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
	Text  string  `json:"text,omitempty" yaml:"text,omitempty"`
	Term  bool    `json:"term,omitempty" yaml:"term,omitempty"`
}

// IsText reports whether the signal is a textual note.
func (s Signal) IsText() bool { return s.Text != "" }

// Any returns the signal's value as a string for notes and a float64
// otherwise, suitable for report cells.
func (s Signal) Any() any {
	if s.IsText() {
		return s.Text
	}
	return s.Value
}

// String formats the value without trailing zeros.
func (s Signal) String() string {
	if s.IsText() {
		return s.Text
	}
	if s.Value == math.Trunc(s.Value) {
		return strconv.FormatInt(int64(s.Value), 10)
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64)
}

// ScoreBreakdown is the ordered, append-only record of every signal the
// scorer evaluated for one (local, candidate) pair.
type ScoreBreakdown struct {
	Signals []Signal `json:"signals" yaml:"signals"`
}

// Measure appends a non-contributing numeric signal.
func (b *ScoreBreakdown) Measure(name string, v float64) {
	b.Signals = append(b.Signals, Signal{Name: name, Value: v})
}

// AddTerm appends a signal that counts toward the final score.
func (b *ScoreBreakdown) AddTerm(name string, v float64) {
	b.Signals = append(b.Signals, Signal{Name: name, Value: v, Term: true})
}

// Note appends a textual signal.
func (b *ScoreBreakdown) Note(name, text string) {
	b.Signals = append(b.Signals, Signal{Name: name, Text: text})
}

// Get returns the named signal.
func (b ScoreBreakdown) Get(name string) (Signal, bool) {
	for _, s := range b.Signals {
		if s.Name == name {
			return s, true
		}
	}
	return Signal{}, false
}

// Has reports whether the named signal was recorded.
func (b ScoreBreakdown) Has(name string) bool {
	_, ok := b.Get(name)
	return ok
}

// Value returns the numeric value of the named signal, or 0.
func (b ScoreBreakdown) Value(name string) float64 {
	s, _ := b.Get(name)
	return s.Value
}

// TermSum adds up every contributing term.
func (b ScoreBreakdown) TermSum() float64 {
	var sum float64
	for _, s := range b.Signals {
		if s.Term {
			sum += s.Value
		}
	}
	return sum
}
