// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Evaluation is the flattened log entry for one scored candidate: the
// identifying fields of both sides plus the full breakdown.
type Evaluation struct {
	LocalArtist string `json:"local_artist" yaml:"local_artist"`
	LocalTrack  string `json:"local_track" yaml:"local_track"`
	LocalAlbum  string `json:"local_album" yaml:"local_album"`

	CandidateID     string `json:"candidate_id" yaml:"candidate_id"`
	CandidateArtist string `json:"candidate_artist" yaml:"candidate_artist"`
	CandidateTrack  string `json:"candidate_track" yaml:"candidate_track"`
	CandidateAlbum  string `json:"candidate_album" yaml:"candidate_album"`
	CandidateYear   string `json:"candidate_year" yaml:"candidate_year"`

	// Query is the cascade query that first returned the candidate.
	Query string `json:"query" yaml:"query"`

	FinalScore int            `json:"final_score" yaml:"final_score"`
	Breakdown  ScoreBreakdown `json:"breakdown" yaml:"breakdown"`

	// MatchFound is the final decision for the local track this
	// evaluation belongs to, stamped after the cascade completes.
	MatchFound bool `json:"match_found" yaml:"match_found"`
}

// MatchResult is the outcome of matching one LocalTrack.
type MatchResult struct {
	// Best is the highest-scoring candidate, or nil when nothing scored
	// above zero.
	Best *CandidateTrack `json:"best,omitempty" yaml:"best,omitempty"`

	Confidence int  `json:"confidence" yaml:"confidence"`
	Matched    bool `json:"matched" yaml:"matched"`

	// Evaluations lists every candidate scored, in evaluation order.
	Evaluations []Evaluation `json:"evaluations" yaml:"evaluations"`

	// QueriesIssued counts the cascade queries attempted, failed ones included.
	QueriesIssued int `json:"queries_issued" yaml:"queries_issued"`
	QueryErrors   int `json:"query_errors" yaml:"query_errors"`

	// Cancelled is set when the context ended before the cascade finished.
	Cancelled bool `json:"cancelled,omitempty" yaml:"cancelled,omitempty"`
}

// Row is one record read from the tabular input. Fields preserves every
// input column so reports can echo the row back.
type Row struct {
	// Index is the 1-based data row number (header excluded).
	Index  int               `json:"index" yaml:"index"`
	Fields map[string]string `json:"fields" yaml:"fields"`

	// Track is the validated record; nil when Err is set.
	Track *LocalTrack `json:"track,omitempty" yaml:"track,omitempty"`

	// Err is the row data error, if validation failed.
	Err error `json:"-" yaml:"-"`
}

// RowResult pairs an input row with its match outcome or its error.
type RowResult struct {
	Row    Row          `json:"row" yaml:"row"`
	Result *MatchResult `json:"result,omitempty" yaml:"result,omitempty"`
	Err    error        `json:"-" yaml:"-"`
}

// Failed reports whether the row could not be matched because of bad data.
func (r RowResult) Failed() bool { return r.Err != nil }
