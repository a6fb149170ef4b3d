// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "trackmatch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CatalogConfig holds settings for the Spotify catalog client.
type CatalogConfig struct {
	HTTPConfig `yaml:",inline"`

	// ClientID and ClientSecret are the Spotify application credentials.
	ClientID     string `json:"client_id,omitempty" yaml:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`

	// Market is an optional ISO 3166-1 alpha-2 country code that restricts
	// results to tracks playable there.
	Market string `json:"market,omitempty" yaml:"market,omitempty"`

	// RequestsPerSecond paces outgoing search calls (default 5).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// MaxRetries bounds HTTP 429 retries per request (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// MatchConfig holds settings for the search cascade and batch runner.
type MatchConfig struct {
	// PageLimit is the number of candidates requested per query (default 10).
	PageLimit int `json:"page_limit" yaml:"page_limit"`

	// FailureDelay is the pause after a failed query before the next one
	// (default 2s).
	FailureDelay time.Duration `json:"failure_delay" yaml:"failure_delay"`

	// EarlyExitScore stops the cascade once the best score reaches it
	// (default 96).
	EarlyExitScore int `json:"early_exit_score" yaml:"early_exit_score"`

	// Workers is the number of tracks matched concurrently (default 1).
	Workers int `json:"workers" yaml:"workers"`
}

// ReportFormat selects the report writer.
type ReportFormat string

const (
	ReportXLSX   ReportFormat = "xlsx"
	ReportSQLite ReportFormat = "sqlite"
	ReportJSON   ReportFormat = "json"
	ReportYAML   ReportFormat = "yaml"
)

// ReportConfig holds settings for the report stage.
type ReportConfig struct {
	// Path is the output file.
	Path string `json:"path" yaml:"path"`

	// Format is derived from Path's extension when empty.
	Format ReportFormat `json:"format,omitempty" yaml:"format,omitempty"`
}
