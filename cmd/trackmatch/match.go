// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trackmatch/internal/catalog"
	"github.com/pdiddy/trackmatch/internal/ingest"
	"github.com/pdiddy/trackmatch/internal/match"
	"github.com/pdiddy/trackmatch/internal/report"
	"github.com/pdiddy/trackmatch/internal/scoring"
	"github.com/pdiddy/trackmatch/internal/secrets"
	"github.com/pdiddy/trackmatch/pkg/types"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultRPS       = 5.0
	defaultUserAgent = "trackmatch/0.1"

	// Environment variables holding Spotify credentials.
	envClientID     = "TRACKMATCH_CLIENT_ID"
	envClientSecret = "TRACKMATCH_CLIENT_SECRET"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Find Spotify matches for every track in a CSV file",
	Long: `Match reads the input CSV (columns Artist, Name, Album, Year, Duration and
optionally Album Artist, Track #, Disc #), searches Spotify for each track
with a cascade of progressively looser queries, and writes a report.

The report format follows the output extension: .xlsx (default), .db or
.sqlite, .json, .yaml or .yml. Rows with bad data are reported as errors
and never searched.`,
	RunE: runMatch,
}

func init() {
	f := matchCmd.Flags()
	f.String("input", "", "input CSV file (.csv is optional)")
	f.String("output", "", "report file (.xlsx is appended when no known extension is given)")
	f.String("rules", "config.json", "scoring rules file (JSON, YAML, or TOML)")
	f.Int("workers", 1, "number of tracks matched concurrently")
	f.Int("page-limit", 10, "candidates requested per query")
	f.Duration("failure-delay", 2*time.Second, "pause after a failed query")
	f.String("market", "", "ISO country code restricting results to tracks playable there")
	f.Float64("rps", defaultRPS, "maximum Spotify requests per second")
	f.Duration("timeout", defaultTimeout, "HTTP request timeout")
	f.String("client-id", "", "Spotify client id")
	f.String("client-secret", "", "Spotify client secret")
	f.Bool("quiet", false, "do not print the summary table")

	matchCmd.MarkFlagRequired("input")
	matchCmd.MarkFlagRequired("output")

	viper.BindPFlag("rules", f.Lookup("rules"))
	viper.BindPFlag("match.workers", f.Lookup("workers"))
	viper.BindPFlag("match.page_limit", f.Lookup("page-limit"))
	viper.BindPFlag("match.failure_delay", f.Lookup("failure-delay"))
	viper.BindPFlag("catalog.market", f.Lookup("market"))
	viper.BindPFlag("catalog.requests_per_second", f.Lookup("rps"))
	viper.BindPFlag("catalog.timeout", f.Lookup("timeout"))

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	quiet, _ := cmd.Flags().GetBool("quiet")
	inputPath := ingest.InputPath(input)
	outputPath := report.OutputPath(output)

	rulesPath := viper.GetString("rules")
	rules, err := scoring.LoadRules(rulesPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "loaded rules from %s\n", rulesPath)

	table, err := ingest.ReadFile(inputPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	spotify, err := catalog.NewSpotify(ctx, catalogConfig(cmd), logger)
	if err != nil {
		return err
	}

	cfg := match.DefaultConfig()
	cfg.Workers = viper.GetInt("match.workers")
	cfg.PageLimit = viper.GetInt("match.page_limit")
	cfg.FailureDelay = viper.GetDuration("match.failure_delay")

	fmt.Fprintf(os.Stdout, "processing %d tracks from %s\n", len(table.Rows), inputPath)
	results, runErr := match.Run(ctx, table.Rows, rules, spotify, cfg, logger, os.Stdout)

	rep := report.Build(table.Columns, results)
	if err := report.Write(context.Background(), types.ReportConfig{Path: outputPath}, rep); err != nil {
		return errors.Join(runErr, err)
	}

	if !quiet {
		fmt.Fprintln(os.Stdout, report.RenderSummary(rep))
	}
	summary := match.Summarize(results)
	fmt.Fprintf(os.Stdout, "\nmatched: %d, missed: %d, errors: %d\n", summary.Matched, summary.Unmatched, summary.Failed)
	fmt.Fprintf(os.Stdout, "report written to %s (run %s)\n", outputPath, rep.RunID)
	return runErr
}

func catalogConfig(cmd *cobra.Command) types.CatalogConfig {
	clientID, _ := cmd.Flags().GetString("client-id")
	clientSecret, _ := cmd.Flags().GetString("client-secret")

	return types.CatalogConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("catalog.timeout"),
			UserAgent: defaultUserAgent,
		},
		ClientID:          loadedSecrets.Resolve(secrets.KeySpotifyClientID, clientID, envClientID),
		ClientSecret:      loadedSecrets.Resolve(secrets.KeySpotifyClientSecret, clientSecret, envClientSecret),
		Market:            viper.GetString("catalog.market"),
		RequestsPerSecond: viper.GetFloat64("catalog.requests_per_second"),
	}
}
