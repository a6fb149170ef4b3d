// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trackmatch/internal/report"
)

var runsCmd = &cobra.Command{
	Use:   "runs <report.db>",
	Short: "List the runs stored in a SQLite report",
	Long: `Runs lists every batch run appended to a SQLite report, newest first,
with its match counts. Write a SQLite report by giving match an output
ending in .db or .sqlite.`,
	Args: cobra.ExactArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().Bool("json", false, "output runs as JSON")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(args[0]); err != nil {
		return fmt.Errorf("opening report: %w", err)
	}
	store, err := report.OpenStore(args[0])
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found.")
		return nil
	}
	fmt.Println(report.RenderRuns(runs))
	return nil
}
