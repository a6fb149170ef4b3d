// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/trackmatch/internal/scoring"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect scoring rules files",
	Long: `Rules validates and displays scoring rules files. A rules file holds the
base weights, thresholds, bonuses, and penalties the scorer applies, in
JSON, YAML, or TOML chosen by extension.`,
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check that a rules file has every required key",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesValidate,
}

var rulesShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print the effective rules as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesShow,
}

func init() {
	rulesCmd.AddCommand(rulesValidateCmd, rulesShowCmd)
	rootCmd.AddCommand(rulesCmd)
}

func runRulesValidate(cmd *cobra.Command, args []string) error {
	if _, err := scoring.LoadRules(args[0]); err != nil {
		var cfgErr *scoring.ConfigError
		if errors.As(err, &cfgErr) {
			for _, k := range cfgErr.Missing {
				fmt.Fprintf(os.Stdout, "missing     %s\n", k)
			}
			for _, k := range cfgErr.NotNumeric {
				fmt.Fprintf(os.Stdout, "not numeric %s\n", k)
			}
		}
		return err
	}
	fmt.Fprintf(os.Stdout, "ok %s\n", args[0])
	return nil
}

func runRulesShow(cmd *cobra.Command, args []string) error {
	rules, err := scoring.LoadRules(args[0])
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(rules)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	fmt.Fprint(os.Stdout, strings.TrimRight(string(data), "\n")+"\n")
	return nil
}
