// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the trackmatch CLI.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trackmatch/internal/logging"
	"github.com/pdiddy/trackmatch/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets secrets.Store

	logger    = slog.New(slog.NewTextHandler(io.Discard, nil))
	logCloser io.Closer
)

// rootCmd is the base command for the trackmatch CLI.
var rootCmd = &cobra.Command{
	Use:   "trackmatch",
	Short: "Match a local music collection against the Spotify catalog",
	Long: `trackmatch reads a CSV export of a local music library, searches the
Spotify catalog for every track, and scores each candidate with a
configurable rule set. The report lists the best match per track and a
per-candidate breakdown explaining every score.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, closer, err := logging.New(logConfig(), os.Stderr)
		if err != nil {
			return err
		}
		logger, logCloser = l, closer

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", slog.Any("keys", keys))
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./trackmatch.yaml or ~/.config/trackmatch/config.yaml)")
	pf.String("log-level", logging.DefaultConfig().Level, "diagnostic log level: debug, info, warn, error")
	pf.String("log-format", logging.FormatAuto, "diagnostic log format: auto, text, json")
	pf.String("log-file", "", "also write JSON logs to this file, rotated by size")

	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("log.format", pf.Lookup("log-format"))
	viper.BindPFlag("log.file", pf.Lookup("log-file"))
}

// logConfig starts from logging.DefaultConfig and applies any non-empty
// log.* settings from flags, env or the config file.
func logConfig() logging.Config {
	cfg := logging.DefaultConfig()
	if v := viper.GetString("log.level"); v != "" {
		cfg.Level = v
	}
	if v := viper.GetString("log.format"); v != "" {
		cfg.Format = v
	}
	cfg.FilePath = viper.GetString("log.file")
	return cfg
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("trackmatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "trackmatch"))
		}
	}

	viper.SetEnvPrefix("TRACKMATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
