// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/pdiddy/trackmatch/pkg/types"
)

// ErrLocked is returned when another process is writing the same report.
var ErrLocked = errors.New("report is locked by another process")

var extFormats = map[string]types.ReportFormat{
	".xlsx":   types.ReportXLSX,
	".db":     types.ReportSQLite,
	".sqlite": types.ReportSQLite,
	".json":   types.ReportJSON,
	".yaml":   types.ReportYAML,
	".yml":    types.ReportYAML,
}

// OutputPath appends ".xlsx" unless path already ends in a known report
// extension.
func OutputPath(path string) string {
	if _, ok := extFormats[strings.ToLower(filepath.Ext(path))]; ok {
		return path
	}
	return path + ".xlsx"
}

// FormatFromPath picks the report format from path's extension,
// defaulting to XLSX.
func FormatFromPath(path string) types.ReportFormat {
	if f, ok := extFormats[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return types.ReportXLSX
}

// Write stores r according to cfg. The output path is held under an
// exclusive lock for the duration of the write.
func Write(ctx context.Context, cfg types.ReportConfig, r *Report) error {
	if cfg.Path == "" {
		return errors.New("report path is empty")
	}
	format := cfg.Format
	if format == "" {
		format = FormatFromPath(cfg.Path)
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}

	lockPath := cfg.Path + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", cfg.Path, ErrLocked)
	}
	defer func() {
		lock.Unlock()
		os.Remove(lockPath)
	}()

	switch format {
	case types.ReportXLSX:
		return WriteXLSX(cfg.Path, r)
	case types.ReportSQLite:
		return WriteSQLite(ctx, cfg.Path, r)
	case types.ReportJSON:
		return WriteJSON(cfg.Path, r)
	case types.ReportYAML:
		return WriteYAML(cfg.Path, r)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}
