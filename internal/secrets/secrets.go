// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves Spotify client credentials. A credential comes
// from a command-line flag, then an environment variable, then a file in
// the .secrets/ directory named after its key (for example
// .secrets/spotify-client-id holding the client ID).
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Credential keys, also the file names under the secrets directory.
const (
	KeySpotifyClientID     = "spotify-client-id"
	KeySpotifyClientSecret = "spotify-client-secret"
)

// Keys lists every credential Load looks for.
var Keys = []string{KeySpotifyClientID, KeySpotifyClientSecret}

// Store maps credential keys to values read from the secrets directory.
type Store map[string]string

// Load reads the credential files named in Keys from dir. A missing
// directory or key file leaves that credential unset. A key file that
// cannot be read is logged and skipped so flags or env can still supply it.
func Load(dir string, logger *slog.Logger) (Store, error) {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Store{}, nil
	case err != nil:
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	case !info.IsDir():
		return nil, fmt.Errorf("secrets path %s is not a directory", dir)
	}

	store := Store{}
	for _, key := range Keys {
		data, err := os.ReadFile(filepath.Join(dir, key))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			logger.Warn("skipping unreadable credential file",
				slog.String("key", key),
				slog.String("error", err.Error()))
			continue
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			store[key] = v
		}
	}
	return store, nil
}

// Resolve returns flag if set, else the trimmed value of the environment
// variable named envVar, else the stored value for key.
func (s Store) Resolve(key, flag, envVar string) string {
	if flag != "" {
		return flag
	}
	if envVar != "" {
		if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
			return v
		}
	}
	return s[key]
}
