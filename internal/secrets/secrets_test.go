// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Store
	}{
		{
			name: "reads both credentials and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeySpotifyClientID, "  cid_abc123  \n")
				writeFile(t, dir, KeySpotifyClientSecret, "cs_xyz789")
				return dir
			},
			want: Store{
				KeySpotifyClientID:     "cid_abc123",
				KeySpotifyClientSecret: "cs_xyz789",
			},
		},
		{
			name: "missing directory yields an empty store",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Store{},
		},
		{
			name: "blank credential file is unset",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeySpotifyClientID, "cid")
				writeFile(t, dir, KeySpotifyClientSecret, "   \n\t  ")
				return dir
			},
			want: Store{KeySpotifyClientID: "cid"},
		},
		{
			name: "unrelated files are ignored",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, "lastfm-api-key", "other")
				writeFile(t, dir, KeySpotifyClientSecret, "cs_real")
				return dir
			},
			want: Store{KeySpotifyClientSecret: "cs_real"},
		},
		{
			name: "credential path that is a directory is skipped",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeySpotifyClientID, "cid_123")
				require.NoError(t, os.Mkdir(filepath.Join(dir, KeySpotifyClientSecret), 0o755))
				return dir
			},
			want: Store{KeySpotifyClientID: "cid_123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), discard())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := Load(path, discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	dir := t.TempDir()
	writeFile(t, dir, KeySpotifyClientID, "cid")
	badPath := filepath.Join(dir, KeySpotifyClientSecret)
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	var logs bytes.Buffer
	got, err := Load(dir, slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, err)
	assert.Equal(t, Store{KeySpotifyClientID: "cid"}, got)
	assert.Contains(t, logs.String(), "skipping unreadable credential file")
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestResolve(t *testing.T) {
	store := Store{KeySpotifyClientID: "from-file"}

	t.Setenv("TRACKMATCH_TEST_CLIENT_ID", "  from-env ")
	assert.Equal(t, "from-flag", store.Resolve(KeySpotifyClientID, "from-flag", "TRACKMATCH_TEST_CLIENT_ID"))
	assert.Equal(t, "from-env", store.Resolve(KeySpotifyClientID, "", "TRACKMATCH_TEST_CLIENT_ID"))

	t.Setenv("TRACKMATCH_TEST_CLIENT_ID", "")
	assert.Equal(t, "from-file", store.Resolve(KeySpotifyClientID, "", "TRACKMATCH_TEST_CLIENT_ID"))
	assert.Equal(t, "", store.Resolve(KeySpotifyClientSecret, "", ""))

	var empty Store
	assert.Equal(t, "", empty.Resolve(KeySpotifyClientID, "", ""))
}
