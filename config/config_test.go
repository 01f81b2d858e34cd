package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/purplemusic/channels/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "channels.toml"))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Fetch.Workers)
	assert.Equal(t, 3, cfg.MusicBrainz.MaxAttempts)
	assert.Equal(t, "youtube_channels", cfg.Supabase.Table)
	assert.False(t, cfg.Resolver.Enabled)
	assert.Empty(t, cfg.Supabase.URL)
}

func TestLoadOverlaysFileAndEnv(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "secret-key")

	path := filepath.Join(t.TempDir(), "channels.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[paths]
input_folder = "artists"

[fetch]
workers = 3

[resolver]
enabled = true
`), 0666))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "artists", cfg.Paths.InputFolder)
	assert.Equal(t, 3, cfg.Fetch.Workers)
	assert.True(t, cfg.Resolver.Enabled)

	// untouched sections keep their defaults
	assert.Equal(t, 15, cfg.MusicBrainz.TimeoutSeconds)

	// secrets only come from the environment
	assert.Equal(t, "https://example.supabase.co", cfg.Supabase.URL)
	assert.Equal(t, "secret-key", cfg.Supabase.ServiceKey)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0666))

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestSampleMatchesDefaults(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, toml.Unmarshal([]byte(config.Sample), &cfg))
	assert.Equal(t, config.Default(), cfg)
}
