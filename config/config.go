// Package config builds the one configuration value the rest of the
// program receives by parameter. Nothing outside this package reads the
// environment or a config file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var Sample string

type Config struct {
	Paths       Paths       `toml:"paths"`
	Fetch       Fetch       `toml:"fetch"`
	MusicBrainz MusicBrainz `toml:"musicbrainz"`
	Resolver    Resolver    `toml:"resolver"`
	Supabase    Supabase    `toml:"supabase"`
}

type Paths struct {
	// InputFolder holds the artists_*.csv / .xlsx files.
	InputFolder string `toml:"input_folder"`
	OutputFile  string `toml:"output_file"`
	ErrorLog    string `toml:"error_log"`

	// Database is the sqlite sink; empty disables it.
	Database string `toml:"database"`

	// CacheDir holds cached MusicBrainz responses; empty disables caching.
	CacheDir string `toml:"cache_dir"`
}

type Fetch struct {
	Workers int `toml:"workers"`
}

type MusicBrainz struct {
	BaseURL          string `toml:"base_url"`
	UserAgent        string `toml:"user_agent"`
	TimeoutSeconds   int    `toml:"timeout_seconds"`
	MaxAttempts      int    `toml:"max_attempts"`
	RequestDelayMS   int    `toml:"request_delay_ms"`
	BusyBackoffSecs  int    `toml:"busy_backoff_seconds"`
	ErrorBackoffSecs int    `toml:"error_backoff_seconds"`
}

func (mb MusicBrainz) Timeout() time.Duration      { return time.Duration(mb.TimeoutSeconds) * time.Second }
func (mb MusicBrainz) RequestDelay() time.Duration { return time.Duration(mb.RequestDelayMS) * time.Millisecond }
func (mb MusicBrainz) BusyBackoff() time.Duration  { return time.Duration(mb.BusyBackoffSecs) * time.Second }
func (mb MusicBrainz) ErrorBackoff() time.Duration { return time.Duration(mb.ErrorBackoffSecs) * time.Second }

type Resolver struct {
	// Enabled turns on resolving /user/ and /@handle URLs through a page
	// fetch. Off by default: it costs one YouTube request per artist.
	Enabled bool `toml:"enabled"`
}

type Supabase struct {
	Table          string `toml:"table"`
	TimeoutSeconds int    `toml:"timeout_seconds"`

	// URL and ServiceKey come only from the environment, never the file.
	URL        string `toml:"-"`
	ServiceKey string `toml:"-"`
}

func (s Supabase) Timeout() time.Duration { return time.Duration(s.TimeoutSeconds) * time.Second }

func Default() Config {
	return Config{
		Paths: Paths{
			InputFolder: "world",
			OutputFile:  "all_youtube_channels.csv",
			ErrorLog:    "errors.log",
		},
		Fetch: Fetch{Workers: 10},
		MusicBrainz: MusicBrainz{
			BaseURL:          "https://musicbrainz.org/ws/2/artist",
			UserAgent:        "PurpleMusicDataCollector/3.1 (contact@purplemusic.example)",
			TimeoutSeconds:   15,
			MaxAttempts:      3,
			RequestDelayMS:   400,
			BusyBackoffSecs:  2,
			ErrorBackoffSecs: 1,
		},
		Supabase: Supabase{
			Table:          "youtube_channels",
			TimeoutSeconds: 20,
		},
	}
}

// Load reads the TOML file at path (default "channels.toml") on top of the
// defaults, then overlays the Supabase secrets from the environment. A
// missing file just means defaults; a broken one is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = "channels.toml"
	}
	bs, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("error reading config file '%s': %w", path, err)
	}
	if err == nil {
		if err := toml.Unmarshal(bs, &cfg); err != nil {
			return cfg, fmt.Errorf("error parsing config file '%s': %w", path, err)
		}
	}

	cfg.Supabase.URL = os.Getenv("SUPABASE_URL")
	cfg.Supabase.ServiceKey = os.Getenv("SUPABASE_SERVICE_ROLE_KEY")

	return cfg, nil
}
