// Package config loads bot configuration from a YAML file with
// FACTORIO_* environment variable overrides, following the layered
// file-then-env pattern used throughout the example corpus
// (dmitrymodder-minewire's server.yaml, getployz-ployz's config.yaml).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds everything needed to connect and play.
type Config struct {
	ServerAddress string `yaml:"server_address"`
	Username      string `yaml:"username"`
	LogLevel      string `yaml:"log_level"`

	Debug            bool   `yaml:"debug"`
	DataPath         string `yaml:"data_path"`
	DisableMapCache  bool   `yaml:"disable_map_cache"`
	MapCacheDir      string `yaml:"map_cache_dir"`
	SkipInitAction   bool   `yaml:"skip_init_action"`
	DebugMove        bool   `yaml:"debug_move"`
}

// Default returns a Config with the pack's usual sane defaults.
func Default() Config {
	return Config{
		ServerAddress: "127.0.0.1:34197",
		Username:      "headless-bot",
		LogLevel:      "info",
		DataPath:      "./data",
		MapCacheDir:   "./data/mapcache",
	}
}

// Load reads path (if it exists) over Default, then applies FACTORIO_*
// environment variable overrides. A missing file is not an error — the
// defaults (overridden by env) are used, matching getployz-ployz's Load.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("FACTORIO_DEBUG"); ok {
		cfg.Debug = parseBool(v, cfg.Debug)
	}
	if v, ok := os.LookupEnv("FACTORIO_DATA_PATH"); ok {
		cfg.DataPath = v
	}
	if v, ok := os.LookupEnv("FACTORIO_DISABLE_MAP_CACHE"); ok {
		cfg.DisableMapCache = parseBool(v, cfg.DisableMapCache)
	}
	if v, ok := os.LookupEnv("FACTORIO_MAP_CACHE_DIR"); ok {
		cfg.MapCacheDir = v
	}
	if v, ok := os.LookupEnv("FACTORIO_SKIP_INIT_ACTION"); ok {
		cfg.SkipInitAction = parseBool(v, cfg.SkipInitAction)
	}
	if v, ok := os.LookupEnv("FACTORIO_DEBUG_MOVE"); ok {
		cfg.DebugMove = parseBool(v, cfg.DebugMove)
	}
}

func parseBool(v string, fallback bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
