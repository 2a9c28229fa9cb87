package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Remote struct {
		// URL is the fallback API base used when no UI origin is known.
		URL string `yaml:"url"`
		// BackendPort is substituted onto a reported UI origin to reach the
		// API process next to whatever hostname the browser actually used.
		BackendPort    int    `yaml:"backend_port"`
		Origin         string `yaml:"origin"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"remote"`

	Sync struct {
		IntervalSeconds int `yaml:"interval_seconds"`
		NewWindowDays   int `yaml:"new_window_days"`
	} `yaml:"sync"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func Default() Config {
	var cfg Config
	cfg.App.Port = 38570
	cfg.App.DataDir = "data"
	cfg.Remote.URL = "http://localhost:8000"
	cfg.Remote.BackendPort = 8000
	cfg.Remote.TimeoutSeconds = 30
	cfg.Sync.IntervalSeconds = 300
	cfg.Sync.NewWindowDays = 7
	cfg.Log.Level = "info"
	return cfg
}

// Load reads YAML over the defaults, then lets environment variables win so
// container and .env setups need no file edits.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("JOBSYNC_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.App.Port = n
		}
	}
	if v := os.Getenv("JOBSYNC_DATA_DIR"); v != "" {
		c.App.DataDir = v
	}
	if v := os.Getenv("JOBSYNC_REMOTE_URL"); v != "" {
		c.Remote.URL = v
	}
	if v := os.Getenv("JOBSYNC_UI_ORIGIN"); v != "" {
		c.Remote.Origin = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}
