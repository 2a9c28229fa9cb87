package config

import (
	"errors"
	"os"
	"path/filepath"
)

const defaultYAML = `app:
  port: 38570
  data_dir: data

remote:
  url: http://localhost:8000
  backend_port: 8000
  timeout_seconds: 30

sync:
  interval_seconds: 300
  new_window_days: 7

log:
  level: info
`

// EnsureUserConfig makes sure a config file exists in the data dir, writing
// the defaults on first run, and returns its path.
func EnsureUserConfig(dataDir string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := os.WriteFile(userPath, []byte(defaultYAML), 0o644); err != nil {
		return "", err
	}
	return userPath, nil
}
