package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultServerURL = "http://localhost:8080"

// CLIConfig is the CLI's own settings file, ~/.config/cf/config.yaml.
type CLIConfig struct {
	ServerURL string `yaml:"server_url,omitempty"`
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "cf", "config.yaml"), nil
}

// loadConfig reads the CLI config. A missing file yields the zero config.
func loadConfig() (CLIConfig, error) {
	var cfg CLIConfig

	path, err := configPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	case err != nil:
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// saveConfig writes cfg, creating the config directory if needed.
func saveConfig(cfg CLIConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// normalizeServerURL checks that raw is an absolute http(s) URL and strips
// any trailing slash.
func normalizeServerURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid server URL: %s", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// serverURL returns the API server and where it came from: CF_SERVER_URL,
// the config file, or the built-in default.
func serverURL() (string, string) {
	if v := os.Getenv("CF_SERVER_URL"); v != "" {
		return v, "CF_SERVER_URL"
	}
	if cfg, err := loadConfig(); err == nil && cfg.ServerURL != "" {
		return cfg.ServerURL, "config"
	}
	return defaultServerURL, "default"
}

func getServerURL() string {
	u, _ := serverURL()
	return u
}
