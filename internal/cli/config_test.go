package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigSaveAndLoad(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg := CLIConfig{ServerURL: "http://myhost:9090"}

	if err := saveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	path := filepath.Join(tmp, ".config", "cf", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not found: %v", err)
	}

	loaded, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ServerURL != cfg.ServerURL {
		t.Errorf("server_url = %q, want %q", loaded.ServerURL, cfg.ServerURL)
	}
}

func TestConfigLoadMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if cfg.ServerURL != "" {
		t.Error("expected zero-value config for missing file")
	}
}

func TestConfigLoadInvalid(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	dir := filepath.Join(tmp, ".config", "cf")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server_url: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfig(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestGetServerURL(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		saved string
		want  string
	}{
		{"env wins", "http://custom:1234", "http://saved:1", "http://custom:1234"},
		{"saved config", "", "http://saved:1", "http://saved:1"},
		{"default", "", "", "http://localhost:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			t.Setenv("CF_SERVER_URL", tt.env)
			if tt.saved != "" {
				if err := saveConfig(CLIConfig{ServerURL: tt.saved}); err != nil {
					t.Fatal(err)
				}
			}

			if got := getServerURL(); got != tt.want {
				t.Errorf("url = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestServerCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CF_SERVER_URL", "")

	out, err := executeCommand("server", "https://cars.example.com/")
	if err != nil {
		t.Fatalf("set server: %v", err)
	}
	if !strings.Contains(out, "https://cars.example.com") {
		t.Errorf("output = %q", out)
	}

	out, err = executeCommand("server")
	if err != nil {
		t.Fatalf("show server: %v", err)
	}
	if strings.TrimSpace(out) != "https://cars.example.com (config)" {
		t.Errorf("server = %q", out)
	}

	if _, err := executeCommand("server", "not a url"); err == nil {
		t.Error("expected error for invalid URL")
	}
}

func TestNormalizeServerURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"http://localhost:8080", "http://localhost:8080", false},
		{" https://cars.example.com/ ", "https://cars.example.com", false},
		{"ftp://cars.example.com", "", true},
		{"localhost:8080", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeServerURL(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
