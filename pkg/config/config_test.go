package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/nugetbridge/pkg/errors"
)

func TestDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	cfg := Default()

	if cfg.FeedURL != "https://api.nuget.org/v3-flatcontainer" {
		t.Errorf("FeedURL = %q", cfg.FeedURL)
	}
	if cfg.Framework != "netstandard2.0" {
		t.Errorf("Framework = %q", cfg.Framework)
	}
	if cfg.Cache.Dir != "/tmp/xdg-cache/nugetbridge/index" {
		t.Errorf("Cache.Dir = %q", cfg.Cache.Dir)
	}
	if cfg.Cache.TTL.Duration != 24*time.Hour {
		t.Errorf("Cache.TTL = %v", cfg.Cache.TTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/etc/xdg")
	t.Setenv("XDG_CACHE_HOME", "/var/cache")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "/home/me")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"config", Path(), "/etc/xdg/nugetbridge/config.toml"},
		{"cache", CacheDir(), "/var/cache/nugetbridge"},
		{"data", DataDir(), "/home/me/.local/share/nugetbridge"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s dir = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
feed_url = "nuget://feed.example.com/v3/"
framework = "net472"

[cache]
backend = "redis"
ttl = "90m"
redis_addr = "cache:6379"

[history]
backend = "none"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FeedURL != "nuget://feed.example.com/v3/" {
		t.Errorf("FeedURL = %q", cfg.FeedURL)
	}
	if got := cfg.DesiredFramework().VersionedShortName(); got != "net4.7.2" {
		t.Errorf("DesiredFramework = %q", got)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("Cache.TTL = %v", cfg.Cache.TTL)
	}
	if cfg.History.Backend != BackendNone {
		t.Errorf("History.Backend = %q", cfg.History.Backend)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("unset Server.Addr should keep default, got %q", cfg.Server.Addr)
	}
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FeedURL != Default().FeedURL {
		t.Errorf("FeedURL = %q", cfg.FeedURL)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad toml", `feed_url = `},
		{"bad duration", "[cache]\nttl = \"soon\""},
		{"bad framework", `framework = "lib"`},
		{"bad cache backend", "[cache]\nbackend = \"memcached\""},
		{"bad history backend", "[history]\nbackend = \"sqlite\""},
		{"bad url", `feed_url = "ftp://example.com"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Load() error = %v, want INVALID_INPUT", err)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing explicit file should fail")
	}
}

func TestWriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Framework = "net48"
	cfg.Cache.TTL = Duration{time.Hour}

	if err := Write(path, cfg); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Framework != "net48" || got.Cache.TTL.Duration != time.Hour {
		t.Errorf("round trip lost values: %+v", got)
	}
}
