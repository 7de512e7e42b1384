// Package config loads nugetbridge settings from a TOML file.
//
// The default location follows the XDG base directory layout:
//
//	$XDG_CONFIG_HOME/nugetbridge/config.toml
//	~/.config/nugetbridge/config.toml
//
// A missing file is not an error; [Default] values apply. Values present in
// the file override the defaults field by field.
//
// Example file:
//
//	feed_url   = "https://api.nuget.org/v3-flatcontainer"
//	repository = "/home/me/.m2/repository"
//	framework  = "net472"
//
//	[cache]
//	backend = "redis"
//	ttl     = "6h"
//	redis_addr = "localhost:6379"
//
//	[history]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/nugetbridge/pkg/errors"
	"github.com/matzehuels/nugetbridge/pkg/feed"
	"github.com/matzehuels/nugetbridge/pkg/framework"
)

// AppName names the configuration and cache directories.
const AppName = "nugetbridge"

// Backend names accepted by [Cache.Backend] and [History.Backend].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config is the complete configuration.
type Config struct {
	FeedURL    string  `toml:"feed_url"`
	Repository string  `toml:"repository"`
	Framework  string  `toml:"framework"`
	Cache      Cache   `toml:"cache"`
	History    History `toml:"history"`
	Server     Server  `toml:"server"`
}

// Cache configures the version-index cache.
type Cache struct {
	Backend   string   `toml:"backend"`
	TTL       Duration `toml:"ttl"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
}

// History configures the resolution log.
type History struct {
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Server configures the serve command.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration that decodes from strings like "6h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration. Paths are derived from the
// user's home directory; when it cannot be determined they stay relative.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		FeedURL:    feed.DefaultURL,
		Repository: filepath.Join(home, ".m2", "repository"),
		Framework:  framework.Default().VersionedShortName(),
		Cache: Cache{
			Backend: BackendFile,
			TTL:     Duration{24 * time.Hour},
			Dir:     filepath.Join(CacheDir(), "index"),
		},
		History: History{
			Backend:       BackendFile,
			Path:          filepath.Join(DataDir(), "history.jsonl"),
			MongoDatabase: AppName,
		},
		Server: Server{Addr: "127.0.0.1:8080"},
	}
}

// Load reads path on top of [Default]. An empty path means [Path]. A
// missing file at the default location yields the defaults; a missing
// explicit file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = Path()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) && !explicit {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "load config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field values that would otherwise fail late.
func (c Config) Validate() error {
	if err := errors.ValidateURL(feed.NormalizeURL(c.FeedURL)); err != nil {
		return err
	}
	if _, ok := framework.Parse(c.Framework); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown framework %q", c.Framework)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.History.Backend {
	case BackendFile, BackendMongo, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown history backend %q", c.History.Backend)
	}
	return nil
}

// DesiredFramework parses [Config.Framework], falling back to the default
// framework for unparsable values.
func (c Config) DesiredFramework() framework.Version {
	if v, ok := framework.Parse(c.Framework); ok {
		return v
	}
	return framework.Default()
}

// Write stores c as TOML at path, creating parent directories.
func Write(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create config dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return f.Close()
}

// Path returns the default config file location (~/.config/nugetbridge/config.toml).
func Path() string {
	return filepath.Join(baseDir("XDG_CONFIG_HOME", ".config"), "config.toml")
}

// CacheDir returns the cache directory using XDG standard (~/.cache/nugetbridge/).
func CacheDir() string {
	return baseDir("XDG_CACHE_HOME", ".cache")
}

// DataDir returns the data directory using XDG standard (~/.local/share/nugetbridge/).
func DataDir() string {
	return baseDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func baseDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(fallback, AppName)
	}
	return filepath.Join(home, fallback, AppName)
}
