package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nugetbridge/pkg/bridge"
	"github.com/matzehuels/nugetbridge/pkg/buildinfo"
	"github.com/matzehuels/nugetbridge/pkg/cache"
	"github.com/matzehuels/nugetbridge/pkg/config"
	"github.com/matzehuels/nugetbridge/pkg/feed"
	"github.com/matzehuels/nugetbridge/pkg/fetch"
	"github.com/matzehuels/nugetbridge/pkg/history"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	feedURL    string
	repository string
	framework  string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "nugetbridge serves NuGet packages as a Maven repository",
		Long: `nugetbridge resolves Maven-style repository paths against a NuGet feed.

Binaries are extracted from the package archive for the configured target
framework, package manifests become POM files and version indexes become
maven-metadata.xml.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			installLogHooks(c.Logger)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")
	flags.StringVar(&c.feedURL, "feed", "", "feed base URL (overrides config)")
	flags.StringVarP(&c.repository, "repository", "r", "", "local repository root (overrides config)")
	flags.StringVarP(&c.framework, "framework", "f", "", "target framework, e.g. net472 (overrides config)")
	flags.BoolVar(&c.noCache, "no-cache", false, "do not cache version indexes")

	root.AddCommand(c.getCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the config file and applies command-line overrides.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if c.feedURL != "" {
		cfg.FeedURL = c.feedURL
	}
	if c.repository != "" {
		cfg.Repository = c.repository
	}
	if c.framework != "" {
		cfg.Framework = c.framework
	}
	if c.noCache {
		cfg.Cache.Backend = config.BackendNone
	}
	return cfg, cfg.Validate()
}

// =============================================================================
// Runtime
// =============================================================================

// runtime bundles the services a command needs. Close releases them.
type runtime struct {
	cfg         config.Config
	cache       cache.Cache
	feed        *feed.Client
	history     history.Store
	coordinator *fetch.Coordinator
	engine      *bridge.Engine
}

// newRuntime builds the feed client, stores and engine from configuration.
func (c *CLI) newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, coordinator: fetch.NewCoordinator(c.Logger)}

	if rt.cache, err = newCache(ctx, cfg.Cache); err != nil {
		return nil, err
	}
	rt.feed, err = feed.New(feed.Options{
		BaseURL:  cfg.FeedURL,
		Cache:    rt.cache,
		CacheTTL: cfg.Cache.TTL.Duration,
		Logger:   c.Logger,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}
	if rt.history, err = newHistory(ctx, cfg.History); err != nil {
		rt.Close()
		return nil, err
	}

	rt.engine, err = bridge.New(bridge.Options{
		Transport:   rt.feed,
		Coordinator: rt.coordinator,
		Framework:   bridge.StaticFramework(cfg.DesiredFramework()),
		Repository:  cfg.Repository,
		History:     rt.history,
		Logger:      c.Logger,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}

	c.Logger.Debug("runtime ready",
		"feed", rt.feed.BaseURL(),
		"repository", cfg.Repository,
		"framework", cfg.DesiredFramework().VersionedShortName(),
		"cache", cfg.Cache.Backend,
		"history", cfg.History.Backend,
	)
	return rt, nil
}

// Close releases the cache and history connections.
func (rt *runtime) Close() {
	if rt.cache != nil {
		rt.cache.Close()
	}
	if rt.history != nil {
		rt.history.Close()
	}
}

func newCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		return rc, nil
	default:
		fc, err := cache.NewFileCache(cfg.Dir)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

func newHistory(ctx context.Context, cfg config.History) (history.Store, error) {
	switch cfg.Backend {
	case config.BackendNone:
		return history.NullStore{}, nil
	case config.BackendMongo:
		s, err := history.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("connect history store: %w", err)
		}
		return s, nil
	default:
		s, err := history.NewFileStore(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open history file: %w", err)
		}
		return s, nil
	}
}
