// Package cli implements the octigrid command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/octigrid/pkg/buildinfo"
	"github.com/matzehuels/octigrid/pkg/cache"
	"github.com/matzehuels/octigrid/pkg/config"
	"github.com/matzehuels/octigrid/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "octigrid"

	// configEnv names the environment variable consulted when --config is
	// not given.
	configEnv = "OCTIGRID_CONFIG"
)

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
	config     config.Config
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the effective configuration.
func (c *CLI) Config() config.Config {
	return c.config
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Octigrid draws transit networks as octilinear maps",
		Long:         `Octigrid embeds a transit network topology into an octilinear grid graph and renders the result as a schematic map.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(cmd); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (TOML, default $"+configEnv+")")

	root.AddCommand(c.routeCommand())
	root.AddCommand(c.latticeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file, if any. The file's log level applies
// unless --verbose was given.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	path := c.configPath
	if path == "" {
		path = os.Getenv(configEnv)
	}
	if path == "" {
		return nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.config = cfg
	if f := cmd.Flags().Lookup("verbose"); f == nil || !f.Changed {
		c.SetLogLevel(cfg.LogLevel())
	}
	c.Logger.Debugf("Loaded config %s", path)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. A cache backend that
// cannot be opened degrades to running without cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) *pipeline.Runner {
	cc, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		c.Logger.Warnf("Cache disabled: %v", err)
		cc = cache.NewNullCache()
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.TTL = cfg.Cache.TTL
	return r
}

func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	opts := cacheOptions(cfg, c.Logger)
	if noCache {
		opts.Backend = cache.BackendNone
	}
	if opts.Dir == "" && opts.Backend != cache.BackendNone && opts.Backend != cache.BackendRedis {
		dir, err := cacheDir()
		if err != nil {
			return nil, err
		}
		opts.Dir = dir
	}
	return cache.Open(ctx, opts)
}

func cacheOptions(cfg config.Config, logger *log.Logger) cache.Options {
	return cache.Options{
		Backend:   cfg.Cache.Backend,
		Dir:       cfg.Cache.Dir,
		RedisAddr: cfg.Cache.RedisAddr,
		Logger:    logger,
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/octigrid/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// cacheLocation names where the configured backend keeps its entries.
func cacheLocation(cfg config.CacheConfig) (string, error) {
	switch {
	case cfg.Backend == cache.BackendRedis:
		return cfg.RedisAddr, nil
	case cfg.Dir != "":
		return cfg.Dir, nil
	default:
		return cacheDir()
	}
}

// basePath derives the base output path. Without an output it strips the
// extension from input; a known format extension on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	for _, f := range pipeline.Formats {
		if ext == f {
			return strings.TrimSuffix(output, "."+ext)
		}
	}
	return output
}

// outputPaths maps every format to the file it is written to. A single
// format with an explicit output goes to that exact path.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return []string{pipeline.FormatSVG}
	}
	return out
}
