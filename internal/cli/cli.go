package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/qrframe/qrframe/pkg/buildinfo"
	"github.com/qrframe/qrframe/pkg/cache"
	"github.com/qrframe/qrframe/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "qrframe"
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
	Config *Config
}

// New creates a new CLI instance with a default logger.
// Configuration is loaded from the config file if one exists; a missing
// file is not an error.
func New(w io.Writer, level log.Level) *CLI {
	cfg, err := LoadConfig()
	if err != nil {
		cfg = &Config{}
	}
	return &CLI{
		Logger: newLogger(w, level),
		Config: cfg,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "qrframe",
		Short:        "Qrframe encodes payloads into QR codes for terminals and files",
		Long:         `Qrframe is a CLI tool for encoding text or binary payloads into QR codes and rendering them as terminal block art, ANSI color output, SVG documents, or PNG images.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.encodeCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cache, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

// newCache builds the artifact cache. Redis is used when configured,
// otherwise a file cache in the XDG cache directory. Cache setup failures
// degrade to a null cache rather than failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if c.Config.Cache.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, c.Config.Cache.RedisAddr)
		if err != nil {
			c.Logger.Warn("redis unavailable, falling back to file cache", "addr", c.Config.Cache.RedisAddr, "err", err)
		} else {
			return rc, nil
		}
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory. The config file takes precedence,
// then the XDG standard location (~/.cache/qrframe/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatCompact}
	}
	return strings.Split(s, ",")
}
