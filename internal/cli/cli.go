// Package cli implements the molpack command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/virtualzx/molpack/internal/config"
	"github.com/virtualzx/molpack/pkg/buildinfo"
	"github.com/virtualzx/molpack/pkg/cache"
	"github.com/virtualzx/molpack/pkg/molecule"
	"github.com/virtualzx/molpack/pkg/openbabel"
	"github.com/virtualzx/molpack/pkg/packer"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "molpack"

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
	Config config.Config
}

// New creates a new CLI instance with a default logger and the file-based
// configuration (zero-valued when no config file exists).
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
	cfg, err := config.Load()
	if err != nil {
		c.Logger.Warn("could not load config file", "error", err)
	}
	c.Config = cfg
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "molpack",
		Short:        "Molpack packs molecules into clusters with packmol",
		Long:         `Molpack is a CLI wrapper around the packmol spatial-packing program. It normalizes molecular structures (files or SMILES) to xyz, generates packmol input, runs the packing, and reports the outcome.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.packCommand())
	root.AddCommand(c.autosizeCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Normalizer Factory
// =============================================================================

// newNormalizer builds the structure normalizer: an Open Babel converter,
// wrapped in the conversion cache unless disabled.
func (c *CLI) newNormalizer(noCache bool) *molecule.Normalizer {
	conv := molecule.Converter(openbabel.New())
	store, err := newCache(noCache)
	if err != nil {
		c.Logger.Warn("conversion cache unavailable", "error", err)
		store = cache.NewNullCache()
	}
	conv = molecule.NewCachingConverter(conv, store, nil)
	return molecule.NewNormalizer(conv, c.Logger)
}

// newSession builds a session seeded with config-file defaults.
func (c *CLI) newSession(noCache bool) *packer.Session {
	s := packer.NewSession(c.newNormalizer(noCache), c.Logger)
	if v := c.Config.Packmol.Executable; v != "" {
		s.SetOption(packer.OptExecutable, v)
	}
	if v := c.Config.Packmol.Tolerance; v != 0 {
		s.SetOption(packer.OptTolerance, v)
	}
	if v := c.Config.Packmol.Output; v != "" {
		s.SetOption(packer.OptOutput, v)
	}
	if v := c.Config.Packmol.NLoop; v != 0 {
		s.SetOption("nloop", v)
	}
	if v := c.Config.ForceField.Name; v != "" {
		s.SetOption(packer.OptForceField, v)
	}
	return s
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/molpack/).
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
