// Package cli implements the taxotree command-line interface.
//
// The commands read taxonomy rows (host JSON or CSV), fold them into a
// hierarchy and hand it to one of the renderers:
//   - build: write the edge list and the nested tree as JSON
//   - render: produce SVG, PNG, PDF or JSON output
//   - explore: browse the collapsible tree in the terminal
//   - serve: run the HTTP host
//   - cache: inspect and clear the stage cache
//
// All commands accept --config for a TOML or YAML file and --verbose (-v)
// for debug logging.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/taxotree/pkg/buildinfo"
	"github.com/matzehuels/taxotree/pkg/cache"
	"github.com/matzehuels/taxotree/pkg/config"
	"github.com/matzehuels/taxotree/pkg/errors"
	taxio "github.com/matzehuels/taxotree/pkg/io"
	"github.com/matzehuels/taxotree/pkg/pipeline"
	"github.com/matzehuels/taxotree/pkg/render"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

const appName = "taxotree"

// ErrReported is returned by commands that already printed their failure.
// Callers should exit non-zero without printing it again.
var ErrReported = stderrors.New("error already reported")

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
}

// New creates a new CLI instance with a timestamped logger.
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
		Use:           appName,
		Short:         "Taxotree draws category taxonomies as trees",
		Long:          `Taxotree turns rows of a four-level category taxonomy into a tree diagram sized by search volume, either as a static tree graph or as a collapsible chart.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (.toml, .yaml)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// loadConfig loads the --config file, or the defaults when none was given.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.configPath != "" {
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	return cfg, nil
}

// newRunner creates a pipeline runner backed by the configured cache, with
// keys scoped to the configured dataset.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, "ds:"+cfg.Schema.Dataset+":")
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// newCache opens the configured cache. A backend that cannot be reached
// degrades to no caching with a warning.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	store, err := cache.Open(ctx, cfg.CacheOptions())
	if err != nil {
		if cache.IsRetryable(err) {
			c.Logger.Warn("cache unavailable, continuing without it", "backend", cfg.Cache.Backend, "err", err)
			return cache.NewNullCache(), nil
		}
		return nil, err
	}
	return store, nil
}

// readRows reads the row file at path with the configured schema.
func (c *CLI) readRows(path string, cfg *config.Config) ([]taxonomy.Row, error) {
	rows, report, err := taxio.ReadRows(path, cfg.TaxonomySchema())
	if err != nil {
		return nil, err
	}
	logIngest(c.Logger, path, report)
	return rows, nil
}

func logIngest(l *log.Logger, path string, r taxonomy.IngestReport) {
	l.Debug("read rows", "path", path, "rows", r.Rows)
	if r.Skipped > 0 || r.CoercedWeights > 0 || r.DroppedLevels > 0 {
		l.Debug("permissive parsing",
			"skipped", r.Skipped,
			"coerced_weights", r.CoercedWeights,
			"dropped_levels", r.DroppedLevels)
	}
}

// parseFormats parses a comma-separated format list. An empty string means SVG.
func parseFormats(s string) ([]render.Format, error) {
	if s == "" {
		return []render.Format{render.FormatSVG}, nil
	}
	var out []render.Format
	for _, part := range strings.Split(s, ",") {
		f, err := render.ParseFormat(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// handleEmpty turns an empty-input error into a warning line. The returned
// error still makes the process exit non-zero.
func handleEmpty(err error) error {
	if errors.Is(err, errors.ErrCodeEmptyInput) {
		printWarning("%s", errors.UserMessage(err))
		return ErrReported
	}
	return err
}
