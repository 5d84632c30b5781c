package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taxotree/pkg/config"
	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/pipeline"
	"github.com/matzehuels/taxotree/pkg/render"
)

// renderFlags holds the command-line flags of the render command.
type renderFlags struct {
	vizType     string
	formats     string
	output      string
	title       string
	strict      bool
	collapse    int
	expandAll   bool
	toggles     []string
	animate     bool
	frames      int
	interactive bool
	scale       float64
	noCache     bool
	refresh     bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	flags := renderFlags{
		vizType:  string(pipeline.DefaultVizType),
		collapse: pipeline.DefaultCollapseDepth,
		scale:    pipeline.DefaultScale,
	}

	cmd := &cobra.Command{
		Use:   "render [rows-file]",
		Short: "Render taxonomy rows as a tree diagram",
		Long: `Render taxonomy rows (host JSON or CSV) as a tree diagram.

The treegraph renderer lays out the whole taxonomy with Graphviz. The
collapsible renderer draws the expandable chart; --collapse, --expand-all and
--toggle choose which nodes are open.`,
		Example: `  taxotree render rows.json
  taxotree render rows.csv -t collapsible --expand-all -f svg,json
  taxotree render rows.json -t collapsible --toggle /Apparel --animate --frames 30 -f json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cfg)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], cfg, opts, &flags)
		},
	}

	cmd.Flags().StringVarP(&flags.vizType, "type", "t", flags.vizType, "renderer: treegraph, collapsible")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&flags.title, "title", "", "chart title")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "fail when a label appears under more than one parent")
	cmd.Flags().IntVar(&flags.collapse, "collapse", flags.collapse, "collapse nodes at this depth and below (collapsible)")
	cmd.Flags().BoolVar(&flags.expandAll, "expand-all", false, "expand every node (collapsible)")
	cmd.Flags().StringArrayVar(&flags.toggles, "toggle", nil, "toggle the node with this id, e.g. /Apparel (collapsible, repeatable)")
	cmd.Flags().BoolVar(&flags.animate, "animate", false, "include the transition of the last toggle (collapsible)")
	cmd.Flags().IntVar(&flags.frames, "frames", 0, "sample this many transition frames into JSON output (collapsible)")
	cmd.Flags().BoolVar(&flags.interactive, "interactive", false, "embed click-to-toggle script in SVG output (collapsible)")
	cmd.Flags().Float64Var(&flags.scale, "scale", flags.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached results and recompute")

	return cmd
}

// options merges the flags over the configuration.
func (f *renderFlags) options(cfg *config.Config) (pipeline.Options, error) {
	vizType, err := render.ParseType(f.vizType)
	if err != nil {
		return pipeline.Options{}, err
	}
	formats, err := parseFormats(f.formats)
	if err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		Strict:        f.strict,
		VizType:       vizType,
		Treegraph:     cfg.TreegraphOptions(),
		Chart:         cfg.CollapsibleConfig(),
		CollapseDepth: f.collapse,
		ExpandAll:     f.expandAll,
		Toggles:       f.toggles,
		Animate:       f.animate,
		Formats:       formats,
		Frames:        f.frames,
		Interactive:   f.interactive,
		Scale:         f.scale,
		Refresh:       f.refresh,
		TTL:           cfg.CacheTTL(),
	}
	if f.title != "" {
		opts.Treegraph.Title = f.title
		opts.ChartTitle = f.title
	}
	if err := opts.Validate(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// runRender reads the rows, runs the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, cfg *config.Config, opts pipeline.Options, flags *renderFlags) error {
	rows, err := c.readRows(input, cfg)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if opts.VizType == render.TypeTreegraph {
		if err := runner.Init(ctx); err != nil {
			return fmt.Errorf("initialize graphviz: %w", err)
		}
	}
	opts.Logger = loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.VizType))
	spinner.Start()

	result, err := runner.Execute(ctx, rows, opts)
	if err != nil {
		if errors.Is(err, errors.ErrCodeEmptyInput) {
			spinner.Stop()
			return handleEmpty(err)
		}
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := outputPaths(flags.output, input, opts.VizType, opts.Formats)
	for _, f := range opts.Formats {
		if err := os.WriteFile(paths[f], result.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[f], err)
		}
	}

	printSuccess("Rendered %s", opts.VizType)
	for _, f := range opts.Formats {
		printFile(paths[f])
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	if n := len(result.Hierarchy.Edges.Ambiguous); n > 0 {
		printWarning("%d labels appear under more than one parent (use --strict to fail)", n)
	}
	if opts.VizType == render.TypeCollapsible && !opts.ExpandAll {
		printNewline()
		printNextStep("Browse interactively", appName+" explore "+input)
	}
	return nil
}

// outputPaths maps each format to its output file. A single format writes to
// output as given; several formats share output as a base path. Without
// output, files are named <input>.<type>.<format> next to the input.
func outputPaths(output, input string, vizType render.Type, formats []render.Format) map[render.Format]string {
	paths := make(map[render.Format]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	if output == "" {
		base += "." + string(vizType)
	}
	for _, f := range formats {
		paths[f] = base + "." + string(f)
	}
	return paths
}

// basePath strips a format extension from output, or the extension from
// input when output is empty.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if _, err := render.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil && ext != "" {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
