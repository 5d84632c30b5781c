package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taxotree/pkg/config"
	taxio "github.com/matzehuels/taxotree/pkg/io"
	"github.com/matzehuels/taxotree/pkg/pipeline"
)

// buildCommand creates the build command, which writes the hierarchy as JSON.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		output  string
		strict  bool
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "build [rows-file]",
		Short: "Build the edge list and nested tree from taxonomy rows",
		Long: `Build the edge list and nested tree from taxonomy rows.

Writes <base>.edges.json and <base>.tree.json, where <base> is --output or
the input file name without its extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := pipeline.Options{Strict: strict, Refresh: refresh, TTL: cfg.CacheTTL(), Logger: loggerFromContext(cmd.Context())}
			return c.runBuild(cmd.Context(), args[0], output, cfg, opts, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "base path for the output files")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when a label appears under more than one parent")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results and recompute")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, input, output string, cfg *config.Config, opts pipeline.Options, noCache bool) error {
	rows, err := c.readRows(input, cfg)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	h, _, cacheHit, err := runner.BuildWithCacheInfo(ctx, rows, opts)
	if err != nil {
		return handleEmpty(err)
	}
	prog.done(fmt.Sprintf("Built hierarchy from %d rows", len(rows)))

	base := basePath(output, input)
	edgesPath, treePath := base+".edges.json", base+".tree.json"
	if err := taxio.ExportJSON(h.Edges, edgesPath); err != nil {
		return fmt.Errorf("write %s: %w", edgesPath, err)
	}
	if err := taxio.ExportJSON(h.Tree, treePath); err != nil {
		return fmt.Errorf("write %s: %w", treePath, err)
	}

	printSuccess("Hierarchy built")
	printFile(edgesPath)
	printFile(treePath)
	printStats(len(h.Edges.Nodes), len(h.Edges.Edges), cacheHit)
	for _, label := range slices.Sorted(maps.Keys(h.Edges.Ambiguous)) {
		printDetail("%s appears under %d parents", label, len(h.Edges.Ambiguous[label]))
	}
	printNewline()
	printNextStep("Render", appName+" render "+input)
	return nil
}
