package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taxotree/internal/server"
	"github.com/matzehuels/taxotree/pkg/observability/prom"
)

// serveCommand creates the serve command, which runs the HTTP host.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tree and render endpoints over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			if err := runner.Init(ctx); err != nil {
				return fmt.Errorf("initialize graphviz: %w", err)
			}

			metrics := prom.New(nil)
			metrics.Register()

			srv := server.New(runner, cfg, metrics.Registry(), c.Logger)
			printInfo("Serving taxotree")
			printKeyValue("Address", StyleHighlight.Render(cfg.Server.Addr))
			printKeyValue("Cache", cacheLocation(cfg))
			printKeyValue("Metrics", "/metrics")
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides the config file)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
