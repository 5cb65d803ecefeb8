package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/brkgraph/pkg/api"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis pipeline over HTTP",
		Long: `Start an HTTP server exposing the analysis pipeline.

Endpoints:
  GET  /healthz
  POST /v1/analyze   ?format=json|dot|svg&legacy_density_key&allow_cyclic&refresh
  POST /v1/report
  POST /v1/compare   {"a": <document>, "b": <document>}

Set cache.backend = "redis" in the config file to share results between
instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			maxNodes := c.Config.Compare.MaxNodes
			if maxNodes == 0 {
				maxNodes = -1
			}
			srv := api.NewServer(runner, api.Config{
				MaxNodes: maxNodes,
				Options:  c.pipelineOptions(),
			}, c.Logger)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
