package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brkgraph/pkg/core/bpgraph/analysis"
	"github.com/matzehuels/brkgraph/pkg/graph"
)

// defaultPathLimit caps path enumeration unless --limit is given.
const defaultPathLimit = 1000

// pathsCommand creates the paths command.
func (c *CLI) pathsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "paths <file>",
		Short: "List maximal source-to-sink paths",
		Long: `List every maximal directed path from a node without incoming edges to a
node without outgoing edges, one path per line.

The number of paths can grow exponentially; enumeration stops after --limit
paths (0 means no limit).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return err
			}

			paths, truncated := analysis.EnumeratePaths(g, limit)
			out := cmd.OutOrStdout()
			for _, p := range paths {
				ids := make([]string, len(p))
				for i, id := range p {
					ids[i] = g.Node(id).ID
				}
				fmt.Fprintln(out, strings.Join(ids, " -> "))
			}

			status := cmd.ErrOrStderr()
			if truncated {
				printWarning(status, "Stopped after %d paths; raise --limit to see more", len(paths))
			} else {
				printInfo(status, "%d paths", len(paths))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultPathLimit, "maximum number of paths (0 for no limit)")

	return cmd
}
