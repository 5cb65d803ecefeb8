package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brkgraph/pkg/errors"
)

// compareCommand creates the compare command.
func (c *CLI) compareCommand() *cobra.Command {
	var (
		maxNodes int
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "compare <a.json> <b.json>",
		Short: "Compute the graph edit distance between two graphs",
		Long: `Compare two breakpoint graphs by exact graph edit distance.

Every node is substituted, deleted or inserted at unit cost, so a graph
compared with itself scores its node count. The search is exponential in the
number of nodes; graphs above --max-nodes are refused.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("max-nodes") {
				maxNodes = c.Config.Compare.MaxNodes
			}

			a, err := readInput(args[0])
			if err != nil {
				return err
			}
			b, err := readInput(args[1])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			spin := newSpinner(ctx, cmd.ErrOrStderr(), "Searching edit paths...")
			spin.Start()
			d, err := runner.Compare(ctx, a, b, maxNodes)
			spin.Stop()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), d)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxNodes, "max-nodes", 0, "refuse graphs with more nodes (0 disables; default from config, 32)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

// readInput reads a document file, mapping a missing file to FILE_NOT_FOUND.
func readInput(path string) ([]byte, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
