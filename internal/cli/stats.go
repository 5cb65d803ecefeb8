package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brkgraph/pkg/core/bpgraph"
	"github.com/matzehuels/brkgraph/pkg/graph"
	"github.com/matzehuels/brkgraph/pkg/pipeline"
)

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var allowCyclic bool

	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Print a graph summary and per-node metrics table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return err
			}
			opts := c.pipelineOptions()
			if cmd.Flags().Changed("allow-cyclic") {
				opts.AllowCyclic = allowCyclic
			}
			report := pipeline.Analyze(g, opts)

			out := cmd.OutOrStdout()
			s := report.Summary
			printKeyValue(out, "nodes", strconv.Itoa(s.Nodes))
			printKeyValue(out, "edges", strconv.Itoa(s.Edges))
			printKeyValue(out, "density", formatFloat(s.Density))
			printKeyValue(out, "connected", strconv.FormatBool(s.Connected))
			printKeyValue(out, "cyclic", strconv.FormatBool(s.Cyclic))
			for _, d := range report.Diagnostics {
				printWarning(out, "%s", d.Message)
			}
			if !report.Complete() || g.NodeCount() == 0 {
				return nil
			}

			printTable(out, metricHeaders, metricRows(g))
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowCyclic, "allow-cyclic", false, "compute metrics on graphs with directed cycles")

	return cmd
}

var metricHeaders = []string{"Node", "In", "Out", "In-C", "Out-C", "Closeness", "Clustering"}

func metricRows(g *bpgraph.Graph) [][]string {
	rows := make([][]string, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		m := n.Metrics
		rows = append(rows, []string{
			n.ID,
			strconv.Itoa(m.InDegree),
			strconv.Itoa(m.OutDegree),
			formatFloat(m.InDegreeCentrality),
			formatFloat(m.OutDegreeCentrality),
			formatFloat(m.ClosenessCentrality),
			formatFloat(m.LocalClusteringCoefficient),
		})
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
