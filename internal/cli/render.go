package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brkgraph/pkg/errors"
	"github.com/matzehuels/brkgraph/pkg/graph"
	"github.com/matzehuels/brkgraph/pkg/pipeline"
)

// renderFlags holds flags for the render command.
type renderFlags struct {
	output     string
	format     string
	detailed   bool
	edgeLabels bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a graph as a node-link diagram (DOT or SVG)",
		Long: `Render a breakpoint graph as a Graphviz node-link diagram.

Head breakpoints are drawn as boxes, tails as ellipses, reverse-strand nodes
are shaded and edge width grows with support. The format is taken from
--format, else from the -o extension, else DOT.`,
		Example: `  brkgraph render sample.json -o sample.svg
  brkgraph render sample.json --detailed | dot -Tpng > sample.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := flags.resolveFormat()
			if err != nil {
				return err
			}
			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return err
			}

			data, report, err := pipeline.Render(cmd.Context(), g, format, pipeline.RenderOptions{
				Options:    c.pipelineOptions(),
				Detailed:   flags.detailed,
				EdgeLabels: flags.edgeLabels,
			})
			if err != nil {
				return err
			}
			status := cmd.ErrOrStderr()
			for _, d := range report.Diagnostics {
				printWarning(status, "%s", d.Message)
			}

			if flags.output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := writeOutput(flags.output, data); err != nil {
				return err
			}
			printSuccess(status, "Rendered %s", format)
			printFile(status, flags.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format: dot, svg or json")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "show coordinates and metrics in node labels")
	cmd.Flags().BoolVar(&flags.edgeLabels, "edge-labels", false, "show evidence labels on edges")

	return cmd
}

// resolveFormat picks the explicit format, the output extension, or DOT.
func (f renderFlags) resolveFormat() (string, error) {
	format := f.format
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(f.output), ".")
	}
	if format == "" || format == "gv" {
		format = pipeline.FormatDOT
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "render")
	}
	return format, nil
}
