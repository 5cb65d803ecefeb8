package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brkgraph/pkg/errors"
	"github.com/matzehuels/brkgraph/pkg/pipeline"
)

// analyzeFlags holds flags for the analyze command.
type analyzeFlags struct {
	output           string
	workers          int
	noCache          bool
	refresh          bool
	legacyDensityKey bool
	allowCyclic      bool
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze <file|dir>",
		Short: "Compute graph metrics and write annotated documents",
		Long: `Analyze one breakpoint graph document, or every .json document in a
directory.

Each graph is checked for weak connectivity and directed cycles. Graphs that
pass get node degrees, degree centrality, closeness centrality and the local
clustering coefficient; graphs that fail are reported and written without
metrics.

A single file is written to stdout unless -o names an output file. For a
directory, -o names an output directory receiving one <name>.analyzed.json
per input; without -o the documents are streamed to stdout.`,
		Example: `  # Analyze one graph
  brkgraph analyze sample.json > sample.analyzed.json

  # Analyze a directory with 8 workers
  brkgraph analyze graphs/ -t 8 -o results/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single input) or directory (directory input)")
	cmd.Flags().IntVarP(&flags.workers, "threads", "t", 0, "graphs analysed concurrently (default from config, 2)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute and overwrite cached results")
	cmd.Flags().BoolVar(&flags.legacyDensityKey, "legacy-density-key", false, `also write the density under "desinty"`)
	cmd.Flags().BoolVar(&flags.allowCyclic, "allow-cyclic", false, "compute metrics on graphs with directed cycles")

	return cmd
}

// options overlays explicitly set flags on the configured options.
func (f analyzeFlags) options(cmd *cobra.Command, base pipeline.Options) pipeline.Options {
	opts := base
	if cmd.Flags().Changed("threads") {
		opts.Workers = f.workers
	}
	if cmd.Flags().Changed("legacy-density-key") {
		opts.LegacyDensityKey = f.legacyDensityKey
	}
	if cmd.Flags().Changed("allow-cyclic") {
		opts.AllowCyclic = f.allowCyclic
	}
	opts.Refresh = f.refresh
	return opts
}

func (c *CLI) runAnalyze(cmd *cobra.Command, input string, flags analyzeFlags) error {
	ctx := cmd.Context()
	opts := flags.options(cmd, c.pipelineOptions())
	if opts.Workers < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "--threads must be at least 1, got %d", opts.Workers)
	}

	info, err := os.Stat(input)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", input)
		}
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if info.IsDir() {
		return c.analyzeDir(ctx, cmd, runner, input, flags.output, opts)
	}
	return c.analyzeFile(ctx, cmd, runner, input, flags.output, opts)
}

func (c *CLI) analyzeFile(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, path, output string, opts pipeline.Options) error {
	res, err := runner.AnalyzeFile(ctx, path, opts)
	if err != nil {
		return err
	}
	status := cmd.ErrOrStderr()
	printResult(status, res)

	if output == "" {
		_, err := cmd.OutOrStdout().Write(res.Output)
		return err
	}
	if err := writeOutput(output, res.Output); err != nil {
		return err
	}
	printFile(status, output)
	return nil
}

func (c *CLI) analyzeDir(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, dir, outDir string, opts pipeline.Options) error {
	paths, err := pipeline.ListInputs(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		printWarning(cmd.ErrOrStderr(), "No .json documents in %s", dir)
		return nil
	}
	c.Logger.Info("analyzing graphs in directory", "dir", dir, "graphs", len(paths), "workers", opts.Workers)

	status := cmd.ErrOrStderr()
	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, status, fmt.Sprintf("Analyzing %d graphs...", len(paths)))
	spin.Start()
	results, err := runner.AnalyzeFiles(ctx, paths, opts)
	spin.Stop()
	if err != nil {
		return err
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	failed := 0
	for _, res := range results {
		printResult(status, res)
		if res.Err != nil {
			failed++
			continue
		}
		if err := emit(cmd.OutOrStdout(), outDir, res); err != nil {
			return err
		}
	}
	prog.done("analyzed graphs", "graphs", len(results), "failed", failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d graphs failed", failed, len(results))
	}
	return nil
}

// emit writes one result into outDir, or to stdout when outDir is empty.
func emit(stdout io.Writer, outDir string, res *pipeline.Result) error {
	if outDir == "" {
		_, err := stdout.Write(res.Output)
		return err
	}
	path := filepath.Join(outDir, outputName(res.Name))
	return writeOutput(path, res.Output)
}

// outputName maps "sample.json" to "sample.analyzed.json".
func outputName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + pipeline.OutputSuffix
}

func writeOutput(path string, data []byte) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
