package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphwfc/pkg/cache"
	"github.com/matzehuels/graphwfc/pkg/config"
	"github.com/matzehuels/graphwfc/pkg/errors"
	"github.com/matzehuels/graphwfc/pkg/pipeline"
	"github.com/matzehuels/graphwfc/pkg/solver"
)

// solveOpts holds the command-line flags for the solve command.
// Unset flags fall back to graphwfc.toml in the working directory, then to
// the built-in defaults.
type solveOpts struct {
	example   string   // example graph file (GI)
	output    string   // output graph file to color (GO)
	templates []string // template graph files (GL)
	result    string   // colored result file, "-" to skip writing
	nodeAttr  string   // node attribute holding the color
	edgeAttr  string   // edge attribute matched during isomorphism search
	attempts  int      // retry budget across contradictions
	maxIter   int      // observation budget per attempt, 0 = unbounded
	seed      int64    // random seed, 0 = time-derived
	backend   string   // cache backend
	refresh   bool     // bypass cache reads
	watch     bool     // live TUI instead of plain output
}

// newSolveCmd creates the solve command, the main entry point of the tool.
// It colors the output graph from the example graph and templates, retrying
// contradicted attempts with derived seeds.
func newSolveCmd() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve [workdir]",
		Short: "Color an output graph from an example graph and templates",
		Long: `Solve learns local color patterns from the example graph, propagates them
onto the output graph, and writes the colored result. File names resolve
against the working directory (default ".").`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workdir := "."
			if len(args) == 1 {
				workdir = args[0]
			}
			return runSolve(cmd.Context(), workdir, cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.example, "example", "", "example graph file (default GI.graphml)")
	cmd.Flags().StringVar(&opts.output, "graph", "", "output graph file to color (default GO.graphml)")
	cmd.Flags().StringSliceVar(&opts.templates, "template", nil, "template graph file(s) (default GL.graphml)")
	cmd.Flags().StringVarP(&opts.result, "result", "o", "", "colored result file, '-' to skip writing (default out.graphml)")
	cmd.Flags().StringVarP(&opts.nodeAttr, "node-attr", "v", "", "node attribute holding the color (default value)")
	cmd.Flags().StringVarP(&opts.edgeAttr, "edge-attr", "e", "", "edge attribute matched during search (default type)")
	cmd.Flags().IntVarP(&opts.attempts, "attempts", "n", 0, "retry budget across contradictions (default 10)")
	cmd.Flags().IntVar(&opts.maxIter, "max-iterations", 0, "observation budget per attempt, 0 = unbounded")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed, 0 = time-derived")
	cmd.Flags().StringVar(&opts.backend, "cache", "", "cache backend: file, memory, redis, mongo, null")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached extraction results")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "show live solve progress")

	return cmd
}

// buildOptions merges config file values and flags into pipeline options.
// Flags the user set explicitly win over the config file.
func buildOptions(workdir string, cfg config.Config, cmd *cobra.Command, opts *solveOpts) pipeline.Options {
	po := pipeline.Options{
		WorkDir:       workdir,
		Example:       cfg.Files.Example,
		Output:        cfg.Files.Output,
		Templates:     cfg.Files.Templates,
		Result:        cfg.Files.Result,
		NodeAttr:      cfg.Solve.NodeAttr,
		EdgeAttr:      cfg.Solve.EdgeAttr,
		Attempts:      cfg.Solve.Attempts,
		MaxIterations: cfg.Solve.MaxIterations,
		Seed:          cfg.Solve.Seed,
		Refresh:       opts.refresh,
	}

	flags := cmd.Flags()
	if flags.Changed("example") {
		po.Example = opts.example
	}
	if flags.Changed("graph") {
		po.Output = opts.output
	}
	if flags.Changed("template") {
		po.Templates = opts.templates
	}
	if flags.Changed("result") {
		po.Result = opts.result
	}
	if flags.Changed("node-attr") {
		po.NodeAttr = opts.nodeAttr
	}
	if flags.Changed("edge-attr") {
		po.EdgeAttr = opts.edgeAttr
	}
	if flags.Changed("attempts") {
		po.Attempts = opts.attempts
	}
	if flags.Changed("max-iterations") {
		po.MaxIterations = opts.maxIter
	}
	if flags.Changed("seed") {
		po.Seed = opts.seed
	}
	return po
}

// runSolve loads configuration, opens the cache, and executes the pipeline.
func runSolve(ctx context.Context, workdir string, cmd *cobra.Command, opts *solveOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.LoadDir(workdir)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("cache") {
		cfg.Cache.Backend = opts.backend
	}

	c, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer c.Close()

	po := buildOptions(workdir, cfg, cmd, opts)
	if err := po.ValidateAndSetDefaults(); err != nil {
		return err
	}
	runner := pipeline.NewRunner(c, logger)

	if opts.watch {
		return runSolveWatch(ctx, runner, po)
	}

	spin := newSpinnerWithContext(ctx, "Solving "+filepath.Base(po.Output))
	spin.Start()
	result, err := runner.Execute(ctx, po)
	spin.Stop()
	if err != nil {
		return err
	}

	printResult(result, po)
	if result.Outcome != solver.OutcomeSuccess {
		return errors.New(errors.ErrCodeExhausted,
			"no solution after %d attempts", result.Attempts)
	}
	return nil
}

// printResult prints the solve outcome in the standard format.
func printResult(result *pipeline.Result, po pipeline.Options) {
	switch result.Outcome {
	case solver.OutcomeSuccess:
		printSuccess("Colored %d nodes in %d iterations (attempt %d, seed %d)",
			len(result.Colors), result.Iterations, result.Attempts, result.Seed)
	case solver.OutcomeContradiction:
		printError("Contradiction after %d attempts", result.Attempts)
	case solver.OutcomeExhausted:
		printError("Iteration budget exhausted after %d attempts", result.Attempts)
	}

	if len(result.Invisible) > 0 {
		printWarning("%d nodes not covered by any template, left uncolored", len(result.Invisible))
	}

	cached := result.CacheInfo.TableHits > 0 || result.CacheInfo.ImageHits > 0
	printStats(len(result.Colors), cached)
	printDetail("load %s · extract %s · solve %s",
		result.Stats.LoadTime.Round(timeRound),
		result.Stats.ExtractTime.Round(timeRound),
		result.Stats.SolveTime.Round(timeRound))

	if result.Outcome == solver.OutcomeSuccess && po.Result != "-" {
		printFile(po.Result)
	}
}
