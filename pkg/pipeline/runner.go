package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/graphwfc/pkg/cache"
	"github.com/matzehuels/graphwfc/pkg/errors"
	"github.com/matzehuels/graphwfc/pkg/graph"
	"github.com/matzehuels/graphwfc/pkg/graphml"
	"github.com/matzehuels/graphwfc/pkg/iso"
	"github.com/matzehuels/graphwfc/pkg/pattern"
	"github.com/matzehuels/graphwfc/pkg/solver"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Logger: logger,
		TTL:    DefaultTTL,
	}
}

// inputs bundles the loaded graphs with their content hashes.
type inputs struct {
	example   *graph.Graph
	output    *graph.Graph
	templates []*graph.Graph

	exampleHash   string
	outputHash    string
	templateHashes []string
}

// Execute runs the complete load → extract → solve → write pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID: uuid.NewString(),
		Seed:  opts.Seed,
	}
	logger := r.Logger.With("run_id", result.RunID)

	loadStart := time.Now()
	in, err := r.load(opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = time.Since(loadStart)

	logger.Info("loaded graphs",
		"example_nodes", in.example.NodeCount(),
		"output_nodes", in.output.NodeCount(),
		"templates", len(in.templates),
		"duration", result.Stats.LoadTime)

	for i, tl := range in.templates {
		if !tl.ConnectedIgnoringDirection() {
			logger.Warn("template is disconnected, enumeration may be slow",
				"template", opts.Templates[i])
		}
	}

	extractStart := time.Now()
	tables, images, err := r.extract(ctx, opts, in, &result.CacheInfo)
	if err != nil {
		return nil, err
	}
	result.Stats.ExtractTime = time.Since(extractStart)

	patterns := 0
	for _, t := range tables {
		patterns += t.Len()
	}
	logger.Info("extracted patterns",
		"patterns", patterns,
		"table_hits", result.CacheInfo.TableHits,
		"image_hits", result.CacheInfo.ImageHits,
		"duration", result.Stats.ExtractTime)

	solveStart := time.Now()
	st, err := solver.New(ctx, solver.Config{
		Example:      in.example,
		Templates:    in.templates,
		Output:       in.output,
		NodeAttr:     opts.NodeAttr,
		EdgeAttr:     opts.EdgeAttr,
		Seed:         opts.Seed,
		Tables:       tables,
		OutputImages: images,
	})
	if err != nil {
		return nil, err
	}
	result.Invisible = st.Invisible()

	outcome, err := r.solve(ctx, logger, st, opts, result)
	if err != nil {
		return nil, err
	}
	result.Outcome = outcome
	result.OutcomeName = outcome.String()
	result.Stats.SolveTime = time.Since(solveStart)

	logger.Info("solve finished",
		"outcome", outcome,
		"attempts", result.Attempts,
		"iterations", result.Iterations,
		"duration", result.Stats.SolveTime)

	if outcome != solver.OutcomeSuccess {
		return result, nil
	}
	result.Colors = st.Colors()

	if opts.Result != "-" {
		path := opts.path(opts.Result)
		if err := graphml.Export(st.Out(), path); err != nil {
			return nil, err
		}
		logger.Info("wrote result", "path", path)
	}
	return result, nil
}

// solve runs attempts until one succeeds or the budget runs out, reseeding
// between attempts so each one explores a different collapse order.
func (r *Runner) solve(ctx context.Context, logger *log.Logger, st *solver.State, opts Options, result *Result) (solver.Outcome, error) {
	outcome := solver.OutcomeContradiction
	for attempt := 0; attempt < opts.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return outcome, errors.Wrap(errors.ErrCodeInternal, err, "solve canceled")
		}
		if attempt > 0 {
			st.Reseed(opts.Seed + int64(attempt))
			if err := st.Reset(); err != nil {
				return outcome, err
			}
		}
		result.Attempts = attempt + 1
		result.Seed = st.Seed()

		var err error
		outcome, err = st.Run(ctx, opts.MaxIterations)
		if err != nil {
			return outcome, err
		}
		result.Iterations = st.Iterations()
		if outcome != solver.OutcomeContradiction {
			return outcome, nil
		}
		logger.Warn("attempt contradicted",
			"attempt", attempt+1,
			"iterations", st.Iterations(),
			"seed", st.Seed())
	}
	return outcome, nil
}

// load reads and hashes the input graphs.
func (r *Runner) load(opts Options) (*inputs, error) {
	in := &inputs{}
	var err error
	if in.example, err = graphml.Import(opts.path(opts.Example)); err != nil {
		return nil, err
	}
	if in.output, err = graphml.Import(opts.path(opts.Output)); err != nil {
		return nil, err
	}
	for _, name := range opts.Templates {
		tl, err := graphml.Import(opts.path(name))
		if err != nil {
			return nil, err
		}
		in.templates = append(in.templates, tl)
	}

	if in.exampleHash, err = graphHash(in.example); err != nil {
		return nil, err
	}
	if in.outputHash, err = graphHash(in.output); err != nil {
		return nil, err
	}
	for _, tl := range in.templates {
		h, err := graphHash(tl)
		if err != nil {
			return nil, err
		}
		in.templateHashes = append(in.templateHashes, h)
	}
	return in, nil
}

func graphHash(g *graph.Graph) (string, error) {
	data, err := graphml.Marshal(g)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// extract builds the pattern tables and output-side images for every
// template, consulting the cache first unless a refresh was requested.
func (r *Runner) extract(ctx context.Context, opts Options, in *inputs, info *CacheInfo) ([]*pattern.Table, [][]iso.Image, error) {
	isoOpts := iso.Options{EdgeAttr: opts.EdgeAttr}
	tables := make([]*pattern.Table, len(in.templates))
	images := make([][]iso.Image, len(in.templates))

	for i, tl := range in.templates {
		tableKey := cache.TableKey(in.exampleHash, in.templateHashes[i], opts.NodeAttr, opts.EdgeAttr)
		if t, ok := cacheGet[pattern.Table](ctx, r.Cache, tableKey, opts.Refresh); ok {
			tables[i] = t
			info.TableHits++
		} else {
			exampleImages, err := iso.Enumerate(in.example, tl, isoOpts)
			if err != nil {
				return nil, nil, err
			}
			t, err := pattern.Extract(in.example, iso.QueryOrder(tl), exampleImages, opts.NodeAttr)
			if err != nil {
				return nil, nil, err
			}
			tables[i] = t
			cacheSet(ctx, r.Cache, tableKey, t, r.TTL)
		}

		imagesKey := cache.ImagesKey(in.outputHash, in.templateHashes[i], opts.EdgeAttr)
		if imgs, ok := cacheGet[[]iso.Image](ctx, r.Cache, imagesKey, opts.Refresh); ok {
			images[i] = *imgs
			info.ImageHits++
		} else {
			outputImages, err := iso.Enumerate(in.output, tl, isoOpts)
			if err != nil {
				return nil, nil, err
			}
			images[i] = outputImages
			cacheSet(ctx, r.Cache, imagesKey, &outputImages, r.TTL)
		}
	}
	return tables, images, nil
}

// cacheGet fetches and decodes a JSON cache entry. Decode failures count as
// misses; the entry is recomputed and overwritten.
func cacheGet[T any](ctx context.Context, c cache.Cache, key string, refresh bool) (*T, bool) {
	if refresh {
		return nil, false
	}
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return &v, true
}

func cacheSet[T any](ctx context.Context, c cache.Cache, key string, v *T, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, data, ttl)
}
