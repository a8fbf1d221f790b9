// Package pipeline runs the full load → extract → solve → write flow.
//
// This package implements the complete solve pipeline shared by the CLI and
// the API server. By centralizing this logic, both entry points get the same
// caching, retry, and logging behavior.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Read the example, template, and output graphs from GraphML
//  2. Extract: Enumerate template isomorphisms and build pattern tables
//  3. Solve: Run observation/propagation, retrying contradictions with
//     fresh seeds
//  4. Write: Export the colored output graph to GraphML
//
// Extraction results are cached keyed by content hashes of the graphs that
// produced them, so re-solving the same inputs with a new seed skips the
// isomorphism search entirely.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    WorkDir:   ".",
//	    NodeAttr:  "value",
//	    EdgeAttr:  "type",
//	    Attempts:  10,
//	}
//	result, err := runner.Execute(ctx, opts)
package pipeline

import (
	"path/filepath"
	"time"

	"github.com/matzehuels/graphwfc/pkg/errors"
	"github.com/matzehuels/graphwfc/pkg/solver"
)

// Default values shared by CLI and API.
const (
	// DefaultAttempts is how many times a contradicted solve is retried
	// before the pipeline gives up.
	DefaultAttempts = 10

	// DefaultNodeAttr is the node attribute read as the color.
	DefaultNodeAttr = "value"

	// DefaultEdgeAttr is the edge attribute matched during isomorphism
	// search.
	DefaultEdgeAttr = "type"

	// DefaultTTL bounds the lifetime of cached extraction results.
	DefaultTTL = 24 * time.Hour
)

// Options configures one pipeline execution.
// This struct supports JSON serialization for API requests.
type Options struct {
	// WorkDir is the directory file names below resolve against.
	WorkDir string `json:"workdir,omitempty"`

	// Example, Output, and Templates name the input GraphML files.
	Example   string   `json:"example,omitempty"`
	Output    string   `json:"output,omitempty"`
	Templates []string `json:"templates,omitempty"`

	// Result names the output GraphML file. Empty means out.graphml;
	// "-" suppresses the write, for callers that only want the Result.
	Result string `json:"result,omitempty"`

	// NodeAttr is the node attribute holding the color.
	NodeAttr string `json:"node_attr,omitempty"`

	// EdgeAttr is the edge attribute matched during isomorphism search.
	EdgeAttr string `json:"edge_attr,omitempty"`

	// Seed fixes the first attempt's random source. Zero means a
	// time-derived seed. Attempt k runs with Seed+k.
	Seed int64 `json:"seed,omitempty"`

	// Attempts is the retry budget across contradictions.
	Attempts int `json:"attempts,omitempty"`

	// MaxIterations bounds the observations of a single attempt.
	// Zero means unbounded.
	MaxIterations int `json:"max_iterations,omitempty"`

	// Refresh bypasses the cache for reads. Fresh results are still
	// written back.
	Refresh bool `json:"refresh,omitempty"`
}

// ValidateAndSetDefaults fills unset fields and rejects inconsistent ones.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Example == "" {
		o.Example = "GI.graphml"
	}
	if o.Output == "" {
		o.Output = "GO.graphml"
	}
	if len(o.Templates) == 0 {
		o.Templates = []string{"GL.graphml"}
	}
	if o.Result == "" {
		o.Result = "out.graphml"
	}
	if o.NodeAttr == "" {
		o.NodeAttr = DefaultNodeAttr
	}
	if o.Attempts == 0 {
		o.Attempts = DefaultAttempts
	}
	if o.Attempts < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "attempts must be positive, got %d", o.Attempts)
	}
	if o.MaxIterations < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max iterations must not be negative, got %d", o.MaxIterations)
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	return nil
}

// path resolves a file name against the working directory.
func (o *Options) path(name string) string {
	if o.WorkDir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(o.WorkDir, name)
}

// Stats records per-stage wall-clock times.
type Stats struct {
	LoadTime    time.Duration `json:"load_time"`
	ExtractTime time.Duration `json:"extract_time"`
	SolveTime   time.Duration `json:"solve_time"`
}

// CacheInfo reports which extraction results came from the cache.
type CacheInfo struct {
	TableHits int `json:"table_hits"`
	ImageHits int `json:"image_hits"`
}

// Result is the outcome of one pipeline execution.
type Result struct {
	// RunID uniquely identifies this execution in logs and API responses.
	RunID string `json:"run_id"`

	// Outcome is the final solver outcome.
	Outcome solver.Outcome `json:"-"`

	// OutcomeName is the outcome in wire form.
	OutcomeName string `json:"outcome"`

	// Colors maps every decided output node to its color.
	Colors map[string]string `json:"colors,omitempty"`

	// Invisible lists output nodes pruned for lack of coverage.
	Invisible []string `json:"invisible,omitempty"`

	// Attempts is the number of solve attempts spent, successful one
	// included.
	Attempts int `json:"attempts"`

	// Iterations is the observation count of the last attempt.
	Iterations int `json:"iterations"`

	// Seed is the seed of the last attempt.
	Seed int64 `json:"seed"`

	Stats     Stats     `json:"stats"`
	CacheInfo CacheInfo `json:"cache_info"`
}
