// Package config loads graphwfc settings from an optional TOML file.
//
// Every setting has a flag or a default, so the file is never required: the
// CLI loads graphwfc.toml from the working directory when present and flags
// override whatever the file says. The API server loads the same file from
// the directory it is started in.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/graphwfc/pkg/cache"
	"github.com/matzehuels/graphwfc/pkg/errors"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "graphwfc.toml"

// Config is the full settings tree.
type Config struct {
	Solve Solve        `toml:"solve"`
	Files Files        `toml:"files"`
	Cache cache.Config `toml:"cache"`
	Serve Serve        `toml:"serve"`
}

// Solve configures the solver loop.
type Solve struct {
	// NodeAttr is the node attribute read as the color.
	NodeAttr string `toml:"node_attr"`

	// EdgeAttr is the edge attribute matched during isomorphism search.
	// Empty disables edge label matching.
	EdgeAttr string `toml:"edge_attr"`

	// Attempts is how many times a contradicted solve is retried with a
	// fresh seed before giving up.
	Attempts int `toml:"attempts"`

	// MaxIterations bounds the observations of a single attempt.
	// Zero means unbounded.
	MaxIterations int `toml:"max_iterations"`

	// Seed fixes the random source of the first attempt. Zero means a
	// time-derived seed.
	Seed int64 `toml:"seed"`
}

// Files names the GraphML files inside the working directory.
type Files struct {
	Example   string   `toml:"example"`
	Output    string   `toml:"output"`
	Templates []string `toml:"templates"`
	Result    string   `toml:"result"`
}

// Serve configures the HTTP API server.
type Serve struct {
	Addr string `toml:"addr"`
}

// Default returns the settings used when no file and no flags override them.
func Default() Config {
	return Config{
		Solve: Solve{
			NodeAttr: "value",
			EdgeAttr: "type",
			Attempts: 10,
		},
		Files: Files{
			Example:   "GI.graphml",
			Output:    "GO.graphml",
			Templates: []string{"GL.graphml"},
			Result:    "out.graphml",
		},
		Cache: cache.Config{
			Backend: "file",
			TTL:     24 * time.Hour,
		},
		Serve: Serve{
			Addr: ":8080",
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	return cfg, nil
}

// LoadDir loads the config file from a working directory, if present.
func LoadDir(dir string) (Config, error) {
	return Load(filepath.Join(dir, DefaultFileName))
}
