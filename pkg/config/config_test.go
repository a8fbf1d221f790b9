package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/graphwfc/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Solve.NodeAttr != "value" {
		t.Errorf("Solve.NodeAttr = %q, want value", cfg.Solve.NodeAttr)
	}
	if cfg.Solve.EdgeAttr != "type" {
		t.Errorf("Solve.EdgeAttr = %q, want type", cfg.Solve.EdgeAttr)
	}
	if cfg.Solve.Attempts != 10 {
		t.Errorf("Solve.Attempts = %d, want 10", cfg.Solve.Attempts)
	}
	if cfg.Files.Example != "GI.graphml" {
		t.Errorf("Files.Example = %q, want GI.graphml", cfg.Files.Example)
	}
	if cfg.Files.Output != "GO.graphml" {
		t.Errorf("Files.Output = %q, want GO.graphml", cfg.Files.Output)
	}
	if len(cfg.Files.Templates) != 1 || cfg.Files.Templates[0] != "GL.graphml" {
		t.Errorf("Files.Templates = %v, want [GL.graphml]", cfg.Files.Templates)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("Cache.Backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
	}
	if cfg.Serve.Addr != ":8080" {
		t.Errorf("Serve.Addr = %q, want :8080", cfg.Serve.Addr)
	}
}

func TestLoad(t *testing.T) {
	doc := `
[solve]
node_attr = "color"
attempts = 3
seed = 99

[files]
example = "in.graphml"
templates = ["t1.graphml", "t2.graphml"]

[cache]
backend = "memory"
size = 64

[serve]
addr = ":9999"
`
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Solve.NodeAttr != "color" {
		t.Errorf("Solve.NodeAttr = %q, want color", cfg.Solve.NodeAttr)
	}
	if cfg.Solve.Attempts != 3 {
		t.Errorf("Solve.Attempts = %d, want 3", cfg.Solve.Attempts)
	}
	if cfg.Solve.Seed != 99 {
		t.Errorf("Solve.Seed = %d, want 99", cfg.Solve.Seed)
	}
	// Unset fields keep their defaults.
	if cfg.Solve.EdgeAttr != "type" {
		t.Errorf("Solve.EdgeAttr = %q, want default type", cfg.Solve.EdgeAttr)
	}
	if cfg.Files.Example != "in.graphml" {
		t.Errorf("Files.Example = %q, want in.graphml", cfg.Files.Example)
	}
	if len(cfg.Files.Templates) != 2 {
		t.Errorf("Files.Templates = %v, want two entries", cfg.Files.Templates)
	}
	if cfg.Cache.Backend != "memory" || cfg.Cache.Size != 64 {
		t.Errorf("Cache = %+v, want memory backend, size 64", cfg.Cache)
	}
	if cfg.Serve.Addr != ":9999" {
		t.Errorf("Serve.Addr = %q, want :9999", cfg.Serve.Addr)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFileName))
	if err != nil {
		t.Fatalf("Load(missing) = %v, want nil", err)
	}
	if cfg.Solve.Attempts != 10 {
		t.Errorf("Solve.Attempts = %d, want default 10", cfg.Solve.Attempts)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte("not [valid"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Load(invalid) = %v, want INVALID_INPUT", err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	doc := "[solve]\nattempts = 2\n"
	if err := os.WriteFile(filepath.Join(dir, DefaultFileName), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() = %v, want nil", err)
	}
	if cfg.Solve.Attempts != 2 {
		t.Errorf("Solve.Attempts = %d, want 2", cfg.Solve.Attempts)
	}
}
