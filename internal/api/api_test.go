package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/graphwfc/pkg/cache"
	"github.com/matzehuels/graphwfc/pkg/errors"
	"github.com/matzehuels/graphwfc/pkg/graph"
	"github.com/matzehuels/graphwfc/pkg/graphml"
	"github.com/matzehuels/graphwfc/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mem, err := cache.NewMemoryCache(64)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { mem.Close() })

	srv := httptest.NewServer(New(pipeline.NewRunner(mem, nil), nil).Router())
	t.Cleanup(srv.Close)
	return srv
}

// writeWorkdir lays out a solvable GI/GL/GO triple in a temp directory.
func writeWorkdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	example := graph.New(false)
	colors := []string{"red", "blue", "red", "blue"}
	prev := ""
	for i, c := range colors {
		id := string(rune('a' + i))
		example.AddNode(id, graph.Attrs{"value": c})
		if prev != "" {
			example.AddEdge(prev, id, nil)
		}
		prev = id
	}

	tmpl := graph.New(false)
	tmpl.AddNode("x", nil)
	tmpl.AddNode("y", nil)
	tmpl.AddEdge("x", "y", nil)

	output := graph.New(false)
	output.AddNode("o1", nil)
	output.AddNode("o2", nil)
	output.AddNode("o3", nil)
	output.AddEdge("o1", "o2", nil)
	output.AddEdge("o2", "o3", nil)

	for name, g := range map[string]*graph.Graph{
		"GI.graphml": example,
		"GL.graphml": tmpl,
		"GO.graphml": output,
	} {
		if err := graphml.Export(g, filepath.Join(dir, name)); err != nil {
			t.Fatalf("Export(%s) = %v", name, err)
		}
	}
	return dir
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz = %v, want nil", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestVersion(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/version")
	if err != nil {
		t.Fatalf("GET /version = %v, want nil", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if _, ok := body["version"]; !ok {
		t.Error("body missing version field")
	}
}

func TestSolve(t *testing.T) {
	srv := newTestServer(t)
	dir := writeWorkdir(t)

	req, err := json.Marshal(pipeline.Options{WorkDir: dir, Seed: 21})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(srv.URL+"/solve", "application/json", bytes.NewReader(req))
	if err != nil {
		t.Fatalf("POST /solve = %v, want nil", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var result pipeline.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if result.OutcomeName != "success" {
		t.Errorf("outcome = %q, want success", result.OutcomeName)
	}
	if len(result.Colors) != 3 {
		t.Errorf("colors has %d entries, want 3", len(result.Colors))
	}
	if result.RunID == "" {
		t.Error("run_id = empty, want a UUID")
	}

	// The API never writes result files.
	if _, err := graphml.Import(filepath.Join(dir, "out.graphml")); err == nil {
		t.Error("solve wrote out.graphml, want no file")
	}
}

func TestSolveErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   errors.Code
	}{
		{
			name:       "malformed json",
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "unknown field",
			body:       `{"bogus": true}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "missing workdir",
			body:       `{"workdir": "/nonexistent/graphwfc-test", "seed": 1}`,
			wantStatus: http.StatusNotFound,
			wantCode:   errors.ErrCodeFileNotFound,
		},
		{
			name:       "negative attempts",
			body:       `{"attempts": -1}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/solve", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST /solve = %v, want nil", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			var body errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", body.Code, tt.wantCode)
			}
			if body.Error == "" {
				t.Error("error message = empty")
			}
		})
	}
}

func TestExtract(t *testing.T) {
	srv := newTestServer(t)
	dir := writeWorkdir(t)

	body := []byte(`{"workdir": ` + strconv.Quote(dir) + `}`)
	resp, err := http.Post(srv.URL+"/extract", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /extract = %v, want nil", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var entries []struct {
		Template string `json:"template"`
		Images   int    `json:"images"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Template != "GL.graphml" {
		t.Errorf("template = %q, want GL.graphml", entries[0].Template)
	}
	// A single undirected edge matches each example edge twice.
	if entries[0].Images != 6 {
		t.Errorf("images = %d, want 6", entries[0].Images)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeFileNotFound, http.StatusNotFound},
		{errors.ErrCodeExhausted, http.StatusUnprocessableEntity},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
