// Package api implements the graphwfc HTTP API.
//
// The API exposes the solve pipeline over HTTP so graphwfc can run as a
// service. Requests carry the same options as the CLI; graph files are read
// from the server's filesystem relative to the request working directory.
//
// # Endpoints
//
//   - GET  /healthz  liveness probe
//   - GET  /version  build information
//   - POST /solve    run the pipeline, returns the pipeline result as JSON
//   - POST /extract  enumerate templates and return their pattern tables
//
// Solve responses never write result files; colors are returned inline.
package api

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/graphwfc/pkg/buildinfo"
	"github.com/matzehuels/graphwfc/pkg/errors"
	"github.com/matzehuels/graphwfc/pkg/graphml"
	"github.com/matzehuels/graphwfc/pkg/iso"
	"github.com/matzehuels/graphwfc/pkg/observability"
	"github.com/matzehuels/graphwfc/pkg/pattern"
	"github.com/matzehuels/graphwfc/pkg/pipeline"
)

// Server handles HTTP requests by delegating to the solve pipeline.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server around the given runner.
// If logger is nil, the default logger is used.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Post("/solve", s.handleSolve)
	r.Post("/extract", s.handleExtract)

	return r
}

// observe emits request hooks and logs each request with its duration.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.API().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		observability.API().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", elapsed.Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"built":   buildinfo.Date,
	})
}

// handleSolve decodes options, runs the pipeline, and returns the result.
// The result file write is always suppressed; colors come back in the body.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "invalid request body: "+err.Error())
		return
	}
	opts.Result = "-"

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		code := errors.GetCode(err)
		writeError(w, statusFor(code), code, errors.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// extractRequest names the graphs to extract patterns from.
type extractRequest struct {
	WorkDir   string   `json:"workdir,omitempty"`
	Example   string   `json:"example,omitempty"`
	Templates []string `json:"templates,omitempty"`
	NodeAttr  string   `json:"node_attr,omitempty"`
	EdgeAttr  string   `json:"edge_attr,omitempty"`
}

// extractEntry is one template's extraction result.
type extractEntry struct {
	Template string         `json:"template"`
	Images   int            `json:"images"`
	Table    *pattern.Table `json:"table"`
}

// handleExtract enumerates each template against the example graph and
// returns the pattern tables, without solving anything.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "invalid request body: "+err.Error())
		return
	}
	if req.Example == "" {
		req.Example = "GI.graphml"
	}
	if len(req.Templates) == 0 {
		req.Templates = []string{"GL.graphml"}
	}
	if req.NodeAttr == "" {
		req.NodeAttr = pipeline.DefaultNodeAttr
	}

	example, err := graphml.Import(resolve(req.WorkDir, req.Example))
	if err != nil {
		code := errors.GetCode(err)
		writeError(w, statusFor(code), code, errors.UserMessage(err))
		return
	}

	entries := make([]extractEntry, 0, len(req.Templates))
	for _, name := range req.Templates {
		tmpl, err := graphml.Import(resolve(req.WorkDir, name))
		if err != nil {
			code := errors.GetCode(err)
			writeError(w, statusFor(code), code, errors.UserMessage(err))
			return
		}
		images, err := iso.Enumerate(example, tmpl, iso.Options{EdgeAttr: req.EdgeAttr})
		if err != nil {
			code := errors.GetCode(err)
			writeError(w, statusFor(code), code, errors.UserMessage(err))
			return
		}
		table, err := pattern.Extract(example, iso.QueryOrder(tmpl), images, req.NodeAttr)
		if err != nil {
			code := errors.GetCode(err)
			writeError(w, statusFor(code), code, errors.UserMessage(err))
			return
		}
		entries = append(entries, extractEntry{Template: name, Images: len(images), Table: table})
	}
	writeJSON(w, http.StatusOK, entries)
}

func resolve(workdir, name string) string {
	if workdir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(workdir, name)
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGraphML,
		errors.ErrCodeMixedDirectedness, errors.ErrCodeMissingColor:
		return http.StatusBadRequest
	case errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeNoPatterns, errors.ErrCodeEmptyCoverage,
		errors.ErrCodeContradiction, errors.ErrCodeExhausted:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse is the wire form of an API error.
type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errors.Code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}
