package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphwfc/internal/api"
	"github.com/matzehuels/graphwfc/pkg/cache"
	"github.com/matzehuels/graphwfc/pkg/config"
	"github.com/matzehuels/graphwfc/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// shutdown signal.
const shutdownTimeout = 10 * time.Second

// newServeCmd creates the serve command running the HTTP API.
func newServeCmd() *cobra.Command {
	var addr, backend string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve exposes the solve pipeline over HTTP. POST /solve accepts the same
options as the solve command and returns colors inline. The server reads
graphwfc.toml from the current directory for defaults.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cmd, addr, backend)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&backend, "cache", "", "cache backend: file, memory, redis, mongo, null")

	return cmd
}

// runServe starts the API server and blocks until the context is cancelled.
func runServe(ctx context.Context, cmd *cobra.Command, addr, backend string) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.LoadDir(".")
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Serve.Addr = addr
	}
	if cmd.Flags().Changed("cache") {
		cfg.Cache.Backend = backend
	}

	c, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer c.Close()

	server := api.New(pipeline.NewRunner(c, logger), logger)
	srv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on %s", cfg.Serve.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
