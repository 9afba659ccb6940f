package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/cubist/internal/pipeline"
	"github.com/jmylchreest/cubist/internal/server"
)

var (
	// Serve command flags
	serveListen  string
	serveTimeout time.Duration
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run LUT generation as an HTTP service",
	Long: `Run an HTTP service that generates LUTs from posted image URLs.

Endpoints:
  GET  /health   - liveness and version
  POST /v1/luts  - generate a .cube artifact from reference image URLs

Example request:
  curl -X POST localhost:8080/v1/luts \
    -H 'Content-Type: application/json' \
    -d '{"images": ["https://example.com/ref.jpg"], "resolution": 33}'`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", ":8080", "Listen address")
	serveCmd.Flags().DurationVar(&serveTimeout, "request-timeout", server.DefaultRequestTimeout,
		"Per-request generation timeout")
}

// runServe executes the serve command.
func runServe(cmd *cobra.Command, args []string) error {
	log := newLogger("server")
	runner := pipeline.NewRunner(nil, nil, log.Named("pipeline"))

	handler := server.NewHandler(runner, server.Options{
		RequestTimeout: serveTimeout,
		Log:            log,
	})

	srv := &http.Server{
		Addr:         serveListen,
		Handler:      handler,
		ReadTimeout:  serveTimeout,
		WriteTimeout: serveTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server", "address", serveListen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
