// Package server exposes LUT generation as an HTTP service.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/cubist/internal/colour"
	"github.com/jmylchreest/cubist/internal/lut"
	"github.com/jmylchreest/cubist/internal/pipeline"
	"github.com/jmylchreest/cubist/internal/security"
	"github.com/jmylchreest/cubist/internal/version"
)

// DefaultRequestTimeout bounds one generation request end to end.
const DefaultRequestTimeout = 2 * time.Minute

// GenerateRequest is the JSON body for POST /v1/luts. Images must be
// HTTP(S) URLs; the service never reads its local filesystem on behalf
// of a caller.
type GenerateRequest struct {
	Images         []string `json:"images" binding:"required"`
	IntensityLevel int      `json:"intensity_level"`
	Resolution     int      `json:"resolution"`
	BWMethod       string   `json:"bw_method"`
	AdvancedMode   bool     `json:"advanced_mode"`
	Title          string   `json:"title"`
	Compress       bool     `json:"compress"`
}

// ErrorResponse carries the single human-readable error string returned
// on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Options configures the HTTP handler.
type Options struct {
	// RequestTimeout bounds one generation request. Zero means
	// DefaultRequestTimeout.
	RequestTimeout time.Duration

	// Log receives request-level logging. Nil means no logging.
	Log hclog.Logger
}

// NewHandler builds the HTTP handler serving health checks and LUT
// generation.
func NewHandler(runner *pipeline.Runner, opts Options) http.Handler {
	if opts.Log == nil {
		opts.Log = hclog.NewNullLogger()
	}
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", healthCheck)
	r.POST("/v1/luts", generateLUT(runner, opts))

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Short(),
	})
}

func generateLUT(runner *pipeline.Runner, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), opts.RequestTimeout)
		defer cancel()

		var req GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}
		if err := validateImages(req.Images); err != nil {
			respondError(c, http.StatusBadRequest, err)
			return
		}

		cfg := configFromRequest(req)
		if err := cfg.Validate(); err != nil {
			respondError(c, http.StatusBadRequest, err)
			return
		}

		opts.Log.Info("processing lut generation request",
			"images", len(req.Images),
			"resolution", cfg.Resolution,
			"intensity", cfg.IntensityLevel,
			"ip", c.ClientIP())

		grid, err := runner.Run(ctx, req.Images, cfg)
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, pipeline.ErrBatchEmpty):
				status = http.StatusUnprocessableEntity
			case errors.Is(err, context.DeadlineExceeded):
				status = http.StatusGatewayTimeout
			}
			opts.Log.Error("lut generation failed", "error", err, "elapsed", time.Since(start))
			respondError(c, status, err)
			return
		}

		var buf bytes.Buffer
		writeErr := lut.WriteCube(&buf, grid, cfg.Title)
		contentType := "text/plain; charset=utf-8"
		filename := "cubist.cube"
		if req.Compress {
			buf.Reset()
			writeErr = lut.WriteCubeXZ(&buf, grid, cfg.Title)
			contentType = "application/x-xz"
			filename = "cubist.cube.xz"
		}
		if writeErr != nil {
			respondError(c, http.StatusInternalServerError, writeErr)
			return
		}

		opts.Log.Info("lut generation complete",
			"points", len(grid.Points),
			"bytes", buf.Len(),
			"elapsed", time.Since(start))

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, contentType, buf.Bytes())
	}
}

// validateImages rejects anything that is not a safe HTTP(S) URL.
func validateImages(images []string) error {
	if len(images) < colour.MinBatchSize || len(images) > colour.MaxBatchSize {
		return fmt.Errorf("image count must be between %d and %d, got %d",
			colour.MinBatchSize, colour.MaxBatchSize, len(images))
	}
	for _, img := range images {
		if err := security.ValidateImageURL(img); err != nil {
			return err
		}
	}
	return nil
}

// configFromRequest merges request fields over the default settings.
func configFromRequest(req GenerateRequest) pipeline.Config {
	cfg := pipeline.DefaultConfig()
	if req.IntensityLevel != 0 {
		cfg.IntensityLevel = req.IntensityLevel
	}
	if req.Resolution != 0 {
		cfg.Resolution = req.Resolution
	}
	if req.BWMethod != "" {
		cfg.BWMethod = colour.GrayscaleMethod(req.BWMethod)
	}
	cfg.AdvancedMode = req.AdvancedMode
	cfg.Title = req.Title
	return cfg
}

func respondError(c *gin.Context, status int, err error) {
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
