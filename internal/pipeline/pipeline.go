package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/cubist/internal/colour"
	refimage "github.com/jmylchreest/cubist/internal/image"
	"github.com/jmylchreest/cubist/internal/lut"
	"github.com/jmylchreest/cubist/internal/profile"
)

// ErrBatchEmpty is returned when no reference image could be analysed.
// It is fatal: no partial LUT is ever produced.
var ErrBatchEmpty = errors.New("no reference images could be analysed")

// ImageResult records the outcome of analysing one reference image.
type ImageResult struct {
	Path     string
	Analysis colour.ImageAnalysis
	Err      error
}

// Runner executes LUT generation batches. Images are analysed strictly
// sequentially so peak memory stays bounded to one decoded buffer and
// progress is reported incrementally.
type Runner struct {
	loader  refimage.Loader
	profile *profile.Profile
	log     hclog.Logger
}

// NewRunner creates a batch runner. Nil arguments fall back to the
// SmartLoader, the default camera profile and a no-op logger.
func NewRunner(loader refimage.Loader, prof *profile.Profile, log hclog.Logger) *Runner {
	if loader == nil {
		loader = refimage.NewSmartLoader()
	}
	if prof == nil {
		prof = profile.Default()
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Runner{
		loader:  loader,
		profile: prof,
		log:     log,
	}
}

// Profile returns the camera profile the runner solves against.
func (r *Runner) Profile() *profile.Profile {
	return r.profile
}

// Run analyses the reference images and synthesises the LUT grid.
// A failed or timed-out image is logged and skipped; the batch fails only
// when zero images succeed. Cancellation is honoured between per-image
// steps and before synthesis starts.
func (r *Runner) Run(ctx context.Context, paths []string, cfg Config) (*lut.Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := r.profile.Validate(); err != nil {
		return nil, err
	}
	if len(paths) < colour.MinBatchSize || len(paths) > colour.MaxBatchSize {
		return nil, fmt.Errorf("reference image count must be between %d and %d, got %d",
			colour.MinBatchSize, colour.MaxBatchSize, len(paths))
	}
	if cfg.AdvancedMode {
		r.log.Debug("advanced mode requested; informational only")
	}

	results := r.AnalyzeImages(ctx, paths, cfg)

	analyses := make([]colour.ImageAnalysis, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		analyses = append(analyses, res.Analysis)
	}
	if len(analyses) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrBatchEmpty
	}

	combined, err := colour.Combine(analyses)
	if err != nil {
		return nil, err
	}
	r.log.Info("combined batch analysis",
		"images", len(analyses),
		"skipped", len(results)-len(analyses),
		"monochrome", combined.IsBlackAndWhite)

	transforms, err := lut.SolveTransforms(r.profile, combined, cfg.IntensityLevel)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grid, err := lut.Synthesize(lut.Options{
		Resolution: cfg.Resolution,
		Intensity:  cfg.IntensityLevel,
		BWMethod:   cfg.BWMethod,
	}, combined, transforms, r.profile)
	if err != nil {
		return nil, err
	}

	r.log.Info("synthesised lut", "resolution", cfg.Resolution, "points", len(grid.Points))
	return grid, nil
}

// AnalyzeImages loads and analyses each reference image in order,
// recording per-image outcomes. Analysis stops early when ctx is
// cancelled; remaining images are reported with the context error.
func (r *Runner) AnalyzeImages(ctx context.Context, paths []string, cfg Config) []ImageResult {
	results := make([]ImageResult, 0, len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			results = append(results, ImageResult{Path: path, Err: err})
			continue
		}

		analysis, err := r.analyzeOne(ctx, path, cfg)
		if err != nil {
			r.log.Warn("skipping reference image", "path", path, "error", err)
			results = append(results, ImageResult{Path: path, Err: err})
			continue
		}

		r.log.Debug("analysed reference image",
			"path", path,
			"monochrome", analysis.IsBlackAndWhite)
		results = append(results, ImageResult{Path: path, Analysis: analysis})
	}

	return results
}

// analyzeOne loads one image under the per-image timeout and samples it.
func (r *Runner) analyzeOne(ctx context.Context, path string, cfg Config) (colour.ImageAnalysis, error) {
	img, err := r.loadWithTimeout(ctx, path, cfg)
	if err != nil {
		return colour.ImageAnalysis{}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return colour.Analyze(img.Pix), nil
}

// loadWithTimeout runs the loader under the configured timeout. Image
// decoding is not interruptible, so the load runs in its own goroutine
// and a timeout abandons it rather than waiting.
func (r *Runner) loadWithTimeout(ctx context.Context, path string, cfg Config) (*image.RGBA, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()

	type loadResult struct {
		img *image.RGBA
		err error
	}
	done := make(chan loadResult, 1)
	go func() {
		img, err := r.loader.Load(ctx, path)
		done <- loadResult{img: img, err: err}
	}()

	select {
	case res := <-done:
		return res.img, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
