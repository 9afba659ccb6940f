package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"
)

// stubLoader serves canned images keyed by path and fails for any path
// listed in fail.
type stubLoader struct {
	images map[string]*image.RGBA
	fail   map[string]error
	delay  time.Duration
}

func (s *stubLoader) Load(ctx context.Context, path string) (*image.RGBA, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := s.fail[path]; ok {
		return nil, err
	}
	img, ok := s.images[path]
	if !ok {
		return nil, fmt.Errorf("no such image: %s", path)
	}
	return img, nil
}

// fillImage builds a solid RGBA image large enough for the zone sampler
// to collect a healthy number of samples.
func fillImage(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func newStubLoader() *stubLoader {
	return &stubLoader{
		images: map[string]*image.RGBA{
			"dark.png":   fillImage(color.RGBA{R: 30, G: 30, B: 30, A: 255}),
			"mid.png":    fillImage(color.RGBA{R: 140, G: 120, B: 100, A: 255}),
			"bright.png": fillImage(color.RGBA{R: 230, G: 225, B: 220, A: 255}),
		},
		fail: map[string]error{
			"broken.png": errors.New("decode failed"),
		},
	}
}

func TestRunProducesGrid(t *testing.T) {
	runner := NewRunner(newStubLoader(), nil, nil)
	cfg := DefaultConfig()
	cfg.Resolution = 9

	grid, err := runner.Run(context.Background(), []string{"dark.png", "mid.png", "bright.png"}, cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := len(grid.Points), 9*9*9; got != want {
		t.Errorf("len(Points) = %d, want %d", got, want)
	}
}

func TestRunSkipsFailedImages(t *testing.T) {
	runner := NewRunner(newStubLoader(), nil, nil)
	cfg := DefaultConfig()
	cfg.Resolution = 5

	grid, err := runner.Run(context.Background(), []string{"broken.png", "mid.png"}, cfg)
	if err != nil {
		t.Fatalf("Run() error = %v, want skipped failure", err)
	}
	if grid == nil {
		t.Fatal("Run() returned nil grid")
	}
}

func TestRunAllImagesFail(t *testing.T) {
	runner := NewRunner(newStubLoader(), nil, nil)
	cfg := DefaultConfig()

	_, err := runner.Run(context.Background(), []string{"broken.png", "missing.png"}, cfg)
	if !errors.Is(err, ErrBatchEmpty) {
		t.Errorf("Run() error = %v, want ErrBatchEmpty", err)
	}
}

func TestRunValidatesBatchSize(t *testing.T) {
	runner := NewRunner(newStubLoader(), nil, nil)
	cfg := DefaultConfig()

	if _, err := runner.Run(context.Background(), nil, cfg); err == nil {
		t.Error("Run() expected error for empty path list, got nil")
	}

	paths := make([]string, 11)
	for i := range paths {
		paths[i] = "mid.png"
	}
	if _, err := runner.Run(context.Background(), paths, cfg); err == nil {
		t.Error("Run() expected error for 11 paths, got nil")
	}
}

func TestRunValidatesConfig(t *testing.T) {
	runner := NewRunner(newStubLoader(), nil, nil)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "intensity too low", mutate: func(c *Config) { c.IntensityLevel = 0 }},
		{name: "intensity too high", mutate: func(c *Config) { c.IntensityLevel = 6 }},
		{name: "resolution too small", mutate: func(c *Config) { c.Resolution = 1 }},
		{name: "unknown bw method", mutate: func(c *Config) { c.BWMethod = "sepia" }},
		{name: "negative timeout", mutate: func(c *Config) { c.ImageTimeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := runner.Run(context.Background(), []string{"mid.png"}, cfg); err == nil {
				t.Error("Run() expected configuration error, got nil")
			}
		})
	}
}

func TestRunCancelledContext(t *testing.T) {
	runner := NewRunner(newStubLoader(), nil, nil)
	cfg := DefaultConfig()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, []string{"mid.png"}, cfg)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestAnalyzeImagesResultsInOrder(t *testing.T) {
	runner := NewRunner(newStubLoader(), nil, nil)
	cfg := DefaultConfig()

	paths := []string{"dark.png", "broken.png", "bright.png"}
	results := runner.AnalyzeImages(context.Background(), paths, cfg)

	if len(results) != len(paths) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(paths))
	}
	for i, res := range results {
		if res.Path != paths[i] {
			t.Errorf("results[%d].Path = %q, want %q", i, res.Path, paths[i])
		}
	}
	if results[1].Err == nil {
		t.Error("results[1].Err = nil, want decode failure")
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("healthy images reported errors: %v, %v", results[0].Err, results[2].Err)
	}

	// A near-black solid fill must land entirely in the shadow zone.
	dark := results[0].Analysis
	if dark.Shadows == nil {
		t.Fatal("dark image has no shadow statistics")
	}
	if dark.Midtones != nil || dark.Highlights != nil {
		t.Error("solid dark image reported midtone or highlight samples")
	}
	if !dark.IsBlackAndWhite {
		t.Error("solid grey image not detected as monochrome")
	}
}

func TestLoadTimeout(t *testing.T) {
	loader := newStubLoader()
	loader.delay = 200 * time.Millisecond
	runner := NewRunner(loader, nil, nil)

	cfg := DefaultConfig()
	cfg.ImageTimeout = 20 * time.Millisecond

	results := runner.AnalyzeImages(context.Background(), []string{"mid.png"}, cfg)
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if !errors.Is(results[0].Err, context.DeadlineExceeded) {
		t.Errorf("results[0].Err = %v, want deadline exceeded", results[0].Err)
	}
}

func TestConfigValidateMessages(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BWMethod = "sepia"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "sepia") {
		t.Errorf("error %q does not name the rejected method", err)
	}
}
