package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/cubist/internal/colour"
	refimage "github.com/jmylchreest/cubist/internal/image"
	"github.com/jmylchreest/cubist/internal/lut"
	"github.com/jmylchreest/cubist/internal/pipeline"
	"github.com/jmylchreest/cubist/internal/util/imagecache"
)

var (
	// Generate command flags
	generateOutput    string
	generateIntensity int
	generateRes       int
	generateBWMethod  string
	generateTitle     string
	generateCompress  bool
	generateTimeout   time.Duration
	generateAdvanced  bool
	generateCache     bool
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [image...]",
	Short: "Generate a .cube LUT from reference photographs",
	Long: `Generate a 3D colour lookup table from 1-10 reference photographs.

Arguments may be image files, directories (expanded to the image files
they contain) or HTTP(S) URLs. Images that fail to load or time out are
skipped; generation fails only when no image can be analysed.

Examples:
  # One reference image, default settings (33x33x33)
  cubist generate sunset.jpg

  # A directory of references at maximum fidelity
  cubist generate ./references -r 65 -o look.cube

  # Strong monochrome look using the red channel
  cubist generate bw-film.jpg --intensity 5 --bw-method red

  # Compressed artifact, custom title
  cubist generate wall.jpg --compress --title "Golden hour"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "cubist.cube", "Output path ('-' for stdout)")
	generateCmd.Flags().IntVarP(&generateIntensity, "intensity", "n", 3, "Intensity level (1-5)")
	generateCmd.Flags().IntVarP(&generateRes, "resolution", "r", 33, "LUT lattice size (canonical: 17, 33, 65)")
	generateCmd.Flags().StringVar(&generateBWMethod, "bw-method", string(colour.GrayscaleLuminance),
		"Grayscale method for monochrome batches (luminance, average, red, green, blue, max, min)")
	generateCmd.Flags().StringVarP(&generateTitle, "title", "t", "", "LUT title written to the artifact header")
	generateCmd.Flags().BoolVar(&generateCompress, "compress", false, "Write an xz-compressed artifact (.cube.xz)")
	generateCmd.Flags().DurationVar(&generateTimeout, "image-timeout", pipeline.DefaultImageTimeout,
		"Per-image load and analysis timeout")
	generateCmd.Flags().BoolVar(&generateAdvanced, "advanced", false, "Enable advanced mode (informational)")
	generateCmd.Flags().BoolVar(&generateCache, "cache-remote", false,
		"Download URL references into the local cache and reuse them on later runs")
}

// runGenerate executes the generate command.
func runGenerate(cmd *cobra.Command, args []string) error {
	paths, err := refimage.ExpandImagePaths(args)
	if err != nil {
		return err
	}

	if generateCache {
		log := newLogger("imagecache")
		for i, path := range paths {
			if !refimage.IsURL(path) {
				continue
			}
			cached, err := imagecache.Fetch(cmd.Context(), path, imagecache.Options{})
			if err != nil {
				return fmt.Errorf("failed to cache %s: %w", path, err)
			}
			log.Debug("using cached reference image", "url", path, "path", cached)
			paths[i] = cached
		}
	}

	cfg := pipeline.Config{
		IntensityLevel: generateIntensity,
		Resolution:     generateRes,
		BWMethod:       colour.GrayscaleMethod(generateBWMethod),
		AdvancedMode:   generateAdvanced,
		ImageTimeout:   generateTimeout,
		Title:          generateTitle,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	runner := pipeline.NewRunner(nil, nil, newLogger("pipeline"))

	grid, err := runner.Run(cmd.Context(), paths, cfg)
	if err != nil {
		return fmt.Errorf("failed to generate LUT: %w", err)
	}

	return writeArtifact(grid, cfg.Title)
}

// writeArtifact serializes the grid to the configured destination.
func writeArtifact(grid *lut.Grid, title string) error {
	if generateOutput == "-" {
		if generateCompress {
			return lut.WriteCubeXZ(os.Stdout, grid, title)
		}
		return lut.WriteCube(os.Stdout, grid, title)
	}

	path := generateOutput
	if generateCompress && !strings.HasSuffix(path, ".xz") {
		path += ".xz"
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := os.Create(path) // #nosec G304 - User-specified output path, intended to be written
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if generateCompress {
		err = lut.WriteCubeXZ(f, grid, title)
	} else {
		err = lut.WriteCube(f, grid, title)
	}
	if err != nil {
		return err
	}

	fmt.Printf("✓ Wrote %s (%d points, %d^3 lattice)\n", path, len(grid.Points), grid.Resolution)
	return nil
}
