package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/cubist/internal/colour"
	refimage "github.com/jmylchreest/cubist/internal/image"
	"github.com/jmylchreest/cubist/internal/pipeline"
)

var (
	// Analyze command flags
	analyzePalette       bool
	analyzePaletteMethod string
	analyzeColours       int
	analyzeTimeout       time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [image...]",
	Short: "Inspect zone statistics for reference photographs",
	Long: `Analyze reference photographs without generating a LUT.

Prints the shadow/midtone/highlight statistics and monochrome
classification per image, plus the combined batch summary the generator
would solve against. With --palette the dominant colours of each image
are listed as well.

Examples:
  # Zone statistics for a batch
  cubist analyze ./references

  # Include an 8-colour dominant palette per image
  cubist analyze sunset.jpg --palette

  # K-means palette with 16 colours
  cubist analyze sunset.jpg --palette --palette-method kmeans -c 16`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzePalette, "palette", false, "Extract a dominant-colour preview palette per image")
	analyzeCmd.Flags().StringVar(&analyzePaletteMethod, "palette-method", string(colour.PaletteDominant),
		"Palette extraction method (dominant, kmeans)")
	analyzeCmd.Flags().IntVarP(&analyzeColours, "colours", "c", 8, "Number of palette colours to extract (1-64)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "image-timeout", pipeline.DefaultImageTimeout,
		"Per-image load and analysis timeout")
}

// runAnalyze executes the analyze command.
func runAnalyze(cmd *cobra.Command, args []string) error {
	paths, err := refimage.ExpandImagePaths(args)
	if err != nil {
		return err
	}
	if !colour.IsValidPaletteMethod(colour.PaletteMethod(analyzePaletteMethod)) {
		return fmt.Errorf("unknown palette method: %s (valid: dominant, kmeans)", analyzePaletteMethod)
	}

	cfg := pipeline.DefaultConfig()
	cfg.ImageTimeout = analyzeTimeout

	runner := pipeline.NewRunner(nil, nil, newLogger("pipeline"))
	results := runner.AnalyzeImages(cmd.Context(), paths, cfg)

	var analyses []colour.ImageAnalysis
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.Path, res.Err)
			continue
		}

		fmt.Printf("✓ %s\n", res.Path)
		fmt.Printf("  └─ monochrome: %v\n", res.Analysis.IsBlackAndWhite)
		for _, zone := range []colour.Zone{colour.ZoneShadows, colour.ZoneMidtones, colour.ZoneHighlights} {
			printZoneStats(zone, res.Analysis.Zone(zone))
		}
		if analyzePalette {
			if err := printPalette(cmd, res.Path); err != nil {
				fmt.Fprintf(os.Stderr, "  ⚠ palette extraction failed: %v\n", err)
			}
		}
		analyses = append(analyses, res.Analysis)
	}

	if len(analyses) == 0 {
		return pipeline.ErrBatchEmpty
	}

	combined, err := colour.Combine(analyses)
	if err != nil {
		return err
	}
	printCombined(combined, len(analyses), len(results)-len(analyses))
	return nil
}

// printZoneStats prints one zone line, or its absence.
func printZoneStats(zone colour.Zone, stats *colour.ZoneStatistics) {
	if stats == nil {
		fmt.Printf("  └─ %-10s (no sampled pixels)\n", zone)
		return
	}
	fmt.Printf("  └─ %-10s %6d px  rgb(%.3f, %.3f, %.3f)  lum %.3f  lab(%.1f, %.1f, %.1f)\n",
		zone, stats.Count,
		stats.MeanRGB.R, stats.MeanRGB.G, stats.MeanRGB.B,
		stats.MeanLuminance,
		stats.MeanLab.L, stats.MeanLab.A, stats.MeanLab.B)
}

// printPalette loads the image again and prints its preview palette,
// with truecolour swatches when stdout is a terminal.
func printPalette(cmd *cobra.Command, path string) error {
	loader := refimage.NewSmartLoader()
	img, err := loader.Load(cmd.Context(), path)
	if err != nil {
		return err
	}

	palette, err := colour.ExtractPalette(img, analyzeColours, colour.PaletteMethod(analyzePaletteMethod))
	if err != nil {
		return err
	}
	colour.SortPaletteByLuminance(palette)

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	fmt.Printf("  └─ palette (%s):", analyzePaletteMethod)
	for _, c := range palette {
		if isTTY {
			fmt.Printf(" %s %s", swatch(c), c.Hex())
		} else {
			fmt.Printf(" %s", c.Hex())
		}
	}
	fmt.Println()
	return nil
}

// swatch renders a truecolour background block for a palette entry.
func swatch(c colorful.Color) string {
	r, g, b := c.RGB255()
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", r, g, b)
}

// printCombined prints the batch-level aggregate summary.
func printCombined(combined colour.CombinedAnalysis, analysed, skipped int) {
	fmt.Println()
	fmt.Printf("Batch summary (%d analysed, %d skipped)\n", analysed, skipped)
	fmt.Printf("  └─ monochrome: %v\n", combined.IsBlackAndWhite)
	for _, zone := range []colour.Zone{colour.ZoneShadows, colour.ZoneMidtones, colour.ZoneHighlights} {
		agg := combined.Zone(zone)
		if !agg.Present() {
			fmt.Printf("  └─ %-10s (no sampled pixels)\n", zone)
			continue
		}
		fmt.Printf("  └─ %-10s weight %8.0f  rgb(%.3f, %.3f, %.3f)  lum %.3f\n",
			zone, agg.Weight, agg.RGB.R, agg.RGB.G, agg.RGB.B, agg.Luminance)
	}
}
