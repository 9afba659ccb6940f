package lut

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
)

// DefaultTitle is used when no artifact title is configured.
const DefaultTitle = "cubist generated LUT"

// WriteCube serializes the grid in the standard .cube convention: a
// TITLE/DOMAIN/LUT_3D_SIZE header, a blank line and one "R G B" line per
// lattice point with six decimal places, blue-outer/green/red-inner order.
func WriteCube(w io.Writer, grid *Grid, title string) error {
	if grid == nil {
		return fmt.Errorf("grid cannot be nil")
	}
	n := grid.Resolution
	if len(grid.Points) != n*n*n {
		return fmt.Errorf("grid has %d points, want %d", len(grid.Points), n*n*n)
	}
	if title == "" {
		title = DefaultTitle
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "TITLE %q\n", title)
	fmt.Fprintln(bw, "DOMAIN_MIN 0.0 0.0 0.0")
	fmt.Fprintln(bw, "DOMAIN_MAX 1.0 1.0 1.0")
	fmt.Fprintf(bw, "LUT_3D_SIZE %d\n", n)
	fmt.Fprintln(bw)

	for _, p := range grid.Points {
		if _, err := fmt.Fprintf(bw, "%.6f %.6f %.6f\n", p.R, p.G, p.B); err != nil {
			return fmt.Errorf("failed to write lut point: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush lut output: %w", err)
	}
	return nil
}

// WriteCubeXZ serializes the grid as xz-compressed .cube text. High
// resolution grids serialize to several megabytes of text, so compressed
// artifacts are offered for transport and archival.
func WriteCubeXZ(w io.Writer, grid *Grid, title string) error {
	xw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create xz writer: %w", err)
	}
	if err := WriteCube(xw, grid, title); err != nil {
		return err
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("failed to finish xz stream: %w", err)
	}
	return nil
}
