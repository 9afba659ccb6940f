// Cubist - a reference-photo driven 3D LUT generator
//
// Cubist analyses a small batch of reference photographs and derives a
// deterministic .cube colour lookup table usable by any grading tool.
package main

import "github.com/jmylchreest/cubist/internal/cli"

func main() {
	cli.Execute()
}
