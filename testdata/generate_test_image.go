// Reference image generator for exercising LUT generation by hand.
package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

func main() {
	width := 400
	height := 400

	write("testdata/warm_gradient.png", gradient(width, height,
		color.RGBA{R: 40, G: 18, B: 8, A: 255},
		color.RGBA{R: 250, G: 200, B: 140, A: 255}))

	write("testdata/cool_gradient.png", gradient(width, height,
		color.RGBA{R: 8, G: 16, B: 45, A: 255},
		color.RGBA{R: 150, G: 200, B: 255, A: 255}))

	write("testdata/monochrome.png", gradient(width, height,
		color.RGBA{R: 10, G: 10, B: 10, A: 255},
		color.RGBA{R: 240, G: 240, B: 240, A: 255}))

	println("Test images created in testdata/")
}

// gradient renders a vertical blend from top to bottom, covering all
// three luminance zones.
func gradient(width, height int, top, bottom color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		t := float64(y) / float64(height-1)
		c := color.RGBA{
			R: lerp(top.R, bottom.R, t),
			G: lerp(top.G, bottom.G, t),
			B: lerp(top.B, bottom.B, t),
			A: 255,
		}
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

func write(path string, img *image.RGBA) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		panic(err)
	}
	println("Created:", path)
}
