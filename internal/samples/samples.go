// Package samples draws a small set of demo images with known duplicates.
package samples

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

const size = 256

// Sample is one generated file and what it duplicates, if anything.
type Sample struct {
	Name     string
	Original string // "" for originals
	Exact    bool   // byte copy of Original
}

// Set is the demo layout written by Write, in the order it is written.
var Set = []Sample{
	{Name: "cat_original.jpg"},
	{Name: "cat_copy.jpg", Original: "cat_original.jpg", Exact: true},
	{Name: "cat_small.png", Original: "cat_original.jpg"},
	{Name: "sunset_original.jpg"},
	{Name: "sunset_bright.jpg", Original: "sunset_original.jpg"},
	{Name: "sunset_dark.jpg", Original: "sunset_original.jpg"},
}

// Sunset draws a sky gradient with a sun. brightness scales how far the
// gradient moves from its top colour.
func Sunset(brightness float64) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	for y := 0; y < size; y++ {
		progress := float64(y) / size
		c := color.RGBA{
			R: clamp(135 + (255-135)*progress*brightness),
			G: clamp(206 + (100-206)*progress*brightness),
			B: clamp(235 + (50-235)*progress*brightness),
			A: 255,
		}
		for x := 0; x < size; x++ {
			img.Set(x, y, c)
		}
	}

	fillEllipse(img, 128, 85, 32, 32, color.RGBA{255, 215, 0, 255})
	return img
}

// Cat draws a grey cat silhouette on a pale background.
func Cat() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.RGBA{240, 248, 255, 255})
		}
	}

	catColor := color.RGBA{100, 100, 100, 255}
	fillEllipse(img, 128, 170, 40, 30, catColor) // body
	fillEllipse(img, 128, 100, 35, 30, catColor) // head

	// ears
	for y := 65; y < 85; y++ {
		for x := 93; x < 113; x++ {
			if x+y > 158 && x+3*y > 300 && 3*x+y < 420 {
				img.Set(x, y, catColor)
			}
		}
		for x := 143; x < 163; x++ {
			if 508-x+y > 158 && 508-x+3*y > 300 && 768-3*x+y < 420 {
				img.Set(x, y, catColor)
			}
		}
	}
	return img
}

func fillEllipse(img *image.RGBA, cx, cy, rx, ry int, c color.Color) {
	for y := cy - ry; y <= cy+ry; y++ {
		for x := cx - rx; x <= cx+rx; x++ {
			dx, dy := float64(x-cx)/float64(rx), float64(y-cy)/float64(ry)
			if dx*dx+dy*dy <= 1.0 {
				img.Set(x, y, c)
			}
		}
	}
}

func clamp(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

// Write generates Set into dir and returns the paths written.
func Write(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	cat := Cat()
	images := map[string]image.Image{
		"cat_original.jpg":    cat,
		"cat_small.png":       imaging.Resize(cat, size/2, 0, imaging.Lanczos),
		"sunset_original.jpg": Sunset(1.0),
		"sunset_bright.jpg":   Sunset(1.15),
		"sunset_dark.jpg":     Sunset(0.85),
	}

	paths := make([]string, 0, len(Set))
	for _, s := range Set {
		path := filepath.Join(dir, s.Name)
		var err error
		if s.Exact {
			err = copyFile(filepath.Join(dir, s.Original), path)
		} else {
			err = save(images[s.Name], path)
		}
		if err != nil {
			return paths, fmt.Errorf("write %s: %w", s.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func save(img image.Image, path string) error {
	if filepath.Ext(path) == ".png" {
		return imaging.Save(img, path)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		return err
	}
	return f.Close()
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}
