package fingerprint

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"

	// Decoders for the formats image.Decode does not know about.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Bits is the length of every perceptual fingerprint.
const Bits = 64

// gridSize is the side of the luminance grid the average hash samples.
const gridSize = 8

// ErrEmptyImage is returned for images without pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// PerceptualAlgorithm selects how an image is reduced to 64 bits.
type PerceptualAlgorithm string

const (
	// AHash sets a bit for every cell of an 8x8 grid at or above the mean luminance.
	AHash PerceptualAlgorithm = "ahash"
	// DHash compares horizontally adjacent cells.
	DHash PerceptualAlgorithm = "dhash"
	// PHash thresholds the low DCT frequencies.
	PHash PerceptualAlgorithm = "phash"
)

// DefaultPerceptualAlgorithm is the average hash.
const DefaultPerceptualAlgorithm = AHash

// PerceptualAlgorithms lists every supported algorithm in display order.
var PerceptualAlgorithms = []PerceptualAlgorithm{DHash, AHash, PHash}

var algoDescriptions = map[PerceptualAlgorithm]string{
	DHash: "Difference Hash - Fast, good for near-duplicates",
	AHash: "Average Hash - Balanced speed and accuracy",
	PHash: "Perceptual Hash - Most robust, slower",
}

// Description is a one line summary of the algorithm.
func (a PerceptualAlgorithm) Description() string {
	return algoDescriptions[a]
}

// ParsePerceptualAlgorithm resolves a user supplied algorithm name.
func ParsePerceptualAlgorithm(name string) (PerceptualAlgorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ahash", "average":
		return AHash, nil
	case "dhash", "difference":
		return DHash, nil
	case "phash", "perceptual":
		return PHash, nil
	default:
		return "", fmt.Errorf("unknown perceptual algorithm %q (want ahash, dhash or phash)", name)
	}
}

// supportedFormats is the extension allow-list, lower case with the dot.
var supportedFormats = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".bmp":  {},
	".gif":  {},
	".tiff": {},
	".webp": {},
}

// IsImageFile reports whether the path has a supported image extension.
func IsImageFile(path string) bool {
	_, ok := supportedFormats[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Perceptual computes perceptual fingerprints of image files.
type Perceptual struct {
	algorithm PerceptualAlgorithm
	open      Opener
}

// NewPerceptual returns a perceptual hasher. A nil opener reads from the local filesystem.
func NewPerceptual(algorithm PerceptualAlgorithm, open Opener) *Perceptual {
	if open == nil {
		open = OpenFile
	}
	if algorithm == "" {
		algorithm = DefaultPerceptualAlgorithm
	}
	return &Perceptual{algorithm: algorithm, open: open}
}

// Algorithm reports the algorithm in use.
func (p *Perceptual) Algorithm() PerceptualAlgorithm {
	return p.algorithm
}

// PerceptualHash decodes the image at path and hashes it.
func (p *Perceptual) PerceptualHash(path string) (*goimagehash.ImageHash, error) {
	r, err := p.open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return Hash(img, p.algorithm)
}

// Hash fingerprints an already decoded image.
func Hash(img image.Image, algorithm PerceptualAlgorithm) (*goimagehash.ImageHash, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	switch algorithm {
	case DHash:
		return goimagehash.DifferenceHash(img)
	case PHash:
		return goimagehash.PerceptionHash(img)
	default:
		return averageHash(img), nil
	}
}

// averageHash shrinks the image to an 8x8 luminance grid and sets bit i
// (most significant first) when cell i is at or above the grid mean.
func averageHash(img image.Image) *goimagehash.ImageHash {
	small := imaging.Resize(img, gridSize, gridSize, imaging.Box)

	const cellCount = gridSize * gridSize
	var cells [cellCount]int
	total := 0
	for y := 0; y < gridSize; y++ {
		for x := 0; x < gridSize; x++ {
			l := luminance(small.At(x, y))
			cells[y*gridSize+x] = l
			total += l
		}
	}

	// l >= total/cellCount, kept in integers so a flat image sets every bit.
	var bits uint64
	for i, l := range cells {
		if l*cellCount >= total {
			bits |= 1 << uint(cellCount-1-i)
		}
	}
	return goimagehash.NewImageHash(bits, goimagehash.AHash)
}

// luminance converts a color to its 0-255 luma.
func luminance(c color.Color) int {
	r, g, b, _ := c.RGBA()
	return int(0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8))
}

// Distance is the Hamming distance between two fingerprints of the same kind.
func Distance(a, b *goimagehash.ImageHash) (int, error) {
	if a == nil || b == nil {
		return 0, errors.New("nil fingerprint")
	}
	return a.Distance(b)
}

// Similarity expresses a distance as the share of matching bits.
func Similarity(distance int) float64 {
	return 100.0 - float64(distance)/float64(Bits)*100.0
}
