package finder

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/luinbytes/imgdedup/fingerprint"
	"github.com/luinbytes/imgdedup/storage"
)

// Comparison is the verdict of one perceptual algorithm on two images.
type Comparison struct {
	Algorithm  fingerprint.PerceptualAlgorithm
	Hash1      uint64
	Hash2      uint64
	Distance   int
	Similarity float64
	Similar    bool
}

// Compare fingerprints two images with every perceptual algorithm and judges
// each pair against threshold.
func Compare(ctx context.Context, provider storage.Provider, img1, img2 string, threshold int) ([]Comparison, error) {
	for _, path := range []string{img1, img2} {
		if !fingerprint.IsImageFile(path) {
			return nil, fmt.Errorf("%s is not a supported image file", path)
		}
	}

	open := func(path string) (io.ReadCloser, error) {
		return provider.OpenFile(ctx, path)
	}

	comparisons := make([]Comparison, 0, len(fingerprint.PerceptualAlgorithms))
	for _, algo := range fingerprint.PerceptualAlgorithms {
		p := fingerprint.NewPerceptual(algo, open)

		hash1, err := p.PerceptualHash(img1)
		if err != nil {
			return nil, fmt.Errorf("failed to hash %s: %w", img1, err)
		}
		hash2, err := p.PerceptualHash(img2)
		if err != nil {
			return nil, fmt.Errorf("failed to hash %s: %w", img2, err)
		}

		dist, err := fingerprint.Distance(hash1, hash2)
		if err != nil {
			return nil, err
		}

		comparisons = append(comparisons, Comparison{
			Algorithm:  algo,
			Hash1:      hash1.GetHash(),
			Hash2:      hash2.GetHash(),
			Distance:   dist,
			Similarity: fingerprint.Similarity(dist),
			Similar:    dist <= threshold,
		})
	}
	return comparisons, nil
}

// PrintComparison writes the per-algorithm results and a verdict for the
// chosen algorithm.
func PrintComparison(w io.Writer, comparisons []Comparison, chosen fingerprint.PerceptualAlgorithm, threshold int) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintln(w, "IMAGE COMPARISON RESULTS")
	fmt.Fprintln(w, strings.Repeat("=", 70))

	var verdict *Comparison
	for i, c := range comparisons {
		if c.Algorithm == chosen {
			verdict = &comparisons[i]
		}

		fmt.Fprintf(w, "\n%s (%s):\n", strings.ToUpper(string(c.Algorithm)), c.Algorithm.Description())
		fmt.Fprintf(w, "  Hash 1: %016x\n", c.Hash1)
		fmt.Fprintf(w, "  Hash 2: %016x\n", c.Hash2)
		fmt.Fprintf(w, "  Hamming Distance: %d/%d\n", c.Distance, fingerprint.Bits)
		fmt.Fprintf(w, "  Similarity: %.1f%%\n", c.Similarity)
		if c.Similar {
			fmt.Fprintf(w, "  Result: SIMILAR\n")
		} else {
			fmt.Fprintf(w, "  Result: DIFFERENT\n")
		}
	}

	if verdict == nil {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintln(w, "RECOMMENDATION")
	fmt.Fprintln(w, strings.Repeat("=", 70))

	state := "DIFFERENT"
	if verdict.Similar {
		state = "SIMILAR"
	}
	fmt.Fprintf(w, "Images are %s (using %s, threshold %d)\n", state, chosen, threshold)
	fmt.Fprintf(w, "   Similarity: %.1f%% (distance: %d)\n", verdict.Similarity, verdict.Distance)
	fmt.Fprintln(w)
}
