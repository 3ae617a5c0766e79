package detect

import (
	"fmt"

	"github.com/corona10/goimagehash"
)

// progressEvery is how often, in items, the similarity pass reports progress.
const progressEvery = 100

// Accepted is an item kept as the representative of its look.
type Accepted struct {
	Item        string
	Fingerprint *goimagehash.ImageHash
}

// SimilarMatch records an item classified as a duplicate of an accepted one.
type SimilarMatch struct {
	Item     string
	Original string
	Distance int
}

// SimilarResult is the outcome of ClassifySimilar.
type SimilarResult struct {
	Duplicates []SimilarMatch
	// Accepted never holds two entries within the threshold of each other.
	Accepted []Accepted
	Skipped  []Skipped
}

// DuplicateItems lists the duplicate items in classification order.
func (r SimilarResult) DuplicateItems() []string {
	items := make([]string, len(r.Duplicates))
	for i, m := range r.Duplicates {
		items[i] = m.Item
	}
	return items
}

// Progress is told the 1-based position of the item about to be processed.
type Progress func(current, total int)

// ClassifySimilar walks items in order and compares each fingerprint against
// the accepted ones, also in order. The first accepted fingerprint within
// threshold claims the item as a duplicate and the search stops there; an item
// matching nothing is accepted. This is a greedy, order dependent pass, not a
// clustering: two duplicates of the same original may be far from each other.
//
// Items that cannot be fingerprinted are skipped. progress may be nil.
func ClassifySimilar(items []string, threshold int, hasher PerceptualHasher, progress Progress) (SimilarResult, error) {
	if threshold < 0 || threshold > MaxThreshold {
		return SimilarResult{}, fmt.Errorf("%w: %d not in [0, %d]", ErrThresholdOutOfRange, threshold, MaxThreshold)
	}

	var res SimilarResult
	for i, item := range items {
		if progress != nil && i%progressEvery == 0 {
			progress(i+1, len(items))
		}

		fp, err := hasher.PerceptualHash(item)
		if err != nil {
			res.Skipped = append(res.Skipped, Skipped{Item: item, Err: err})
			continue
		}

		idx, dist, err := firstMatch(res.Accepted, fp, threshold)
		if err != nil {
			res.Skipped = append(res.Skipped, Skipped{Item: item, Err: err})
			continue
		}
		if idx >= 0 {
			res.Duplicates = append(res.Duplicates, SimilarMatch{
				Item:     item,
				Original: res.Accepted[idx].Item,
				Distance: dist,
			})
			continue
		}
		res.Accepted = append(res.Accepted, Accepted{Item: item, Fingerprint: fp})
	}
	return res, nil
}

// firstMatch returns the index of the first accepted fingerprint within
// threshold of fp and its distance, or -1 when none is.
func firstMatch(accepted []Accepted, fp *goimagehash.ImageHash, threshold int) (int, int, error) {
	for i, a := range accepted {
		dist, err := fp.Distance(a.Fingerprint)
		if err != nil {
			return -1, 0, fmt.Errorf("compare with %s: %w", a.Item, err)
		}
		if dist <= threshold {
			return i, dist, nil
		}
	}
	return -1, 0, nil
}
