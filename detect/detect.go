// Package detect partitions an ordered list of items into kept items and
// duplicates, first by exact content and then by perceptual similarity.
//
// Both passes are greedy and order dependent: the first item seen in a group
// is the one kept, so callers must fix the input order to get reproducible
// results.
package detect

import (
	"errors"
	"fmt"

	"github.com/corona10/goimagehash"
)

// MaxThreshold is the largest meaningful Hamming distance for 64-bit fingerprints.
const MaxThreshold = 64

// ErrThresholdOutOfRange is returned for thresholds outside [0, MaxThreshold].
var ErrThresholdOutOfRange = errors.New("threshold out of range")

// ContentHasher derives an exact fingerprint from an item's bytes.
type ContentHasher interface {
	ContentHash(item string) (string, error)
}

// PerceptualHasher derives a perceptual fingerprint from an image item.
type PerceptualHasher interface {
	PerceptualHash(item string) (*goimagehash.ImageHash, error)
}

// ContentFunc adapts a function to ContentHasher.
type ContentFunc func(item string) (string, error)

func (f ContentFunc) ContentHash(item string) (string, error) { return f(item) }

// PerceptualFunc adapts a function to PerceptualHasher.
type PerceptualFunc func(item string) (*goimagehash.ImageHash, error)

func (f PerceptualFunc) PerceptualHash(item string) (*goimagehash.ImageHash, error) { return f(item) }

// Skipped is an item that could not be fingerprinted. It is in neither the
// kept nor the duplicate set.
type Skipped struct {
	Item string
	Err  error
}

func (s Skipped) Error() string {
	return fmt.Sprintf("%s: %v", s.Item, s.Err)
}

func (s Skipped) Unwrap() error { return s.Err }

// ExactGroup is a set of items with identical content, in first-seen order.
type ExactGroup struct {
	Fingerprint string
	Items       []string
}

// Kept is the canonical item of the group.
func (g ExactGroup) Kept() string { return g.Items[0] }

// Duplicates are every item after the first.
func (g ExactGroup) Duplicates() []string { return g.Items[1:] }

// ExactResult is the outcome of ClassifyExact.
type ExactResult struct {
	// Kept holds one item per distinct fingerprint, in input order.
	Kept []string
	// Duplicates holds the non-canonical items, grouped by fingerprint in
	// first-seen group order.
	Duplicates []string
	// Groups holds only fingerprints shared by more than one item.
	Groups  []ExactGroup
	Skipped []Skipped
}

// ClassifyExact groups items by content fingerprint. The first item of every
// group is kept and the rest are duplicates. Items whose content cannot be
// read are reported in Skipped and processing continues. A path listed more
// than once is only considered at its first position.
func ClassifyExact(items []string, hasher ContentHasher) ExactResult {
	var res ExactResult

	seen := make(map[string]struct{}, len(items))
	index := make(map[string]int)
	var groups []ExactGroup

	for _, item := range items {
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}

		fp, err := hasher.ContentHash(item)
		if err != nil {
			res.Skipped = append(res.Skipped, Skipped{Item: item, Err: err})
			continue
		}

		if i, ok := index[fp]; ok {
			groups[i].Items = append(groups[i].Items, item)
			continue
		}
		index[fp] = len(groups)
		groups = append(groups, ExactGroup{Fingerprint: fp, Items: []string{item}})
		res.Kept = append(res.Kept, item)
	}

	for _, g := range groups {
		if len(g.Items) > 1 {
			res.Groups = append(res.Groups, g)
			res.Duplicates = append(res.Duplicates, g.Duplicates()...)
		}
	}
	return res
}
