// Package fingerprint derives comparable fingerprints from image files: exact
// content digests and 64-bit perceptual hashes.
package fingerprint

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// HashAlgorithm names a content digest.
type HashAlgorithm string

const (
	MD5    HashAlgorithm = "md5"
	SHA1   HashAlgorithm = "sha1"
	SHA256 HashAlgorithm = "sha256"
)

// DefaultHashAlgorithm is a 128-bit digest, enough to tell files apart.
const DefaultHashAlgorithm = MD5

// Opener opens an item for reading.
type Opener func(path string) (io.ReadCloser, error)

// OpenFile opens a path on the local filesystem.
func OpenFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// ParseHashAlgorithm resolves a user supplied algorithm name.
func ParseHashAlgorithm(name string) (HashAlgorithm, error) {
	switch HashAlgorithm(strings.ToLower(strings.TrimSpace(name))) {
	case "", MD5:
		return MD5, nil
	case SHA1:
		return SHA1, nil
	case SHA256:
		return SHA256, nil
	default:
		return "", fmt.Errorf("unknown hash algorithm %q (want md5, sha1 or sha256)", name)
	}
}

func (a HashAlgorithm) newHasher() hash.Hash {
	switch a {
	case SHA1:
		return sha1.New()
	case SHA256:
		return sha256.New()
	default:
		return md5.New()
	}
}

// Content computes whole-content digests.
type Content struct {
	algorithm HashAlgorithm
	open      Opener
}

// NewContent returns a content hasher. A nil opener reads from the local filesystem.
func NewContent(algorithm HashAlgorithm, open Opener) *Content {
	if open == nil {
		open = OpenFile
	}
	if algorithm == "" {
		algorithm = DefaultHashAlgorithm
	}
	return &Content{algorithm: algorithm, open: open}
}

// Algorithm reports the digest in use.
func (c *Content) Algorithm() HashAlgorithm {
	return c.algorithm
}

// ContentHash streams the item through the digest and returns it hex encoded.
func (c *Content) ContentHash(path string) (string, error) {
	r, err := c.open(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	return HashReader(r, c.algorithm)
}

// HashReader digests everything r yields.
func HashReader(r io.Reader, algorithm HashAlgorithm) (string, error) {
	hasher := algorithm.newHasher()
	if _, err := io.Copy(hasher, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
