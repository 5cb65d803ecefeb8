// Package cache stores serialized analysis results keyed by content hash.
//
// Analysing a breakpoint graph is deterministic: the same input document and
// the same analysis options always produce the same annotated document. The
// batch runner and the HTTP API therefore key results by a SHA-256 of the
// input bytes plus the options that influence the output, and skip the whole
// load → analyze → serialize pipeline on a hit.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for multiple API instances
//   - [NullCache]: caching disabled
//
// All backends treat corrupt or expired entries as misses.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default time-to-live values per entry type.
const (
	TTLAnalysis   = 7 * 24 * time.Hour
	TTLComparison = 24 * time.Hour
)

// =============================================================================
// Keys
// =============================================================================

// AnalysisKeyOpts lists the options that change an analysis result.
type AnalysisKeyOpts struct {
	LegacyDensityKey bool `json:"legacy_density_key"`
	AllowCyclic      bool `json:"allow_cyclic"`

	Indent string `json:"indent,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// AnalysisKey is the key for the annotated document of an input.
	AnalysisKey(inputHash string, opts AnalysisKeyOpts) string

	// CompareKey is the key for the edit distance of two inputs. The order
	// of the hashes matters.
	CompareKey(hashA, hashB string) string
}

// DefaultKeyer produces keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// AnalysisKey implements [Keyer].
func (DefaultKeyer) AnalysisKey(inputHash string, opts AnalysisKeyOpts) string {
	return hashKey("analysis", inputHash, opts)
}

// CompareKey implements [Keyer].
func (DefaultKeyer) CompareKey(hashA, hashB string) string {
	return hashKey("compare", hashA, hashB)
}
