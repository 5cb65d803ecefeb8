package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, so that
// several deployments or tool versions can share one Redis instance.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "brkgraph:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// AnalysisKey generates a prefixed key for analysis results.
func (k *ScopedKeyer) AnalysisKey(inputHash string, opts AnalysisKeyOpts) string {
	return k.prefix + k.inner.AnalysisKey(inputHash, opts)
}

// CompareKey generates a prefixed key for edit distances.
func (k *ScopedKeyer) CompareKey(hashA, hashB string) string {
	return k.prefix + k.inner.CompareKey(hashA, hashB)
}
