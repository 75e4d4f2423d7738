package cache

// ScopedKeyer wraps a Keyer with a prefix so separate deployments or
// namespaces sharing one Redis instance don't collide.
//
// Example usage:
//
//	// Per-environment keys on a shared cache
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// SolutionKey generates a prefixed key for a solver result.
func (k *ScopedKeyer) SolutionKey(boardHash string, opts SolutionKeyOpts) string {
	return k.prefix + k.inner.SolutionKey(boardHash, opts)
}

// TraceKey generates a prefixed key for a trajectory trace.
func (k *ScopedKeyer) TraceKey(boardHash string, opts TraceKeyOpts) string {
	return k.prefix + k.inner.TraceKey(boardHash, opts)
}

// ArtifactKey generates a prefixed key for a rendered output.
func (k *ScopedKeyer) ArtifactKey(solutionHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(solutionHash, opts)
}
