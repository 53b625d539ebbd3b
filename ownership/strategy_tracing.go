//go:build jbi_tracing && !jbi_refcount

package ownership

// DefaultStrategy is the strategy used by kernels created without WithStrategy.
const DefaultStrategy = Tracing
