//go:build !jbi_refcount && !jbi_tracing

package ownership

// DefaultStrategy is the strategy used by kernels created without WithStrategy.
const DefaultStrategy = Combined
