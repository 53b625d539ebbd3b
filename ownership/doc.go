// Package ownership is the object root and lifetime kernel of the runtime.
//
// Every managed value embeds Base and is reached through a *Handle. A Handle
// is one owner; all handles for the same allocation share a single control
// block, so the kernel always knows how many owners an object has no matter
// how the handle was obtained.
//
// # Allocation
//
//	k := ownership.NewKernel(ownership.WithStrategy(ownership.Combined))
//
//	h, err := ownership.Allocate(k, &Point{X: 1})
//	defer h.Release()
//
//	// Inside a method, recover an owner for the receiver. The new handle
//	// shares h's control block; it never creates a second owner count.
//	self, err := ownership.FromSelf(p)
//
// # Strategies
//
//	RefCount  - destruction runs synchronously when the last owner releases
//	Tracing   - the Go collector reclaims; Cleaner resources run as cleanups
//	Combined  - reference counting with the collector as a cycle backstop
//
// The default strategy is fixed per build: the jbi_refcount and jbi_tracing
// build tags select RefCount and Tracing, otherwise Combined is used.
//
// # Destruction
//
// Objects that own other handles implement Destructor and hand those
// handles to the DropList they receive:
//
//	func (n *Node) Destroy(dl *ownership.DropList) {
//	    dl.Release(n.next)
//	}
//
// The DropList is drained iteratively, so releasing the head of a long
// ownership chain does not recurse once per link.
//
// Objects holding host resources (descriptors) that must be released even
// when the collector, not the count, reclaims them implement Cleaner. The
// returned function must not reference the object itself.
package ownership
