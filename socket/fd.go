package socket

import (
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// fd is a descriptor closed at most once. It is shared between its owner
// and the owner's collector cleanup, and must not reference the owner.
type fd struct {
	n      int
	closed atomic.Bool
}

func (f *fd) isClosed() bool {
	return f.closed.Load()
}

// release closes the descriptor the first time it is called.
func (f *fd) release() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return unix.Close(f.n)
}

// shutdown wakes goroutines blocked on the descriptor, then closes it.
func (f *fd) shutdown() error {
	if f.isClosed() {
		return nil
	}
	_ = unix.Shutdown(f.n, unix.SHUT_RDWR)
	return f.release()
}
