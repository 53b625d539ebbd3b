package stream

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"

	jbi "github.com/wippyai/jbi-runtime"
)

var (
	stdout     *Stream
	stdoutOnce sync.Once
)

// Stdout returns the process-wide stream bound to standard output. It is
// created on first use and never torn down; Close on it does nothing.
// Callers sharing it across goroutines must serialize access.
func Stdout() *Stream {
	stdoutOnce.Do(func() {
		stdout = newStream(stdoutBinding{})
	})
	return stdout
}

type stdoutBinding struct{}

func (stdoutBinding) write(p []byte) error {
	_, err := os.Stdout.Write(p)
	return err
}

func (stdoutBinding) flush() error     { return nil }
func (stdoutBinding) close() error     { return nil }
func (stdoutBinding) persistent() bool { return true }
func (stdoutBinding) kind() string     { return "stdout" }

// descriptor is a raw file or socket descriptor.
type descriptor struct {
	fd     int
	closed atomic.Bool
}

func (d *descriptor) release() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	return unix.Close(d.fd)
}

type fdBinding struct {
	d     *descriptor
	owned bool
}

// NewDescriptor returns a stream writing to fd. The stream owns fd and
// closes it on Close.
func NewDescriptor(fd int) *Stream {
	return newStream(&fdBinding{d: &descriptor{fd: fd}, owned: true})
}

// NewBorrowedDescriptor returns a stream writing to fd without taking
// ownership of it. Close flushes but leaves fd open.
func NewBorrowedDescriptor(fd int) *Stream {
	return newStream(&fdBinding{d: &descriptor{fd: fd}})
}

func (b *fdBinding) write(p []byte) error {
	return WriteFull(b.d.fd, p)
}

func (b *fdBinding) flush() error { return nil }

func (b *fdBinding) close() error {
	if !b.owned {
		return nil
	}
	return b.d.release()
}

func (b *fdBinding) persistent() bool { return false }
func (b *fdBinding) kind() string     { return "fd" }

func (b *fdBinding) cleanup() func() {
	if !b.owned {
		return nil
	}
	d := b.d
	return func() { _ = d.release() }
}

// WriteFull writes all of p to fd, retrying partial and interrupted writes.
func WriteFull(fd int, p []byte) error {
	for len(p) > 0 {
		n, err := unix.Write(fd, p)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}

type chainedBinding struct {
	inner *Stream
}

// NewChained returns a stream that drains into inner. The new stream owns
// inner: flushing it flushes inner and closing it closes inner.
func NewChained(inner *Stream) *Stream {
	return newStream(&chainedBinding{inner: inner})
}

func (b *chainedBinding) write(p []byte) error {
	return b.inner.write(p)
}

func (b *chainedBinding) flush() error     { return b.inner.Flush() }
func (b *chainedBinding) close() error     { return b.inner.Close() }
func (b *chainedBinding) persistent() bool { return false }
func (b *chainedBinding) kind() string     { return "chained" }

// cleanup reclaims whatever the inner stream owns.
func (b *chainedBinding) cleanup() func() {
	return b.inner.Cleanup()
}

type writerBinding struct {
	w jbi.Sink
}

// NewWriter returns a stream draining into w. Close closes w when it is an
// io.Closer; Flush forwards to w when it has a Flush method.
func NewWriter(w jbi.Sink) *Stream {
	return newStream(&writerBinding{w: w})
}

func (b *writerBinding) write(p []byte) error {
	_, err := b.w.Write(p)
	return err
}

func (b *writerBinding) flush() error {
	if f, ok := b.w.(jbi.Flusher); ok {
		return f.Flush()
	}
	return nil
}

func (b *writerBinding) close() error {
	if err := b.flush(); err != nil {
		return err
	}
	if c, ok := b.w.(jbi.Closer); ok {
		return c.Close()
	}
	return nil
}

func (b *writerBinding) persistent() bool { return false }
func (b *writerBinding) kind() string     { return "writer" }
