package socket

import (
	"io"
	"net/netip"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	rterrors "github.com/wippyai/jbi-runtime/errors"
	"github.com/wippyai/jbi-runtime/ownership"
	"github.com/wippyai/jbi-runtime/stream"
)

// Conn is an accepted TCP connection.
type Conn struct {
	ownership.Base
	kernel   *ownership.Kernel
	fd       *fd
	listener *ownership.Handle[*Listener]
	remote   netip.AddrPort
}

// Remote returns the peer address.
func (c *Conn) Remote() netip.AddrPort {
	return c.remote
}

// Listener returns the handle to the listener that accepted c. It is
// invalid once c is closed.
func (c *Conn) Listener() *ownership.Handle[*Listener] {
	return c.listener
}

// Closed reports whether the connection has been closed.
func (c *Conn) Closed() bool {
	return c.fd.isClosed()
}

// OutputStream returns a new stream writing to the connection with the
// usual buffering rules. The stream owns the connection until it is closed
// or destroyed. Closing the stream flushes it but leaves the connection
// open; closing the connection makes further stream writes fail.
func (c *Conn) OutputStream() (*ownership.Handle[*stream.Stream], error) {
	if c.fd.isClosed() {
		return nil, rterrors.InvalidState(rterrors.PhaseSocket, "output stream", "closed")
	}
	owner, err := ownership.FromSelf(c)
	if err != nil {
		return nil, err
	}
	h, err := ownership.Allocate(c.kernel, stream.NewWriter(&connWriter{fd: c.fd, conn: owner}))
	if err != nil {
		owner.Release()
		return nil, err
	}
	return h, nil
}

// Read reads from the connection, blocking until data, EOF or an error.
func (c *Conn) Read(p []byte) (int, error) {
	if c.fd.isClosed() {
		return 0, rterrors.InvalidState(rterrors.PhaseSocket, "read", "closed")
	}
	if len(p) == 0 {
		return 0, nil
	}
	for {
		n, err := unix.Read(c.fd.n, p)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, ioError("read", err)
		}
		if n == 0 {
			return 0, io.EOF
		}
		return n, nil
	}
}

// Close closes the connection descriptor and drops the listener handle.
// Further calls do nothing.
func (c *Conn) Close() error {
	if c.fd.isClosed() {
		return nil
	}
	err := c.fd.release()
	c.listener.Release()
	Logger().Debug("connection closed", zap.Stringer("remote", c.remote))
	if err != nil {
		return ioError("close", err)
	}
	return nil
}

// Destroy closes the connection when its last owner releases it.
func (c *Conn) Destroy(dl *ownership.DropList) {
	if err := c.fd.release(); err != nil {
		Logger().Warn("close on destroy failed", zap.Stringer("remote", c.remote), zap.Error(err))
	}
	dl.Release(c.listener)
}

// Cleanup closes the descriptor if the collector reclaims an open connection.
func (c *Conn) Cleanup() func() {
	f := c.fd
	return func() { _ = f.release() }
}

// connWriter writes to a connection descriptor while it is open. It holds
// an owner of the connection until Close.
type connWriter struct {
	fd   *fd
	conn *ownership.Handle[*Conn]
}

func (w *connWriter) Write(p []byte) (int, error) {
	if w.fd.isClosed() {
		return 0, rterrors.InvalidState(rterrors.PhaseSocket, "write", "closed")
	}
	if err := stream.WriteFull(w.fd.n, p); err != nil {
		return 0, ioError("write", err)
	}
	return len(p), nil
}

// Close drops the writer's owner of the connection. The descriptor is left
// to the connection.
func (w *connWriter) Close() error {
	w.conn.Release()
	return nil
}
