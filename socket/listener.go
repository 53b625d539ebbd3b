package socket

import (
	"net/netip"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	rterrors "github.com/wippyai/jbi-runtime/errors"
	"github.com/wippyai/jbi-runtime/ownership"
)

// Backlog is the listen queue length.
const Backlog = 32

// Listener is a bound, listening TCP endpoint.
type Listener struct {
	ownership.Base
	kernel *ownership.Kernel
	fd     *fd
	port   int
}

// Listen binds a TCP listener on 0.0.0.0:port. Port 0 picks a free port.
func Listen(k *ownership.Kernel, port int) (*ownership.Handle[*Listener], error) {
	if port < 0 || port > 0xffff {
		return nil, bindError(port, unix.EINVAL)
	}

	n, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, bindError(port, err)
	}
	f := &fd{n: n}

	if err := bindAndListen(n, port); err != nil {
		_ = f.release()
		return nil, bindError(port, err)
	}

	sa, err := unix.Getsockname(n)
	if err != nil {
		_ = f.release()
		return nil, bindError(port, err)
	}
	bound := port
	if in4, ok := sa.(*unix.SockaddrInet4); ok {
		bound = in4.Port
	}

	h, err := ownership.Allocate(k, &Listener{kernel: k, fd: f, port: bound})
	if err != nil {
		_ = f.release()
		return nil, err
	}
	Logger().Debug("listening", zap.Int("port", bound), zap.Int("fd", n))
	return h, nil
}

func bindAndListen(n, port int) error {
	if err := unix.SetsockoptInt(n, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return err
	}
	if err := unix.Bind(n, &unix.SockaddrInet4{Port: port}); err != nil {
		return err
	}
	return unix.Listen(n, Backlog)
}

// Port returns the bound port.
func (l *Listener) Port() int {
	return l.port
}

// Closed reports whether the listener has been closed.
func (l *Listener) Closed() bool {
	return l.fd.isClosed()
}

// Accept blocks until a connection arrives. The returned Conn holds a
// shared handle to l.
func (l *Listener) Accept() (*ownership.Handle[*Conn], error) {
	for {
		if l.fd.isClosed() {
			return nil, rterrors.InvalidState(rterrors.PhaseSocket, "accept", "closed")
		}
		n, sa, err := unix.Accept4(l.fd.n, unix.SOCK_CLOEXEC)
		switch err {
		case nil:
		case unix.EINTR, unix.ECONNABORTED:
			continue
		default:
			if l.fd.isClosed() {
				return nil, rterrors.InvalidState(rterrors.PhaseSocket, "accept", "closed")
			}
			return nil, ioError("accept", err)
		}

		return l.wrap(n, sa)
	}
}

func (l *Listener) wrap(n int, sa unix.Sockaddr) (*ownership.Handle[*Conn], error) {
	f := &fd{n: n}
	self, err := ownership.FromSelf(l)
	if err != nil {
		_ = f.release()
		return nil, err
	}

	c := &Conn{kernel: l.kernel, fd: f, listener: self}
	if in4, ok := sa.(*unix.SockaddrInet4); ok {
		c.remote = netip.AddrPortFrom(netip.AddrFrom4(in4.Addr), uint16(in4.Port))
	}

	h, err := ownership.Allocate(l.kernel, c)
	if err != nil {
		_ = f.release()
		self.Release()
		return nil, err
	}
	Logger().Debug("accepted", zap.Int("port", l.port), zap.Stringer("remote", c.remote), zap.Int("fd", n))
	return h, nil
}

// Close releases the listening descriptor. A goroutine blocked in Accept
// is woken with an InvalidState error. Accepted connections are unaffected.
func (l *Listener) Close() error {
	if l.fd.isClosed() {
		return nil
	}
	Logger().Debug("listener closed", zap.Int("port", l.port))
	if err := l.fd.shutdown(); err != nil {
		return ioError("close", err)
	}
	return nil
}

// Destroy closes the listener when its last owner releases it.
func (l *Listener) Destroy(*ownership.DropList) {
	if err := l.Close(); err != nil {
		Logger().Warn("close on destroy failed", zap.Int("port", l.port), zap.Error(err))
	}
}

// Cleanup closes the descriptor if the collector reclaims an open listener.
func (l *Listener) Cleanup() func() {
	f := l.fd
	return func() { _ = f.release() }
}
