package socket

import (
	"errors"
	"syscall"

	rterrors "github.com/wippyai/jbi-runtime/errors"
)

// describeErrno returns a short description of a socket errno.
func describeErrno(err error) string {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return "unknown error"
	}
	switch errno {
	case syscall.EACCES, syscall.EPERM:
		return "access denied"
	case syscall.EADDRINUSE:
		return "address in use"
	case syscall.EADDRNOTAVAIL:
		return "address not bindable"
	case syscall.ECONNRESET:
		return "connection reset"
	case syscall.ECONNABORTED:
		return "connection aborted"
	case syscall.EPIPE:
		return "broken pipe"
	case syscall.EBADF:
		return "bad descriptor"
	case syscall.EINVAL:
		return "invalid argument"
	case syscall.EMFILE, syscall.ENFILE:
		return "too many open files"
	case syscall.ENOBUFS, syscall.ENOMEM:
		return "out of memory"
	case syscall.ENOTSOCK:
		return "not a socket"
	case syscall.ENOTCONN:
		return "not connected"
	default:
		return errno.Error()
	}
}

func bindError(port int, err error) *rterrors.Error {
	e := rterrors.Bind(port, err)
	e.Path = []string{"listen"}
	e.Detail += ": " + describeErrno(err)
	return e
}

func ioError(op string, err error) *rterrors.Error {
	return rterrors.New(rterrors.PhaseSocket, rterrors.KindIO).
		Path(op).
		Cause(err).
		Detail("%s: %s", op, describeErrno(err)).
		Build()
}
