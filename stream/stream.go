package stream

import (
	"go.uber.org/zap"

	jbi "github.com/wippyai/jbi-runtime"
	"github.com/wippyai/jbi-runtime/errors"
	"github.com/wippyai/jbi-runtime/ownership"
)

var (
	_ jbi.OutputStream = (*Stream)(nil)
	_ jbi.OutputStream = (*PrintStream)(nil)
)

// State is the lifecycle state of a Stream.
type State uint8

const (
	Open State = iota
	Closed
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// binding is the sink a stream drains to.
type binding interface {
	// write delivers all of p or fails.
	write(p []byte) error
	// flush forwards a flush past the binding, after the buffer is drained.
	flush() error
	// close releases the sink. Pending bytes are already drained.
	close() error
	// persistent bindings ignore Close entirely.
	persistent() bool
	kind() string
}

// Stream is a buffered byte sink.
type Stream struct {
	ownership.Base
	sink   binding
	buf    Buffer
	drains int
	state  State
}

func newStream(b binding) *Stream {
	return &Stream{sink: b}
}

// State returns the stream's state.
func (s *Stream) State() State {
	return s.state
}

// Kind names the stream's binding: "stdout", "fd", "chained" or "writer".
func (s *Stream) Kind() string {
	return s.sink.kind()
}

// Buffered returns the number of bytes staged and not yet drained.
func (s *Stream) Buffered() int {
	return s.buf.Len()
}

// Drains returns how many times the buffer has been drained to the sink.
func (s *Stream) Drains() int {
	return s.drains
}

// WriteRange writes the n bytes of b starting at off.
func (s *Stream) WriteRange(b []byte, off, n int) error {
	if off < 0 || n < 0 || off > len(b)-n {
		return errors.RangeBounds(errors.PhaseStream, off, n, len(b))
	}
	return s.write(b[off : off+n])
}

// Write writes all of p. It implements io.Writer.
func (s *Stream) Write(p []byte) (int, error) {
	if err := s.write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteByte writes a single byte. It implements io.ByteWriter.
func (s *Stream) WriteByte(c byte) error {
	one := [1]byte{c}
	return s.write(one[:])
}

// WriteString writes the bytes of str.
func (s *Stream) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

func (s *Stream) write(p []byte) error {
	if s.state == Closed {
		return errors.InvalidState(errors.PhaseStream, "write", "closed")
	}
	if s.buf.Len()+len(p) >= Capacity {
		if err := s.drain(); err != nil {
			return err
		}
	}
	for len(p) > 0 {
		p = p[s.buf.Fill(p):]
		if s.buf.Full() {
			if err := s.drain(); err != nil {
				return err
			}
		}
	}
	return nil
}

// drain hands the pending bytes to the sink. The buffer is empty afterwards
// even when the sink fails.
func (s *Stream) drain() error {
	if s.buf.Len() == 0 {
		return nil
	}
	err := s.sink.write(s.buf.Pending())
	s.buf.Reset()
	s.drains++
	if err != nil {
		return errors.IO(errors.PhaseStream, "drain", err)
	}
	return nil
}

// Flush drains pending bytes to the sink.
func (s *Stream) Flush() error {
	if s.state == Closed {
		return errors.InvalidState(errors.PhaseStream, "flush", "closed")
	}
	if err := s.drain(); err != nil {
		return err
	}
	if err := s.sink.flush(); err != nil {
		return errors.IO(errors.PhaseStream, "flush", err)
	}
	return nil
}

// Close flushes pending bytes and releases the sink. Closing a closed
// stream does nothing. On Stdout, Close does nothing and the stream stays
// open.
func (s *Stream) Close() error {
	if s.state == Closed || s.sink.persistent() {
		return nil
	}
	s.state = Closed

	err := s.drain()
	if cerr := s.sink.close(); cerr != nil && err == nil {
		err = errors.IO(errors.PhaseStream, "close", cerr)
	}
	return err
}

// Destroy closes the stream when its last owner releases it.
func (s *Stream) Destroy(*ownership.DropList) {
	if err := s.Close(); err != nil {
		Logger().Warn("close on destroy failed", zap.String("binding", s.Kind()), zap.Error(err))
	}
}

// Cleanup returns the release function for an owned descriptor, used when
// the collector reclaims a stream that was never closed. Pending bytes are
// lost in that case.
func (s *Stream) Cleanup() func() {
	if c, ok := s.sink.(interface{ cleanup() func() }); ok {
		return c.cleanup()
	}
	return nil
}
