package stream

import (
	"strconv"

	"github.com/wippyai/jbi-runtime/lang"
)

var crlf = []byte{'\r', '\n'}

// PrintStream formats values onto a Stream.
type PrintStream struct {
	out *Stream
}

// NewPrintStream returns a print layer over s.
func NewPrintStream(s *Stream) *PrintStream {
	return &PrintStream{out: s}
}

// Stream returns the underlying stream.
func (p *PrintStream) Stream() *Stream {
	return p.out
}

// Write writes p to the underlying stream without flushing.
func (p *PrintStream) Write(b []byte) (int, error) {
	return p.out.Write(b)
}

// Flush flushes the underlying stream.
func (p *PrintStream) Flush() error {
	return p.out.Flush()
}

// Close closes the underlying stream.
func (p *PrintStream) Close() error {
	return p.out.Close()
}

func (p *PrintStream) line(b []byte) error {
	if err := p.out.write(append(b, crlf...)); err != nil {
		return err
	}
	return p.out.Flush()
}

// PrintString writes s as UTF-8. A nil s prints "null".
func (p *PrintStream) PrintString(s *lang.String) error {
	return p.out.write(appendString(nil, s))
}

// PrintlnString writes s followed by CR LF and flushes.
func (p *PrintStream) PrintlnString(s *lang.String) error {
	return p.line(appendString(nil, s))
}

func appendString(dst []byte, s *lang.String) []byte {
	if s == nil {
		return append(dst, "null"...)
	}
	return appendUnits(dst, s.Units())
}

// PrintInt writes the decimal text of v.
func (p *PrintStream) PrintInt(v int32) error {
	var b [11]byte // "-2147483648"
	return p.out.write(strconv.AppendInt(b[:0], int64(v), 10))
}

// PrintlnInt writes the decimal text of v followed by CR LF and flushes.
func (p *PrintStream) PrintlnInt(v int32) error {
	var b [13]byte
	return p.line(strconv.AppendInt(b[:0], int64(v), 10))
}

// PrintLong writes the decimal text of v.
func (p *PrintStream) PrintLong(v int64) error {
	var b [20]byte // "-9223372036854775808"
	return p.out.write(strconv.AppendInt(b[:0], v, 10))
}

// PrintlnLong writes the decimal text of v followed by CR LF and flushes.
func (p *PrintStream) PrintlnLong(v int64) error {
	var b [22]byte
	return p.line(strconv.AppendInt(b[:0], v, 10))
}

// PrintFloat writes v as java.lang.Float.toString does.
func (p *PrintStream) PrintFloat(v float32) error {
	var b [32]byte
	return p.out.write(appendJavaFloat(b[:0], float64(v), 32))
}

// PrintlnFloat writes v followed by CR LF and flushes.
func (p *PrintStream) PrintlnFloat(v float32) error {
	var b [34]byte
	return p.line(appendJavaFloat(b[:0], float64(v), 32))
}

// PrintDouble writes v as java.lang.Double.toString does.
func (p *PrintStream) PrintDouble(v float64) error {
	var b [32]byte
	return p.out.write(appendJavaFloat(b[:0], v, 64))
}

// PrintlnDouble writes v followed by CR LF and flushes.
func (p *PrintStream) PrintlnDouble(v float64) error {
	var b [34]byte
	return p.line(appendJavaFloat(b[:0], v, 64))
}

// PrintChar writes one UTF-16 code unit as UTF-8. A lone surrogate prints '?'.
func (p *PrintStream) PrintChar(c uint16) error {
	var b [3]byte
	return p.out.write(appendUnits(b[:0], []uint16{c}))
}

// PrintlnChar writes c followed by CR LF and flushes.
func (p *PrintStream) PrintlnChar(c uint16) error {
	var b [5]byte
	return p.line(appendUnits(b[:0], []uint16{c}))
}

// PrintBool writes "true" or "false".
func (p *PrintStream) PrintBool(v bool) error {
	var b [5]byte
	return p.out.write(strconv.AppendBool(b[:0], v))
}

// PrintlnBool writes "true" or "false" followed by CR LF and flushes.
func (p *PrintStream) PrintlnBool(v bool) error {
	var b [7]byte
	return p.line(strconv.AppendBool(b[:0], v))
}

// Println writes CR LF and flushes.
func (p *PrintStream) Println() error {
	var b [2]byte
	return p.line(b[:0])
}
