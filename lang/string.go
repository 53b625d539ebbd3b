package lang

import (
	"unicode/utf16"

	"github.com/wippyai/jbi-runtime/errors"
	"github.com/wippyai/jbi-runtime/ownership"
)

// String is an immutable sequence of UTF-16 code units.
type String struct {
	ownership.Base
	units []uint16 // terminator included
}

var empty = []uint16{0}

// New builds a String from the first length units of buf. When the last
// of those units is non-zero a terminator is appended; when it is already
// zero it is taken as the terminator and excluded from Len.
func New(buf []uint16, length int) (*String, error) {
	if length < 0 || length > len(buf) {
		return nil, errors.RangeBounds(errors.PhaseString, 0, length, len(buf))
	}
	if length == 0 {
		return &String{units: empty}, nil
	}

	n := length
	if buf[length-1] != 0 {
		n++
	}
	units := make([]uint16, n)
	copy(units, buf[:length])
	return &String{units: units}, nil
}

// FromNullTerminated builds a String from buf up to its first zero unit.
// A buffer without any zero unit is taken whole.
func FromNullTerminated(buf []uint16) *String {
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	units := make([]uint16, n+1)
	copy(units, buf[:n])
	return &String{units: units}
}

// FromGoString encodes a Go string as UTF-16.
func FromGoString(s string) *String {
	return FromRunes([]rune(s))
}

// FromRunes encodes runes as UTF-16.
func FromRunes(r []rune) *String {
	if len(r) == 0 {
		return &String{units: empty}
	}
	return &String{units: append(utf16.Encode(r), 0)}
}

// Len returns the number of code units, excluding the terminator.
func (s *String) Len() int {
	return len(s.units) - 1
}

// Buffer returns a copy of the code units including the terminator.
func (s *String) Buffer() []uint16 {
	out := make([]uint16, len(s.units))
	copy(out, s.units)
	return out
}

// Units returns the code units without the terminator. The slice aliases
// the String's storage and must not be modified.
func (s *String) Units() []uint16 {
	return s.units[:len(s.units)-1]
}

// CharAt returns the code unit at i.
func (s *String) CharAt(i int) (uint16, error) {
	if i < 0 || i >= s.Len() {
		return 0, errors.Bounds(errors.PhaseString, i, s.Len())
	}
	return s.units[i], nil
}

// Equal reports whether both strings hold the same code units.
func (s *String) Equal(o *String) bool {
	if s == nil || o == nil {
		return s == o
	}
	if len(s.units) != len(o.units) {
		return false
	}
	for i := range s.units {
		if s.units[i] != o.units[i] {
			return false
		}
	}
	return true
}

// Concat returns a new String holding s followed by o.
func (s *String) Concat(o *String) *String {
	a, b := s.Units(), o.Units()
	if len(a)+len(b) == 0 {
		return &String{units: empty}
	}
	units := make([]uint16, len(a)+len(b)+1)
	copy(units, a)
	copy(units[len(a):], b)
	return &String{units: units}
}

// Hash returns the string hash defined by java.lang.String.hashCode.
func (s *String) Hash() int32 {
	var h int32
	for _, u := range s.Units() {
		h = 31*h + int32(u)
	}
	return h
}

// String decodes the code units to a Go string. Unpaired surrogates
// become U+FFFD.
func (s *String) String() string {
	if s == nil {
		return "null"
	}
	return string(utf16.Decode(s.Units()))
}
