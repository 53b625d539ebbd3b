package array

import (
	"golang.org/x/exp/constraints"

	"github.com/wippyai/jbi-runtime/errors"
	"github.com/wippyai/jbi-runtime/ownership"
)

// Bool is a fixed-length bit-packed boolean array.
type Bool struct {
	ownership.Base
	words []uint64
	n     int
}

// NewBool allocates an all-false boolean array of length n.
func NewBool(k *ownership.Kernel, n int) (*ownership.Handle[*Bool], error) {
	if n < 0 {
		return nil, errors.New(errors.PhaseArray, errors.KindBounds).
			Path("new", "boolean").
			Value(n).
			Detail("negative array length %d", n).
			Build()
	}
	return ownership.Allocate(k, &Bool{
		words: make([]uint64, (n+63)/64),
		n:     n,
	})
}

// Len returns the fixed length of the array.
func (a *Bool) Len() int {
	return a.n
}

// Get returns the element at i.
func (a *Bool) Get(i int) (bool, error) {
	if i < 0 || i >= a.n {
		return false, errors.Bounds(errors.PhaseArray, i, a.n)
	}
	return a.words[i>>6]&(1<<(uint(i)&63)) != 0, nil
}

// Set stores v at i.
func (a *Bool) Set(i int, v bool) error {
	if i < 0 || i >= a.n {
		return errors.Bounds(errors.PhaseArray, i, a.n)
	}
	mask := uint64(1) << (uint(i) & 63)
	if v {
		a.words[i>>6] |= mask
	} else {
		a.words[i>>6] &^= mask
	}
	return nil
}

// SetFrom stores an integer of any width at i, truncated to a boolean:
// zero is false, anything else is true.
func SetFrom[V constraints.Integer](a *Bool, i int, v V) error {
	return a.Set(i, v != 0)
}

// Bools returns a copy of the contents.
func (a *Bool) Bools() []bool {
	out := make([]bool, a.n)
	for i := range out {
		out[i] = a.words[i>>6]&(1<<(uint(i)&63)) != 0
	}
	return out
}
