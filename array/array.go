package array

import (
	"reflect"

	"github.com/wippyai/jbi-runtime/errors"
	"github.com/wippyai/jbi-runtime/ownership"
)

var ownerType = reflect.TypeFor[ownership.Owner]()

// Array is a fixed-length sequence of T.
type Array[T any] struct {
	ownership.Base
	elems  []T
	owning bool
}

// New allocates a zero-initialised array of length n.
func New[T any](k *ownership.Kernel, n int) (*ownership.Handle[*Array[T]], error) {
	if n < 0 {
		return nil, errors.New(errors.PhaseArray, errors.KindBounds).
			Path("new").
			Value(n).
			Detail("negative array length %d", n).
			Build()
	}
	return ownership.Allocate(k, newArray[T](make([]T, n)))
}

// Of allocates an array holding a copy of vals.
func Of[T any](k *ownership.Kernel, vals ...T) (*ownership.Handle[*Array[T]], error) {
	elems := make([]T, len(vals))
	copy(elems, vals)
	return ownership.Allocate(k, newArray(elems))
}

func newArray[T any](elems []T) *Array[T] {
	t := reflect.TypeFor[T]()
	return &Array[T]{
		elems:  elems,
		owning: t.Implements(ownerType) || t.Kind() == reflect.Interface,
	}
}

// Len returns the fixed length of the array.
func (a *Array[T]) Len() int {
	return len(a.elems)
}

// Get returns the element at i.
func (a *Array[T]) Get(i int) (T, error) {
	if i < 0 || i >= len(a.elems) {
		var zero T
		return zero, errors.Bounds(errors.PhaseArray, i, len(a.elems))
	}
	return a.elems[i], nil
}

// Set stores v at i. When the array owns handles, the handle previously
// stored at i is the caller's to release.
func (a *Array[T]) Set(i int, v T) error {
	if i < 0 || i >= len(a.elems) {
		return errors.Bounds(errors.PhaseArray, i, len(a.elems))
	}
	a.elems[i] = v
	return nil
}

// Slice returns the backing storage for bulk reads such as stream writes.
// Callers must not retain it past the array's lifetime or change its length.
func (a *Array[T]) Slice() []T {
	return a.elems
}

// CopyRange returns a copy of the n elements starting at off.
func (a *Array[T]) CopyRange(off, n int) ([]T, error) {
	if off < 0 || n < 0 || off > len(a.elems)-n {
		return nil, errors.RangeBounds(errors.PhaseArray, off, n, len(a.elems))
	}
	out := make([]T, n)
	copy(out, a.elems[off:off+n])
	return out, nil
}

// Destroy releases element handles.
func (a *Array[T]) Destroy(dl *ownership.DropList) {
	if a.owning {
		for i := range a.elems {
			if o, ok := any(a.elems[i]).(ownership.Owner); ok {
				dl.Release(o)
			}
		}
	}
	a.elems = nil
}
