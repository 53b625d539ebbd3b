package ownership

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/wippyai/jbi-runtime/errors"
)

// Handle is one owner of a managed object. Every handle must be released
// exactly once; further releases of the same handle are no-ops. A handle
// may be moved between goroutines but not released concurrently with use.
type Handle[T Object] struct {
	cell     *cell
	v        T
	released atomic.Bool
}

// Get returns the object. It panics on a released handle.
func (h *Handle[T]) Get() T {
	h.mustBeLive("get")
	return h.v
}

// Share returns a new owner of the same allocation.
func (h *Handle[T]) Share() *Handle[T] {
	h.mustBeLive("share")
	if err := h.cell.acquire(); err != nil {
		panic(err)
	}
	return &Handle[T]{cell: h.cell, v: h.v}
}

// Release gives up this owner. Under a counting strategy the object is
// destroyed, on the calling goroutine, when its last owner releases.
func (h *Handle[T]) Release() {
	var dl DropList
	h.release(&dl)
	dl.drain()
}

func (h *Handle[T]) release(dl *DropList) {
	if h == nil || h.cell == nil {
		return
	}
	if !h.released.CompareAndSwap(false, true) {
		return
	}
	h.cell.drop(dl)
}

// Valid reports whether the handle is unreleased and its object not destroyed.
func (h *Handle[T]) Valid() bool {
	return h != nil && h.cell != nil && !h.released.Load() && !h.cell.destroyed.Load()
}

// ID returns the allocation id shared by all handles of the object.
func (h *Handle[T]) ID() uint64 {
	if h == nil || h.cell == nil {
		return 0
	}
	return h.cell.id
}

// Owners returns the current owner count of the allocation.
func (h *Handle[T]) Owners() int64 {
	if h == nil || h.cell == nil {
		return 0
	}
	return h.cell.owners.Load()
}

// Same reports whether both handles refer to the same allocation.
func (h *Handle[T]) Same(other Owner) bool {
	if h == nil || h.cell == nil || other == nil {
		return false
	}
	return h.cell == other.control()
}

func (h *Handle[T]) control() *cell {
	if h == nil {
		return nil
	}
	return h.cell
}

func (h *Handle[T]) String() string {
	if h == nil || h.cell == nil {
		return "handle(nil)"
	}
	return fmt.Sprintf("handle(%s#%d owners=%d)", h.cell.typeName, h.cell.id, h.cell.owners.Load())
}

func (h *Handle[T]) mustBeLive(op string) {
	if h == nil || h.cell == nil {
		panic("ownership: " + op + " on nil handle")
	}
	if h.released.Load() {
		panic("ownership: " + op + " on released handle " + h.String())
	}
}

// Upcast returns a new owner of h's object viewed as B. B must be
// implemented by D; the result shares h's control block.
func Upcast[B Object, D Object](h *Handle[D]) *Handle[B] {
	h.mustBeLive("upcast")
	b, ok := any(h.v).(B)
	if !ok {
		panic(fmt.Sprintf("ownership: %T does not implement %s", h.v, reflect.TypeFor[B]()))
	}
	if err := h.cell.acquire(); err != nil {
		panic(err)
	}
	return &Handle[B]{cell: h.cell, v: b}
}

// Downcast returns a new owner of h's object viewed as D, or a
// TypeMismatch error when the object's dynamic type is not D.
func Downcast[D Object, B Object](h *Handle[B]) (*Handle[D], error) {
	h.mustBeLive("downcast")
	d, ok := any(h.v).(D)
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseAlloc, fmt.Sprintf("%T", h.v), reflect.TypeFor[D]().String())
	}
	if err := h.cell.acquire(); err != nil {
		return nil, err
	}
	return &Handle[D]{cell: h.cell, v: d}, nil
}
