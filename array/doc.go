// Package array provides fixed-length, bounds-checked arrays allocated
// through the ownership kernel.
//
// The length of an array is fixed at construction and every access is
// range-checked; an index outside [0, Len()) yields a bounds failure and
// never touches storage.
//
//	h, err := array.New[int32](k, 4)
//	defer h.Release()
//
//	a := h.Get()
//	_ = a.Set(2, 42)
//	v, _ := a.Get(2) // 42
//
// Boolean arrays are a separate bit-packed type, Bool, which also accepts
// integer values of any width through SetFrom (nonzero is true).
//
// An array whose elements are handles owns them: destroying the array
// releases every element.
package array
