// Package errors provides structured error types for the jbi runtime.
//
// Errors are categorized by Phase (which component raised it) and Kind
// (the failure category translated code can react to). Every recoverable
// runtime failure is returned as an *Error; nothing in the runtime aborts the
// process on behalf of the caller.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseArray, errors.KindBounds).
//		Path("int[]", "get").
//		Value(12).
//		Detail("index %d out of bounds (length %d)", 12, 4).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Bounds(errors.PhaseArray, 12, 4)
//	err := errors.InvalidState(errors.PhaseStream, "write", "closed")
//
// All errors implement the standard error interface and support errors.Is/As.
// IsKind matches on Kind alone, regardless of phase.
package errors
