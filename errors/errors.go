package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates which component raised the error
type Phase string

const (
	PhaseAlloc  Phase = "alloc"  // ownership kernel
	PhaseArray  Phase = "array"  // array access
	PhaseString Phase = "string" // string construction and conversion
	PhaseStream Phase = "stream" // buffered sinks
	PhaseSocket Phase = "socket" // listening and connected sockets
	PhaseLink   Phase = "link"   // native entry-point table
	PhaseConfig Phase = "config" // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindBounds              Kind = "bounds_failure"
	KindTypeMismatch        Kind = "type_mismatch"
	KindUnsupportedEncoding Kind = "unsupported_encoding"
	KindBind                Kind = "bind_failure"
	KindIO                  Kind = "io_failure"
	KindInvalidState        Kind = "invalid_state"
	KindNotFound            Kind = "not_found"
	KindInvalidInput        Kind = "invalid_input"
	KindRegistration        Kind = "registration"
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

// KindOf returns the kind of the outermost *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the operation path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the runtime type name involved
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the runtime taxonomy

// Bounds creates a bounds failure for an index outside [0, length)
func Bounds(phase Phase, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBounds,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// RangeBounds creates a bounds failure for a sub-range [off, off+n) of length
func RangeBounds(phase Phase, off, n, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBounds,
		Detail: fmt.Sprintf("range [%d, %d+%d) out of bounds (length %d)", off, off, n, length),
		Value:  off,
	}
}

// TypeMismatch creates a failed downcast error
func TypeMismatch(phase Phase, have, want string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Type:   have,
		Detail: fmt.Sprintf("cannot cast to %s", want),
	}
}

// UnsupportedEncoding creates an encoding conversion error
func UnsupportedEncoding(phase Phase, charset string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupportedEncoding,
		Type:   charset,
		Detail: detail,
	}
}

// Bind creates a bind/listen failure
func Bind(port int, cause error) *Error {
	return &Error{
		Phase:  PhaseSocket,
		Kind:   KindBind,
		Detail: fmt.Sprintf("bind 0.0.0.0:%d", port),
		Value:  port,
		Cause:  cause,
	}
}

// IO creates an I/O failure against a descriptor or sink
func IO(phase Phase, op string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Path:   []string{op},
		Detail: op + " failed",
		Cause:  cause,
	}
}

// InvalidState creates an error for an operation attempted in the wrong state
func InvalidState(phase Phase, op, state string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidState,
		Path:   []string{op},
		Detail: fmt.Sprintf("%s while %s", op, state),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration creates a native registration error
func Registration(symbol string, cause error) *Error {
	return &Error{
		Phase:  PhaseLink,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s", symbol),
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// MissingSymbolsError is returned when translated code references natives
// the runtime does not provide.
type MissingSymbolsError struct {
	// Readable, if set, renders a symbol for the message. Symbols it
	// returns unchanged are listed once.
	Readable func(symbol string) string
	Symbols  []string
}

func (e *MissingSymbolsError) Error() string {
	if len(e.Symbols) == 0 {
		return "[link] not_found: no symbols specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("missing %d native(s):", len(e.Symbols)))
	for _, s := range e.Symbols {
		b.WriteString("\n  - ")
		b.WriteString(s)
		if e.Readable == nil {
			continue
		}
		if readable := e.Readable(s); readable != s {
			b.WriteString(" (")
			b.WriteString(readable)
			b.WriteByte(')')
		}
	}
	return b.String()
}

// Is reports whether target matches this error type
func (e *MissingSymbolsError) Is(target error) bool {
	_, ok := target.(*MissingSymbolsError)
	return ok
}
