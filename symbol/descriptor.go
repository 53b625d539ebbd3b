package symbol

import (
	"strings"

	"github.com/wippyai/jbi-runtime/errors"
)

// Type is one field type of a method descriptor.
type Type struct {
	// Class is the slash-separated class name for object types.
	Class string
	// Dims is the number of array dimensions.
	Dims int
	// Base is the descriptor letter: one of BCDFIJSZV, or L for objects.
	Base byte
}

// String returns the descriptor form of t.
func (t Type) String() string {
	var b strings.Builder
	for i := 0; i < t.Dims; i++ {
		b.WriteByte('[')
	}
	b.WriteByte(t.Base)
	if t.Base == 'L' {
		b.WriteString(t.Class)
		b.WriteByte(';')
	}
	return b.String()
}

// IsVoid reports whether t is the void return type.
func (t Type) IsVoid() bool {
	return t.Base == 'V' && t.Dims == 0
}

// Descriptor is a parsed method descriptor.
type Descriptor struct {
	Params []Type
	Return Type
}

// String returns the descriptor in JVM form.
func (d Descriptor) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range d.Params {
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	b.WriteString(d.Return.String())
	return b.String()
}

// ParseDescriptor parses a method descriptor such as "(I[Ljava/lang/String;)V".
func ParseDescriptor(desc string) (Descriptor, error) {
	if len(desc) < 3 || desc[0] != '(' {
		return Descriptor{}, badDescriptor(desc, "missing parameter list")
	}

	var d Descriptor
	i := 1
	for i < len(desc) && desc[i] != ')' {
		t, next, err := parseType(desc, i, false)
		if err != nil {
			return Descriptor{}, err
		}
		d.Params = append(d.Params, t)
		i = next
	}
	if i >= len(desc) {
		return Descriptor{}, badDescriptor(desc, "unterminated parameter list")
	}

	t, next, err := parseType(desc, i+1, true)
	if err != nil {
		return Descriptor{}, err
	}
	if next != len(desc) {
		return Descriptor{}, badDescriptor(desc, "trailing characters after return type")
	}
	d.Return = t
	return d, nil
}

func parseType(desc string, i int, ret bool) (Type, int, error) {
	var t Type
	for i < len(desc) && desc[i] == '[' {
		t.Dims++
		i++
	}
	if i >= len(desc) {
		return t, i, badDescriptor(desc, "truncated type")
	}

	switch c := desc[i]; c {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		t.Base = c
		return t, i + 1, nil
	case 'V':
		if !ret || t.Dims > 0 {
			return t, i, badDescriptor(desc, "void is only valid as a return type")
		}
		t.Base = c
		return t, i + 1, nil
	case 'L':
		end := strings.IndexByte(desc[i:], ';')
		if end <= 1 {
			return t, i, badDescriptor(desc, "unterminated class name")
		}
		t.Base = 'L'
		t.Class = desc[i+1 : i+end]
		return t, i + end + 1, nil
	default:
		return t, i, badDescriptor(desc, "unknown type "+string(c))
	}
}

// ArgCount returns the number of parameters in desc.
func ArgCount(desc string) (int, error) {
	d, err := ParseDescriptor(desc)
	if err != nil {
		return 0, err
	}
	return len(d.Params), nil
}

func badDescriptor(desc, detail string) *errors.Error {
	return errors.New(errors.PhaseLink, errors.KindInvalidInput).
		Path("descriptor").
		Value(desc).
		Detail("%s in %q", detail, desc).
		Build()
}
