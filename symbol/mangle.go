package symbol

import "strings"

// MangleClass encodes a slash-separated class name.
func MangleClass(class string) string {
	class = strings.ReplaceAll(class, "/", "_cs_")
	return strings.ReplaceAll(class, "$", "_dolsig_")
}

// MangleMethod encodes a method name; constructors and static
// initializers get identifier-safe names.
func MangleMethod(method string) string {
	switch method {
	case "<init>":
		return "_init_"
	case "<clinit>":
		return "_clinit_"
	default:
		return method
	}
}

// Mangle returns the native entry-point name of a method.
func Mangle(method, desc string) (string, error) {
	d, err := ParseDescriptor(desc)
	if err != nil {
		return "", err
	}
	return MangleDescriptor(method, d), nil
}

// MangleDescriptor returns the native entry-point name of a method with a
// parsed descriptor.
func MangleDescriptor(method string, d Descriptor) string {
	var b strings.Builder
	b.WriteString(MangleMethod(method))
	b.WriteString("_ne__ab_")
	for _, p := range d.Params {
		writeType(&b, p)
	}
	b.WriteString("ae_")
	writeType(&b, d.Return)
	return b.String()
}

func writeType(b *strings.Builder, t Type) {
	for i := 0; i < t.Dims; i++ {
		b.WriteString("_arr_")
	}
	if t.Base == 'L' {
		b.WriteString(MangleClass(t.Class))
		b.WriteString("_as_")
		return
	}
	b.WriteByte(t.Base)
}

// Qualify returns the table key of a native: the encoded class and the
// entry-point name joined by "::". Malformed descriptors yield "".
func Qualify(class, method, desc string) string {
	sym, err := Mangle(method, desc)
	if err != nil {
		return ""
	}
	return MangleClass(class) + "::" + sym
}

var demangler = strings.NewReplacer(
	"_ab_", "(",
	"ae_", ")",
	"_as_", ";",
	"_cs_", "/",
	"_arr_", "[",
	"_dolsig_", "$",
)

// Demangle renders an entry-point name in a readable, descriptor-like form
// for diagnostics: "println_ne__ab_java_cs_lang_cs_String_as_ae_V" becomes
// "println(java/lang/String;)V". The encoding drops the L of object types,
// so the result is not always a valid descriptor; use a Table entry for
// the exact one.
func Demangle(sym string) string {
	class, rest, qualified := strings.Cut(sym, "::")
	if !qualified {
		rest, class = sym, ""
	}
	method, desc, ok := strings.Cut(rest, "_ne_")
	if !ok || !strings.HasPrefix(desc, "_ab_") {
		return sym
	}
	switch method {
	case "_init_":
		method = "<init>"
	case "_clinit_":
		method = "<clinit>"
	}
	out := method + demangler.Replace(desc)
	if class != "" {
		out = demangler.Replace(class) + "." + out
	}
	return out
}
