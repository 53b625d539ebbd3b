package symbol

import (
	stderrors "errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"sync"

	"github.com/wippyai/jbi-runtime/errors"
)

var errorType = reflect.TypeFor[error]()

// Native is one registered entry point.
type Native struct {
	Fn         reflect.Value
	Class      string
	Method     string
	Descriptor Descriptor
	// Symbol is the encoded entry-point name, without the class.
	Symbol string
	// Key is the table key, see Qualify.
	Key string
	// Static is false when Fn takes the receiver as its first parameter.
	Static bool
}

// String returns the readable JVM form, e.g. "java/io/PrintStream.println(I)V".
func (n *Native) String() string {
	return n.Class + "." + n.Method + n.Descriptor.String()
}

// Table holds the natives provided by the runtime. It is safe for
// concurrent use.
type Table struct {
	natives map[string]*Native
	mu      sync.RWMutex
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{natives: make(map[string]*Native)}
}

// Register adds fn as the native for class.method with descriptor desc.
// fn takes the descriptor's parameters, preceded by the receiver for
// instance methods, and returns the descriptor's result (nothing for void),
// optionally followed by an error. Constructors (<init>) take only the
// descriptor's parameters and return the new object.
func (t *Table) Register(class, method, desc string, fn any) error {
	d, err := ParseDescriptor(desc)
	if err != nil {
		return errors.Registration(class+"."+method+desc, err)
	}
	key := MangleClass(class) + "::" + MangleDescriptor(method, d)

	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return errors.Registration(key, stderrors.New("native must be a function"))
	}
	static, err := checkSignature(rv.Type(), d, method == "<init>")
	if err != nil {
		return errors.Registration(key, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, dup := t.natives[key]; dup {
		return errors.Registration(key, stderrors.New("already registered"))
	}
	t.natives[key] = &Native{
		Fn:         rv,
		Class:      class,
		Method:     method,
		Descriptor: d,
		Symbol:     MangleDescriptor(method, d),
		Key:        key,
		Static:     static,
	}
	return nil
}

func checkSignature(ft reflect.Type, d Descriptor, ctor bool) (static bool, err error) {
	if ft.IsVariadic() {
		return false, stderrors.New("variadic natives are not supported")
	}

	argc := len(d.Params)
	if ctor {
		if ft.NumIn() != argc {
			return false, fmt.Errorf("constructor takes %d parameters, descriptor has %d", ft.NumIn(), argc)
		}
		outs := ft.NumOut()
		if outs > 0 && ft.Out(outs-1) == errorType {
			outs--
		}
		if outs != 1 {
			return false, stderrors.New("constructor must return the new object")
		}
		return true, nil
	}

	switch ft.NumIn() {
	case argc:
		static = true
	case argc + 1:
		static = false
	default:
		return false, fmt.Errorf("function takes %d parameters, descriptor has %d", ft.NumIn(), argc)
	}

	outs := ft.NumOut()
	if outs > 0 && ft.Out(outs-1) == errorType {
		outs--
	}
	want := 1
	if d.Return.IsVoid() {
		want = 0
	}
	if outs != want {
		return false, fmt.Errorf("function returns %d values, descriptor wants %d", outs, want)
	}
	return static, nil
}

// Lookup returns the native registered for class.method with desc.
func (t *Table) Lookup(class, method, desc string) (*Native, bool) {
	return t.LookupKey(Qualify(class, method, desc))
}

// LookupKey returns the native registered under a Qualify key.
func (t *Table) LookupKey(key string) (*Native, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.natives[key]
	return n, ok
}

// Invoke calls the native registered under key. It returns the native's
// result, or nil for void natives.
func (t *Table) Invoke(key string, args ...any) (any, error) {
	n, ok := t.LookupKey(key)
	if !ok {
		return nil, errors.NotFound(errors.PhaseLink, "native", key)
	}
	return n.Call(args...)
}

// Call invokes the native with args.
func (n *Native) Call(args ...any) (any, error) {
	ft := n.Fn.Type()
	if len(args) != ft.NumIn() {
		return nil, errors.New(errors.PhaseLink, errors.KindInvalidInput).
			Path(n.Key).
			Detail("%s takes %d arguments, got %d", n, ft.NumIn(), len(args)).
			Build()
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		pt := ft.In(i)
		if a == nil {
			switch pt.Kind() {
			case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
				in[i] = reflect.Zero(pt)
				continue
			}
			return nil, errors.TypeMismatch(errors.PhaseLink, "nil", pt.String())
		}
		av := reflect.ValueOf(a)
		switch {
		case av.Type().AssignableTo(pt):
			in[i] = av
		case isNumeric(av.Kind()) && isNumeric(pt.Kind()) && fits(av, pt):
			in[i] = av.Convert(pt)
		default:
			return nil, errors.New(errors.PhaseLink, errors.KindTypeMismatch).
				Path(n.Key).
				Type(av.Type().String()).
				Value(i).
				Detail("argument %d: cannot cast to %s", i, pt).
				Build()
		}
	}

	out := n.Fn.Call(in)
	if len(out) > 0 && ft.Out(len(out)-1) == errorType {
		if e := out[len(out)-1]; !e.IsNil() {
			return nil, e.Interface().(error)
		}
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}

func isNumeric(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Float64
}

func isInt(k reflect.Kind) bool   { return k >= reflect.Int && k <= reflect.Int64 }
func isUint(k reflect.Kind) bool  { return k >= reflect.Uint && k <= reflect.Uintptr }
func isFloat(k reflect.Kind) bool { return k == reflect.Float32 || k == reflect.Float64 }

// fits reports whether the numeric value v converts to t without changing
// its value range. Floats never convert to integers; integers widen to
// floats.
func fits(v reflect.Value, t reflect.Type) bool {
	dst := reflect.New(t).Elem()
	src := v.Kind()
	switch k := t.Kind(); {
	case isInt(k):
		switch {
		case isInt(src):
			return !dst.OverflowInt(v.Int())
		case isUint(src):
			return v.Uint() <= math.MaxInt64 && !dst.OverflowInt(int64(v.Uint()))
		}
	case isUint(k):
		switch {
		case isInt(src):
			return v.Int() >= 0 && !dst.OverflowUint(uint64(v.Int()))
		case isUint(src):
			return !dst.OverflowUint(v.Uint())
		}
	case isFloat(k):
		switch {
		case isFloat(src):
			return !dst.OverflowFloat(v.Float())
		case isInt(src), isUint(src):
			return true
		}
	}
	return false
}

// Entries returns every native, ordered by key.
func (t *Table) Entries() []*Native {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*Native, 0, len(t.natives))
	for _, n := range t.natives {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Len returns the number of natives.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.natives)
}

// Missing returns the keys among want that have no native, as an error.
func (t *Table) Missing(want ...string) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var missing []string
	for _, k := range want {
		if _, ok := t.natives[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &errors.MissingSymbolsError{Symbols: missing, Readable: Demangle}
}
