package runtime

import (
	"github.com/wippyai/jbi-runtime/array"
	"github.com/wippyai/jbi-runtime/lang"
	"github.com/wippyai/jbi-runtime/ownership"
)

// Args converts process arguments to the String[] passed to main. Each
// argument must be 7-bit ASCII; others fail with UnsupportedEncoding.
func (r *Runtime) Args(argv []string) (*ownership.Handle[*array.Array[*ownership.Handle[*lang.String]]], error) {
	h, err := array.New[*ownership.Handle[*lang.String]](r.kernel, len(argv))
	if err != nil {
		return nil, err
	}
	for i, arg := range argv {
		s, err := lang.FromNativeBytes([]byte(arg))
		if err != nil {
			h.Release()
			return nil, err
		}
		sh, err := ownership.Allocate(r.kernel, s)
		if err != nil {
			h.Release()
			return nil, err
		}
		_ = h.Get().Set(i, sh)
	}
	return h, nil
}
