package wasmhost

import (
	"context"
	"encoding/binary"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/wippyai/jbi-runtime/errors"
	"github.com/wippyai/jbi-runtime/lang"
	"github.com/wippyai/jbi-runtime/runtime"
	"github.com/wippyai/jbi-runtime/symbol"
)

const printStreamClass = "java/io/PrintStream"

// ModuleName is the import module name guests use for System.out.
var ModuleName = symbol.MangleClass(printStreamClass)

// ExitFault is the exit code a guest is closed with when a native fails.
const ExitFault uint32 = 1

// Host exports the runtime's PrintStream natives to wasm guests.
type Host struct {
	rt      *runtime.Runtime
	logger  *zap.Logger
	exports []string
}

// New creates a host over rt.
func New(rt *runtime.Runtime) *Host {
	return &Host{
		rt:     rt,
		logger: rt.Logger().Named("wasmhost"),
	}
}

// Instantiate builds the host module into r. Natives whose parameters have
// no wasm mapping, or that return a value, are skipped.
func (h *Host) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	builder := r.NewHostModuleBuilder(ModuleName)

	h.exports = h.exports[:0]
	for _, n := range h.rt.Natives().Entries() {
		if n.Class != printStreamClass || n.Static || !n.Descriptor.Return.IsVoid() {
			continue
		}
		params, ok := wasmParams(n.Descriptor)
		if !ok {
			h.logger.Debug("skipping native", zap.Stringer("native", n))
			continue
		}
		builder.NewFunctionBuilder().
			WithGoModuleFunction(h.handler(n), params, nil).
			WithName(n.String()).
			Export(n.Symbol)
		h.exports = append(h.exports, n.Symbol)
	}

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLink, errors.KindRegistration, err, "instantiate "+ModuleName)
	}
	h.logger.Debug("host module ready",
		zap.String("module", ModuleName),
		zap.Int("exports", len(h.exports)))
	return mod, nil
}

// Exports returns the names exported by the last Instantiate.
func (h *Host) Exports() []string {
	return append([]string(nil), h.exports...)
}

func wasmParams(d symbol.Descriptor) ([]api.ValueType, bool) {
	var params []api.ValueType
	for _, p := range d.Params {
		if p.Dims > 0 {
			return nil, false
		}
		switch p.Base {
		case 'I', 'S', 'B', 'C', 'Z':
			params = append(params, api.ValueTypeI32)
		case 'J':
			params = append(params, api.ValueTypeI64)
		case 'F':
			params = append(params, api.ValueTypeF32)
		case 'D':
			params = append(params, api.ValueTypeF64)
		case 'L':
			if p.Class != "java/lang/String" {
				return nil, false
			}
			params = append(params, api.ValueTypeI32, api.ValueTypeI32)
		default:
			return nil, false
		}
	}
	return params, true
}

func (h *Host) handler(n *symbol.Native) api.GoModuleFunc {
	return func(ctx context.Context, caller api.Module, stack []uint64) {
		args, err := decodeArgs(caller, n.Descriptor, stack)
		if err == nil {
			_, err = n.Call(append([]any{h.rt.Out()}, args...)...)
		}
		if err != nil {
			h.logger.Warn("native failed",
				zap.Stringer("native", n),
				zap.String("caller", caller.Name()),
				zap.Error(err))
			_ = caller.CloseWithExitCode(ctx, ExitFault)
			// Unwind the guest; nothing may run after the module closed.
			panic(sys.NewExitError(ExitFault))
		}
	}
}

func decodeArgs(caller api.Module, d symbol.Descriptor, stack []uint64) ([]any, error) {
	args := make([]any, 0, len(d.Params))
	i := 0
	for _, p := range d.Params {
		switch p.Base {
		case 'I', 'S', 'B':
			args = append(args, api.DecodeI32(stack[i]))
		case 'C':
			args = append(args, uint16(stack[i]))
		case 'Z':
			args = append(args, uint32(stack[i]) != 0)
		case 'J':
			args = append(args, int64(stack[i]))
		case 'F':
			args = append(args, api.DecodeF32(stack[i]))
		case 'D':
			args = append(args, api.DecodeF64(stack[i]))
		case 'L':
			s, err := readString(caller, api.DecodeU32(stack[i]), api.DecodeU32(stack[i+1]))
			if err != nil {
				return nil, err
			}
			args = append(args, s)
			i++
		}
		i++
	}
	return args, nil
}

// readString copies n UTF-16LE code units at ptr out of the guest memory.
func readString(caller api.Module, ptr, n uint32) (*lang.String, error) {
	mem := caller.Memory()
	if mem == nil {
		return nil, errors.InvalidState(errors.PhaseString, "read guest string", "guest exports no memory")
	}
	if uint64(n)*2 > uint64(mem.Size()) {
		return nil, errors.RangeBounds(errors.PhaseString, int(ptr), int(n)*2, int(mem.Size()))
	}
	data, ok := mem.Read(ptr, n*2)
	if !ok {
		return nil, errors.RangeBounds(errors.PhaseString, int(ptr), int(n)*2, int(mem.Size()))
	}
	units := make([]uint16, n)
	for j := range units {
		units[j] = binary.LittleEndian.Uint16(data[2*j:])
	}
	return lang.New(units, len(units))
}
