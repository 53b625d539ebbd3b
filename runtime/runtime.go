package runtime

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/jbi-runtime/config"
	"github.com/wippyai/jbi-runtime/errors"
	"github.com/wippyai/jbi-runtime/ownership"
	"github.com/wippyai/jbi-runtime/stream"
	"github.com/wippyai/jbi-runtime/symbol"
)

// Runtime is what translated programs run against: one ownership kernel,
// System.out and the natives table. Close it when the program ends.
type Runtime struct {
	kernel   *ownership.Kernel
	out      *stream.PrintStream
	natives  *symbol.Table
	logger   *zap.Logger
	observer *logObserver
	cfg      config.Config
}

type options struct {
	stdout io.Writer
	logger *zap.Logger
}

// Option configures a Runtime.
type Option func(*options)

// WithStdout directs System.out to w instead of the process's standard output.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// WithLogger sets the logger for the runtime and its kernel.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New creates a runtime from cfg.
func New(cfg config.Config, opts ...Option) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	strategy, err := cfg.Strategy()
	if err != nil {
		return nil, err
	}

	r := &Runtime{
		kernel:  ownership.NewKernel(ownership.WithStrategy(strategy), ownership.WithLogger(o.logger)),
		natives: symbol.NewTable(),
		logger:  o.logger,
		cfg:     cfg,
	}

	out := stream.Stdout()
	if o.stdout != nil {
		out = stream.NewWriter(o.stdout)
	}
	r.out = stream.NewPrintStream(out)

	if err := r.registerNatives(); err != nil {
		return nil, errors.Wrap(errors.PhaseLink, errors.KindRegistration, err, "register natives")
	}

	if r.logger.Core().Enabled(zapcore.DebugLevel) {
		r.observer = &logObserver{logger: r.logger}
		r.kernel.Subscribe(r.observer)
	}

	r.logger.Debug("runtime ready",
		zap.Stringer("strategy", strategy),
		zap.Int("natives", r.natives.Len()))
	return r, nil
}

// Kernel returns the ownership kernel.
func (r *Runtime) Kernel() *ownership.Kernel {
	return r.kernel
}

// Out returns System.out.
func (r *Runtime) Out() *stream.PrintStream {
	return r.out
}

// Natives returns the natives table.
func (r *Runtime) Natives() *symbol.Table {
	return r.natives
}

// Config returns the configuration the runtime was built from.
func (r *Runtime) Config() config.Config {
	return r.cfg
}

// Logger returns the runtime's logger.
func (r *Runtime) Logger() *zap.Logger {
	return r.logger
}

// Call invokes the native registered under key (see symbol.Qualify).
func (r *Runtime) Call(key string, args ...any) (any, error) {
	return r.natives.Invoke(key, args...)
}

// CallMethod invokes the native for class.method with descriptor desc.
func (r *Runtime) CallMethod(class, method, desc string, args ...any) (any, error) {
	return r.natives.Invoke(symbol.Qualify(class, method, desc), args...)
}

// Close flushes System.out and detaches the runtime's observers. Objects
// still owned by the program are not released.
func (r *Runtime) Close() error {
	if r.observer != nil {
		r.kernel.Unsubscribe(r.observer)
		r.observer = nil
	}
	st := r.kernel.Stats()
	r.logger.Debug("runtime closed",
		zap.Uint64("allocated", st.Allocated),
		zap.Uint64("destroyed", st.Destroyed),
		zap.Uint64("collected", st.Collected),
		zap.Uint64("live", st.Live()))

	if r.out.Stream().State() == stream.Closed {
		return nil
	}
	return r.out.Flush()
}
