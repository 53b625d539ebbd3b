package ownership

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/jbi-runtime/errors"
)

// Kernel allocates objects and accounts for their owners.
// A Kernel is safe for concurrent use.
type Kernel struct {
	logger    *zap.Logger
	observers []Observer
	obsMu     sync.RWMutex
	nextID    atomic.Uint64
	allocated atomic.Uint64
	shared    atomic.Uint64
	released  atomic.Uint64
	destroyed atomic.Uint64
	collected atomic.Uint64
	strategy  Strategy
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithStrategy overrides DefaultStrategy.
func WithStrategy(s Strategy) Option {
	return func(k *Kernel) {
		k.strategy = s
	}
}

// WithLogger sets the kernel's logger. Defaults to the package Logger().
func WithLogger(l *zap.Logger) Option {
	return func(k *Kernel) {
		if l != nil {
			k.logger = l
		}
	}
}

// NewKernel creates a kernel.
func NewKernel(opts ...Option) *Kernel {
	k := &Kernel{
		strategy: DefaultStrategy,
		logger:   Logger(),
	}
	for _, opt := range opts {
		opt(k)
	}
	if k.strategy < RefCount || k.strategy > Combined {
		k.strategy = DefaultStrategy
	}
	return k
}

// Strategy returns the kernel's reclamation strategy.
func (k *Kernel) Strategy() Strategy {
	return k.strategy
}

// Stats returns a snapshot of the kernel's counters.
func (k *Kernel) Stats() Stats {
	return Stats{
		Allocated: k.allocated.Load(),
		Shared:    k.shared.Load(),
		Released:  k.released.Load(),
		Destroyed: k.destroyed.Load(),
		Collected: k.collected.Load(),
	}
}

// Subscribe adds an observer for lifecycle events.
func (k *Kernel) Subscribe(o Observer) {
	k.obsMu.Lock()
	defer k.obsMu.Unlock()
	k.observers = append(k.observers, o)
}

// Unsubscribe removes an observer.
func (k *Kernel) Unsubscribe(o Observer) {
	k.obsMu.Lock()
	defer k.obsMu.Unlock()
	for i, obs := range k.observers {
		if obs == o {
			k.observers = append(k.observers[:i], k.observers[i+1:]...)
			return
		}
	}
}

func (k *Kernel) notify(e Event) {
	k.obsMu.RLock()
	defer k.obsMu.RUnlock()
	for _, o := range k.observers {
		o.OnOwnershipEvent(e)
	}
}

// cell is the control block shared by every handle of one allocation.
type cell struct {
	kernel    *Kernel
	obj       Object
	typeName  string
	cleanup   runtime.Cleanup
	id        uint64
	owners    atomic.Int64
	destroyed atomic.Bool
	tracked   bool
}

// reclaim is the collector cleanup argument. It must not reach the object.
type reclaim struct {
	release  func()
	typeName string
	id       uint64
}

// Allocate places v under the kernel's management and returns its first owner.
func Allocate[T Object](k *Kernel, v T) (*Handle[T], error) {
	if isNil(v) {
		return nil, errors.InvalidInput(errors.PhaseAlloc, "allocate nil object")
	}
	b := v.ownershipBase()
	if b.cell != nil {
		return nil, errors.InvalidState(errors.PhaseAlloc, "allocate", "already managed")
	}

	c := &cell{
		kernel:   k,
		obj:      v,
		typeName: fmt.Sprintf("%T", v),
		id:       k.nextID.Add(1),
	}
	c.owners.Store(1)
	b.cell = c

	if k.strategy.traces() {
		r := &reclaim{id: c.id, typeName: c.typeName}
		if cl, ok := any(v).(Cleaner); ok {
			r.release = cl.Cleanup()
		}
		c.cleanup = runtime.AddCleanup(b, k.collect, r)
		c.tracked = true
	}

	k.allocated.Add(1)
	k.notify(Event{Type: EventAllocated, ID: c.id, TypeName: c.typeName, Owners: 1, Value: v})

	return &Handle[T]{cell: c, v: v}, nil
}

// FromSelf returns a new owner of an already allocated object.
// The handle shares the control block of every other handle for v.
func FromSelf[T Object](v T) (*Handle[T], error) {
	if isNil(v) {
		return nil, errors.InvalidInput(errors.PhaseAlloc, "handle from nil object")
	}
	c := v.ownershipBase().cell
	if c == nil {
		return nil, errors.InvalidState(errors.PhaseAlloc, "from self", "not allocated")
	}
	if err := c.acquire(); err != nil {
		return nil, err
	}
	return &Handle[T]{cell: c, v: v}, nil
}

// ID returns the allocation id of a managed object, or 0.
func ID(v Object) uint64 {
	if isNil(v) {
		return 0
	}
	if c := v.ownershipBase().cell; c != nil {
		return c.id
	}
	return 0
}

// acquire adds an owner. It fails once the object has been destroyed.
func (c *cell) acquire() error {
	if c.destroyed.Load() {
		return errors.InvalidState(errors.PhaseAlloc, "share", "destroyed")
	}
	n := c.owners.Add(1)
	if n <= 1 && c.kernel.strategy.counts() {
		// The count reached zero concurrently; destruction is in progress.
		c.owners.Add(-1)
		return errors.InvalidState(errors.PhaseAlloc, "share", "destroyed")
	}

	k := c.kernel
	k.shared.Add(1)
	k.notify(Event{Type: EventShared, ID: c.id, TypeName: c.typeName, Owners: n, Value: c.obj})
	return nil
}

// drop removes an owner and queues the object for destruction when the
// count reaches zero under a counting strategy.
func (c *cell) drop(dl *DropList) {
	k := c.kernel
	n := c.owners.Add(-1)
	k.released.Add(1)
	k.notify(Event{Type: EventReleased, ID: c.id, TypeName: c.typeName, Owners: n, Value: c.obj})

	if n > 0 || !k.strategy.counts() {
		return
	}
	if n < 0 {
		k.logger.Error("owner count below zero", zap.Uint64("id", c.id), zap.String("type", c.typeName))
		return
	}
	dl.push(c)
}

// destroy runs the object's destructor. Owned handles it releases are
// queued on dl rather than destroyed recursively.
func (c *cell) destroy(dl *DropList) {
	if !c.destroyed.CompareAndSwap(false, true) {
		return
	}
	if c.tracked {
		c.cleanup.Stop()
	}

	obj := c.obj
	if d, ok := obj.(Destructor); ok {
		d.Destroy(dl)
	}

	k := c.kernel
	k.destroyed.Add(1)
	k.logger.Debug("destroyed", zap.Uint64("id", c.id), zap.String("type", c.typeName))
	k.notify(Event{Type: EventDestroyed, ID: c.id, TypeName: c.typeName, Value: obj})
}

// collect is the collector backstop.
func (k *Kernel) collect(r *reclaim) {
	if r.release != nil {
		r.release()
	}
	k.collected.Add(1)
	k.logger.Debug("collected", zap.Uint64("id", r.id), zap.String("type", r.typeName))
	k.notify(Event{Type: EventCollected, ID: r.id, TypeName: r.typeName})
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
