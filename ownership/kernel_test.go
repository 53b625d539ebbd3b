package ownership

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wippyai/jbi-runtime/errors"
)

type node struct {
	Base
	next      *Handle[*node]
	destroyed *int
	label     string
}

func (n *node) Destroy(dl *DropList) {
	if n.destroyed != nil {
		*n.destroyed++
	}
	dl.Release(n.next)
}

type leaf struct {
	Base
	value int
}

// recorder keeps event types only; holding Event.Value would keep
// objects reachable and stop the collector from reclaiming them.
type recorder struct {
	mu     sync.Mutex
	events []EventType
}

func (r *recorder) OnOwnershipEvent(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e.Type)
}

func (r *recorder) count(t EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == t {
			n++
		}
	}
	return n
}

func TestAllocate(t *testing.T) {
	k := NewKernel(WithStrategy(RefCount))

	h, err := Allocate(k, &leaf{value: 7})
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if h.Owners() != 1 {
		t.Errorf("Owners = %d, want 1", h.Owners())
	}
	if h.ID() == 0 {
		t.Error("ID should be non-zero")
	}
	if h.Get().value != 7 {
		t.Errorf("value = %d, want 7", h.Get().value)
	}
	if ID(h.Get()) != h.ID() {
		t.Error("ID(obj) should match handle ID")
	}

	if _, err := Allocate(k, h.Get()); !errors.IsKind(err, errors.KindInvalidState) {
		t.Errorf("second Allocate: err = %v, want InvalidState", err)
	}
	var nilLeaf *leaf
	if _, err := Allocate(k, nilLeaf); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("nil Allocate: err = %v, want InvalidInput", err)
	}
}

func TestFromSelf_SharesControlBlock(t *testing.T) {
	for _, s := range []Strategy{RefCount, Combined} {
		t.Run(s.String(), func(t *testing.T) {
			k := NewKernel(WithStrategy(s))
			destroyed := 0

			h, err := Allocate(k, &node{destroyed: &destroyed})
			if err != nil {
				t.Fatal(err)
			}
			self, err := FromSelf(h.Get())
			if err != nil {
				t.Fatalf("FromSelf failed: %v", err)
			}

			if !h.Same(self) {
				t.Error("handles should refer to the same allocation")
			}
			if h.ID() != self.ID() {
				t.Errorf("IDs differ: %d vs %d", h.ID(), self.ID())
			}
			if h.Owners() != 2 {
				t.Errorf("Owners = %d, want 2", h.Owners())
			}

			h.Release()
			if destroyed != 0 {
				t.Fatal("destroyed while an owner remains")
			}
			self.Release()
			if destroyed != 1 {
				t.Errorf("destroyed = %d, want exactly 1", destroyed)
			}
			if st := k.Stats(); st.Destroyed != 1 || st.Live() != 0 {
				t.Errorf("stats = %+v", st)
			}
		})
	}
}

func TestFromSelf_Unallocated(t *testing.T) {
	if _, err := FromSelf(&leaf{}); !errors.IsKind(err, errors.KindInvalidState) {
		t.Errorf("err = %v, want InvalidState", err)
	}
}

func TestFromSelf_AfterDestroy(t *testing.T) {
	k := NewKernel(WithStrategy(RefCount))
	h, _ := Allocate(k, &leaf{})
	obj := h.Get()
	h.Release()

	if _, err := FromSelf(obj); !errors.IsKind(err, errors.KindInvalidState) {
		t.Errorf("err = %v, want InvalidState", err)
	}
}

func TestRelease_Idempotent(t *testing.T) {
	k := NewKernel(WithStrategy(RefCount))
	destroyed := 0
	h, _ := Allocate(k, &node{destroyed: &destroyed})
	other := h.Share()

	h.Release()
	h.Release()
	h.Release()

	if other.Owners() != 1 {
		t.Errorf("Owners = %d, want 1", other.Owners())
	}
	if destroyed != 0 {
		t.Fatal("repeated Release on one handle destroyed the object")
	}
	if h.Valid() {
		t.Error("released handle should not be valid")
	}
	if !other.Valid() {
		t.Error("remaining owner should be valid")
	}

	other.Release()
	if destroyed != 1 {
		t.Errorf("destroyed = %d, want 1", destroyed)
	}
	if other.Valid() {
		t.Error("handle to destroyed object should not be valid")
	}
}

func TestReleasedHandle_Panics(t *testing.T) {
	k := NewKernel(WithStrategy(RefCount))
	h, _ := Allocate(k, &leaf{})
	h.Release()

	defer func() {
		if recover() == nil {
			t.Error("Get on released handle should panic")
		}
	}()
	h.Get()
}

func TestDestroy_LongChainIsIterative(t *testing.T) {
	const length = 200000
	k := NewKernel(WithStrategy(RefCount))
	destroyed := 0

	var head *Handle[*node]
	for i := 0; i < length; i++ {
		h, err := Allocate(k, &node{next: head, destroyed: &destroyed})
		if err != nil {
			t.Fatal(err)
		}
		head = h
	}

	head.Release()

	if destroyed != length {
		t.Errorf("destroyed = %d, want %d", destroyed, length)
	}
	if live := k.Stats().Live(); live != 0 {
		t.Errorf("live = %d, want 0", live)
	}
}

func TestDestroy_SharedChildSurvives(t *testing.T) {
	k := NewKernel(WithStrategy(RefCount))
	destroyed := 0

	child, _ := Allocate(k, &node{destroyed: &destroyed, label: "child"})
	parent, _ := Allocate(k, &node{next: child.Share(), destroyed: &destroyed})

	parent.Release()
	if destroyed != 1 {
		t.Fatalf("destroyed = %d, want 1 (parent only)", destroyed)
	}
	if !child.Valid() || child.Get().label != "child" {
		t.Error("child should survive while its handle is held")
	}
	child.Release()
	if destroyed != 2 {
		t.Errorf("destroyed = %d, want 2", destroyed)
	}
}

func TestTracing_ReleaseNeverDestroys(t *testing.T) {
	k := NewKernel(WithStrategy(Tracing))
	destroyed := 0

	h, _ := Allocate(k, &node{destroyed: &destroyed})
	h.Release()

	if destroyed != 0 {
		t.Error("tracing strategy must not destroy on release")
	}
	if k.Stats().Destroyed != 0 {
		t.Error("destroyed counter should stay zero")
	}
}

type cleaned struct {
	Base
	flag *atomic.Bool
}

func (c *cleaned) Cleanup() func() {
	flag := c.flag
	return func() { flag.Store(true) }
}

func waitCollected(t *testing.T, k *Kernel, want uint64) {
	t.Helper()
	for i := 0; i < 100; i++ {
		runtime.GC()
		if k.Stats().Collected >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("collected = %d, want %d", k.Stats().Collected, want)
}

func TestTracing_CollectorRunsCleanup(t *testing.T) {
	k := NewKernel(WithStrategy(Tracing))
	rec := &recorder{}
	k.Subscribe(rec)
	var flag atomic.Bool

	func() {
		h, err := Allocate(k, &cleaned{flag: &flag})
		if err != nil {
			t.Fatal(err)
		}
		h.Release()
	}()

	waitCollected(t, k, 1)
	if !flag.Load() {
		t.Error("cleanup function did not run")
	}
	if rec.count(EventCollected) != 1 {
		t.Errorf("collected events = %d, want 1", rec.count(EventCollected))
	}
}

func TestCombined_CycleFallsToBackstop(t *testing.T) {
	k := NewKernel(WithStrategy(Combined))
	destroyed := 0

	func() {
		a, _ := Allocate(k, &node{destroyed: &destroyed})
		b, _ := Allocate(k, &node{destroyed: &destroyed})
		a.Get().next = b.Share()
		b.Get().next = a.Share()
		a.Release()
		b.Release()
	}()

	if destroyed != 0 {
		t.Fatal("counting alone must not break a cycle")
	}
	waitCollected(t, k, 2)
	if st := k.Stats(); st.Live() != 0 {
		t.Errorf("live = %d, want 0", st.Live())
	}
}

func TestCombined_CountPathStopsBackstop(t *testing.T) {
	k := NewKernel(WithStrategy(Combined))
	var flag atomic.Bool

	func() {
		h, _ := Allocate(k, &cleaned{flag: &flag})
		h.Release()
	}()

	for i := 0; i < 5; i++ {
		runtime.GC()
		time.Sleep(5 * time.Millisecond)
	}
	if k.Stats().Collected != 0 {
		t.Error("destroyed object must not also be collected")
	}
	if flag.Load() {
		t.Error("cleanup must not run after destruction")
	}
	if k.Stats().Destroyed != 1 {
		t.Errorf("destroyed = %d, want 1", k.Stats().Destroyed)
	}
}

func TestObservers(t *testing.T) {
	k := NewKernel(WithStrategy(RefCount))
	rec := &recorder{}
	k.Subscribe(rec)

	h, _ := Allocate(k, &leaf{})
	s := h.Share()
	h.Release()
	s.Release()

	tests := []struct {
		typ  EventType
		want int
	}{
		{EventAllocated, 1},
		{EventShared, 1},
		{EventReleased, 2},
		{EventDestroyed, 1},
		{EventCollected, 0},
	}
	for _, tt := range tests {
		if got := rec.count(tt.typ); got != tt.want {
			t.Errorf("%s events = %d, want %d", tt.typ, got, tt.want)
		}
	}

	k.Unsubscribe(rec)
	h2, _ := Allocate(k, &leaf{})
	h2.Release()
	if got := rec.count(EventAllocated); got != 1 {
		t.Errorf("unsubscribed observer still notified: %d", got)
	}
}

func TestConcurrentShareRelease(t *testing.T) {
	k := NewKernel(WithStrategy(RefCount))
	destroyed := 0
	h, _ := Allocate(k, &node{destroyed: &destroyed})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		s := h.Share()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Share().Release()
			}
			s.Release()
		}()
	}
	wg.Wait()

	if h.Owners() != 1 {
		t.Errorf("Owners = %d, want 1", h.Owners())
	}
	h.Release()
	if destroyed != 1 {
		t.Errorf("destroyed = %d, want 1", destroyed)
	}
}
