package ownership

// Object is implemented by every type that embeds Base.
type Object interface {
	ownershipBase() *Base
}

// Base is the intrusive link between an object and its control block.
// Embed it by value as the first field of every managed type:
//
//	type Point struct {
//	    ownership.Base
//	    X, Y int32
//	}
//
// Base must not be copied after the object is allocated.
type Base struct {
	cell *cell
}

func (b *Base) ownershipBase() *Base { return b }

// Destructor is implemented by objects that own other handles or host
// resources and must release them when the object is destroyed through the
// owner count. Handles owned by the object are released through dl.
type Destructor interface {
	Destroy(dl *DropList)
}

// Cleaner is implemented by objects holding host resources that must be
// released even when the collector reclaims the object. The returned
// function is registered at allocation and must not reference the object.
// It runs at most once, and never after Destroy.
type Cleaner interface {
	Cleanup() func()
}

// Owner is the type-erased view of a handle.
type Owner interface {
	ID() uint64
	Valid() bool
	Release()
	release(dl *DropList)
	control() *cell
}

// Event types for ownership lifecycle notifications.
type EventType uint8

const (
	EventAllocated EventType = iota
	EventShared
	EventReleased
	EventDestroyed
	EventCollected
)

func (t EventType) String() string {
	switch t {
	case EventAllocated:
		return "allocated"
	case EventShared:
		return "shared"
	case EventReleased:
		return "released"
	case EventDestroyed:
		return "destroyed"
	case EventCollected:
		return "collected"
	default:
		return "unknown"
	}
}

// Event represents an ownership lifecycle event.
// Value is nil for EventCollected; the object is already unreachable.
type Event struct {
	Value    any
	TypeName string
	ID       uint64
	Owners   int64
	Type     EventType
}

// Observer receives notifications about ownership lifecycle events.
// Collected events are delivered on the runtime's cleanup goroutine.
type Observer interface {
	OnOwnershipEvent(Event)
}

// Stats is a snapshot of a kernel's counters.
type Stats struct {
	Allocated uint64
	Shared    uint64
	Released  uint64
	Destroyed uint64
	Collected uint64
}

// Live returns the number of allocations not yet destroyed or collected.
func (s Stats) Live() uint64 {
	return s.Allocated - s.Destroyed - s.Collected
}
