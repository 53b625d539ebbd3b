package ownership

// DropList is the work list of objects awaiting destruction. Destructors
// release the handles they own through it, which turns a chain of
// destructions into a loop instead of a recursion.
type DropList struct {
	pending []*cell
}

// Release gives up o, queueing its object if this was the last owner.
// Nil owners are ignored.
func (dl *DropList) Release(o Owner) {
	if o == nil {
		return
	}
	o.release(dl)
}

// Len returns the number of queued objects.
func (dl *DropList) Len() int {
	return len(dl.pending)
}

func (dl *DropList) push(c *cell) {
	dl.pending = append(dl.pending, c)
}

func (dl *DropList) drain() {
	for len(dl.pending) > 0 {
		last := len(dl.pending) - 1
		c := dl.pending[last]
		dl.pending[last] = nil
		dl.pending = dl.pending[:last]
		c.destroy(dl)
	}
}
