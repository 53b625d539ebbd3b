package stream

// Capacity is the size of every stream's staging buffer.
const Capacity = 1024

// Buffer is a fixed-capacity staging area for outbound bytes.
type Buffer struct {
	data [Capacity]byte
	off  int
}

// Len returns the number of pending bytes.
func (b *Buffer) Len() int {
	return b.off
}

// Available returns the free space.
func (b *Buffer) Available() int {
	return Capacity - b.off
}

// Full reports whether no more bytes fit.
func (b *Buffer) Full() bool {
	return b.off == Capacity
}

// Pending returns the staged bytes. The slice is valid until the next
// Fill or Reset.
func (b *Buffer) Pending() []byte {
	return b.data[:b.off]
}

// Fill copies as much of p as fits and returns the count.
func (b *Buffer) Fill(p []byte) int {
	n := copy(b.data[b.off:], p)
	b.off += n
	return n
}

// Reset discards pending bytes.
func (b *Buffer) Reset() {
	b.off = 0
}
