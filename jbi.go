package jbi

// Sink accepts an ordered stream of bytes.
type Sink interface {
	Write(p []byte) (int, error)
}

// Flusher delivers any buffered bytes to the underlying sink.
type Flusher interface {
	Flush() error
}

// Closer releases the underlying sink resource.
type Closer interface {
	Close() error
}

// OutputStream is the full capability set a translated OutputStream
// reference is expected to carry.
type OutputStream interface {
	Sink
	Flusher
	Closer
}
