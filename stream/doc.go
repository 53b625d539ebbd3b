// Package stream provides buffered byte sinks with explicit flush and close
// semantics, and a print layer that formats values onto them.
//
// A Stream stages outbound bytes in a fixed 1024-byte Buffer and drains it
// to its binding:
//
//	Stdout()                 process standard output; Close is a no-op
//	NewDescriptor(fd)        a file or socket descriptor owned by the stream
//	NewBorrowedDescriptor(fd) a descriptor owned by someone else
//	NewChained(inner)        another Stream
//	NewWriter(w)             any io.Writer
//
// A write that would bring the pending bytes to capacity drains the buffer
// first; larger inputs are staged in capacity-sized chunks, each drained as
// it fills. No byte is dropped or duplicated, and the buffer never holds
// more than its capacity.
//
// Flush drains synchronously. Close flushes pending bytes and releases the
// binding, except on Stdout where it does nothing. After Close every
// operation returns an InvalidState error.
//
// # Print layer
//
// PrintStream formats strings, integers, floating point values, UTF-16 code
// units and booleans. Every Println form appends CR LF and flushes; Print
// forms never flush:
//
//	ps := stream.NewPrintStream(stream.Stdout())
//	_ = ps.PrintInt(42)   // "42", still buffered
//	_ = ps.PrintlnInt(42) // "42\r\n", delivered
//
// Streams are not safe for concurrent use.
package stream
