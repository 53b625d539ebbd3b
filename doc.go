// Package jbi is the support runtime linked by code translated from JVM
// bytecode into native Go.
//
// Translated call sites never allocate or free objects directly. They go
// through the ownership kernel, hand the resulting strings and arrays to
// streams, and obtain streams from sockets. The runtime only guarantees the
// call contract; it does not translate bytecode.
//
// # Architecture Overview
//
//	jbi/                 Root package with the stream capability interfaces
//	├── ownership/       Object root, handles, reference counting and GC backstop
//	├── array/           Fixed-length bounds-checked arrays
//	├── lang/            Immutable UTF-16 strings
//	├── stream/          Buffered byte sinks and the print layer
//	├── socket/          Blocking TCP listener and accepted connections
//	├── symbol/          Native entry-point names and the natives table
//	├── runtime/         Facade wiring kernel, System.out and natives
//	├── wasmhost/        Natives exported to wasm guests through wazero
//	├── config/          TOML configuration
//	└── errors/          Structured error taxonomy
//
// # Quick Start
//
//	rt, err := runtime.New(config.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	msg := lang.FromGoString("Hello")
//	_ = rt.Out().PrintlnString(msg) // "Hello\r\n", flushed
//
// # Ownership Strategies
//
// The kernel supports reference counting, tracing collection (the Go
// garbage collector) and a combination of both. The default is chosen per
// build with the jbi_refcount and jbi_tracing build tags and may be
// overridden per kernel.
//
// # Thread Safety
//
// The kernel is safe for concurrent use. Streams and sockets are not: a
// single instance must be used by one goroutine at a time, or access must be
// synchronized by the caller.
package jbi
