// Package wasmhost exposes System.out to WebAssembly guests through wazero.
//
// Translated programs compiled to wasm import the PrintStream natives from a
// host module named after the mangled class, "java_cs_io_cs_PrintStream",
// under their mangled entry-point names:
//
//	(import "java_cs_io_cs_PrintStream" "println_ne__ab_Iae_V" (func (param i32)))
//
// The receiver is implicit and is always the runtime's System.out. Scalar
// parameters map to wasm values (I, S, B, C, Z as i32; J as i64; F as f32;
// D as f64). A String parameter is passed as two i32 values, the address
// and the length in code units of UTF-16LE data in the guest's exported
// memory.
//
// A native that fails closes the calling module with exit code ExitFault,
// so the guest call returns a *sys.ExitError.
package wasmhost
