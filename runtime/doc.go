// Package runtime wires the ownership kernel, System.out and the natives
// table into the object translated programs run against.
//
// # Quick Start
//
//	rt, err := runtime.New(config.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	// Direct calls
//	_ = rt.Out().PrintlnString(lang.FromGoString("Hello"))
//
//	// Calls through the natives table, as a translated call site would
//	// resolve them
//	key := symbol.Qualify("java/io/PrintStream", "println", "(I)V")
//	_, err = rt.Call(key, rt.Out(), int32(42))
//
// # Natives
//
// The table covers the classes translated programs use:
//
//	java/io/PrintStream   print/println for every primitive and String, flush, close, write
//	java/io/OutputStream  write(I), write([B), write([BII), flush, close
//	java/net/ServerSocket <init>(I), accept, close
//	java/net/Socket       getOutputStream, close
//	java/lang/String      <init>([BLjava/lang/String;), length, charAt, concat, hashCode, getBytes
//
// Reference arguments and results are handles allocated through the
// runtime's kernel; byte[] is *array.Array[byte].
//
// # Ownership
//
// The kernel's strategy comes from the [ownership] section of the
// configuration. Ownership events are logged at debug level.
package runtime
