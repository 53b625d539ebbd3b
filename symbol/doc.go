// Package symbol encodes JVM method names and descriptors into the native
// entry-point names translated code links against, and keeps the table of
// natives the runtime provides.
//
// # Encoding
//
//	<init>     -> _init_        <clinit> -> _clinit_
//	/          -> _cs_          $        -> _dolsig_
//	(          -> _ab_          )        -> ae_
//	Lpkg/C;    -> pkg_cs_C_as_  [        -> _arr_
//
// The method and encoded descriptor are joined with _ne_:
//
//	Mangle("println", "(Ljava/lang/String;)V")
//	// "println_ne__ab_java_cs_lang_cs_String_as_ae_V"
//
// # Natives
//
// A Table maps (class, method, descriptor) to one Go function. Each
// triple has exactly one entry; registering it twice fails. Instance
// methods take the receiver as their first parameter:
//
//	t := symbol.NewTable()
//	_ = t.Register("java/io/PrintStream", "println", "(I)V",
//	    func(ps *stream.PrintStream, v int32) error { return ps.PrintlnInt(v) })
//	_, err := t.Invoke(symbol.Qualify("java/io/PrintStream", "println", "(I)V"), ps, int32(42))
package symbol
