// Package lang provides the immutable UTF-16 string used by translated code.
//
// A String is a sequence of 16-bit code units whose backing storage always
// ends in a zero unit, so the buffer can be handed to anything expecting a
// null-terminated UTF-16 string. Construction is idempotent with respect
// to the terminator: a buffer that already ends in zero is not extended.
//
//	s, _ := lang.New([]uint16{'h', 'i'}, 2)       // Len() == 2, Buffer() == "hi\x00"
//	t := lang.FromNullTerminated([]uint16{'h', 'i', 0}) // same code units
//
// Host byte strings convert through FromNativeBytes, which accepts 7-bit
// ASCII only and reports UnsupportedEncoding otherwise. Charset-aware
// conversion in both directions uses IANA charset names.
package lang
