package runtime

import (
	"github.com/wippyai/jbi-runtime/array"
	"github.com/wippyai/jbi-runtime/lang"
	"github.com/wippyai/jbi-runtime/ownership"
	"github.com/wippyai/jbi-runtime/socket"
	"github.com/wippyai/jbi-runtime/stream"
)

const (
	classPrintStream  = "java/io/PrintStream"
	classOutputStream = "java/io/OutputStream"
	classServerSocket = "java/net/ServerSocket"
	classSocket       = "java/net/Socket"
	classString       = "java/lang/String"
)

type native struct {
	fn     any
	class  string
	method string
	desc   string
}

func (r *Runtime) registerNatives() error {
	groups := [][]native{
		printStreamNatives(),
		outputStreamNatives(),
		r.socketNatives(),
		r.stringNatives(),
	}
	for _, group := range groups {
		for _, n := range group {
			if err := r.natives.Register(n.class, n.method, n.desc, n.fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func printStreamNatives() []native {
	ps := func(method, desc string, fn any) native {
		return native{class: classPrintStream, method: method, desc: desc, fn: fn}
	}
	return []native{
		ps("print", "(Ljava/lang/String;)V", (*stream.PrintStream).PrintString),
		ps("print", "(I)V", (*stream.PrintStream).PrintInt),
		ps("print", "(J)V", (*stream.PrintStream).PrintLong),
		ps("print", "(F)V", (*stream.PrintStream).PrintFloat),
		ps("print", "(D)V", (*stream.PrintStream).PrintDouble),
		ps("print", "(C)V", (*stream.PrintStream).PrintChar),
		ps("print", "(Z)V", (*stream.PrintStream).PrintBool),
		ps("println", "(Ljava/lang/String;)V", (*stream.PrintStream).PrintlnString),
		ps("println", "(I)V", (*stream.PrintStream).PrintlnInt),
		ps("println", "(J)V", (*stream.PrintStream).PrintlnLong),
		ps("println", "(F)V", (*stream.PrintStream).PrintlnFloat),
		ps("println", "(D)V", (*stream.PrintStream).PrintlnDouble),
		ps("println", "(C)V", (*stream.PrintStream).PrintlnChar),
		ps("println", "(Z)V", (*stream.PrintStream).PrintlnBool),
		ps("println", "()V", (*stream.PrintStream).Println),
		ps("flush", "()V", (*stream.PrintStream).Flush),
		ps("close", "()V", (*stream.PrintStream).Close),
		ps("write", "(I)V", func(p *stream.PrintStream, b int32) error {
			return p.Stream().WriteByte(byte(b))
		}),
	}
}

func outputStreamNatives() []native {
	out := func(method, desc string, fn any) native {
		return native{class: classOutputStream, method: method, desc: desc, fn: fn}
	}
	return []native{
		out("write", "(I)V", func(s *stream.Stream, b int32) error {
			return s.WriteByte(byte(b))
		}),
		out("write", "([B)V", func(s *stream.Stream, b *array.Array[byte]) error {
			_, err := s.Write(b.Slice())
			return err
		}),
		out("write", "([BII)V", func(s *stream.Stream, b *array.Array[byte], off, n int32) error {
			return s.WriteRange(b.Slice(), int(off), int(n))
		}),
		out("flush", "()V", (*stream.Stream).Flush),
		out("close", "()V", (*stream.Stream).Close),
	}
}

func (r *Runtime) socketNatives() []native {
	return []native{
		{class: classServerSocket, method: "<init>", desc: "(I)V", fn: func(port int32) (*ownership.Handle[*socket.Listener], error) {
			return socket.Listen(r.kernel, int(port))
		}},
		{class: classServerSocket, method: "accept", desc: "()Ljava/net/Socket;", fn: (*socket.Listener).Accept},
		{class: classServerSocket, method: "close", desc: "()V", fn: (*socket.Listener).Close},
		{class: classSocket, method: "getOutputStream", desc: "()Ljava/io/OutputStream;", fn: (*socket.Conn).OutputStream},
		{class: classSocket, method: "close", desc: "()V", fn: (*socket.Conn).Close},
	}
}

func (r *Runtime) stringNatives() []native {
	str := func(method, desc string, fn any) native {
		return native{class: classString, method: method, desc: desc, fn: fn}
	}
	return []native{
		str("<init>", "([BLjava/lang/String;)V", func(b *array.Array[byte], charset *lang.String) (*ownership.Handle[*lang.String], error) {
			s, err := lang.FromBytes(b.Slice(), charsetName(charset))
			if err != nil {
				return nil, err
			}
			return ownership.Allocate(r.kernel, s)
		}),
		str("length", "()I", func(s *lang.String) int32 {
			return int32(s.Len())
		}),
		str("charAt", "(I)C", func(s *lang.String, i int32) (uint16, error) {
			return s.CharAt(int(i))
		}),
		str("hashCode", "()I", (*lang.String).Hash),
		str("concat", "(Ljava/lang/String;)Ljava/lang/String;", func(s, o *lang.String) (*ownership.Handle[*lang.String], error) {
			return ownership.Allocate(r.kernel, s.Concat(o))
		}),
		str("getBytes", "()[B", func(s *lang.String) (*ownership.Handle[*array.Array[byte]], error) {
			return r.bytes(s, lang.DefaultCharset)
		}),
		str("getBytes", "(Ljava/lang/String;)[B", func(s, charset *lang.String) (*ownership.Handle[*array.Array[byte]], error) {
			return r.bytes(s, charsetName(charset))
		}),
	}
}

func (r *Runtime) bytes(s *lang.String, charset string) (*ownership.Handle[*array.Array[byte]], error) {
	b, err := s.ToBytes(charset)
	if err != nil {
		return nil, err
	}
	return array.Of(r.kernel, b...)
}

func charsetName(s *lang.String) string {
	if s == nil {
		return lang.DefaultCharset
	}
	return s.String()
}
