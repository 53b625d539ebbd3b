package runtime

import (
	"bytes"
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/jbi-runtime/array"
	"github.com/wippyai/jbi-runtime/config"
	"github.com/wippyai/jbi-runtime/errors"
	"github.com/wippyai/jbi-runtime/lang"
	"github.com/wippyai/jbi-runtime/ownership"
	"github.com/wippyai/jbi-runtime/socket"
	"github.com/wippyai/jbi-runtime/stream"
	"github.com/wippyai/jbi-runtime/symbol"
)

func newRuntime(t *testing.T, opts ...Option) (*Runtime, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Ownership.Strategy = "refcount"

	var out bytes.Buffer
	rt, err := New(cfg, append([]Option{WithStdout(&out)}, opts...)...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return rt, &out
}

func TestNew(t *testing.T) {
	rt, _ := newRuntime(t)
	defer rt.Close()

	if rt.Kernel().Strategy() != ownership.RefCount {
		t.Errorf("Strategy = %v, want refcount", rt.Kernel().Strategy())
	}
	if rt.Natives().Len() == 0 {
		t.Error("no natives registered")
	}

	bad := config.Default()
	bad.Log.Format = "xml"
	if _, err := New(bad); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("invalid config: err = %v", err)
	}
}

func TestNatives_Resolve(t *testing.T) {
	rt, _ := newRuntime(t)
	defer rt.Close()

	want := []string{
		symbol.Qualify("java/io/PrintStream", "println", "(Ljava/lang/String;)V"),
		symbol.Qualify("java/io/PrintStream", "println", "(I)V"),
		symbol.Qualify("java/io/PrintStream", "print", "(Z)V"),
		symbol.Qualify("java/io/OutputStream", "write", "([B)V"),
		symbol.Qualify("java/io/OutputStream", "close", "()V"),
		symbol.Qualify("java/net/ServerSocket", "<init>", "(I)V"),
		symbol.Qualify("java/net/ServerSocket", "accept", "()Ljava/net/Socket;"),
		symbol.Qualify("java/net/Socket", "getOutputStream", "()Ljava/io/OutputStream;"),
		symbol.Qualify("java/net/Socket", "close", "()V"),
		symbol.Qualify("java/lang/String", "getBytes", "(Ljava/lang/String;)[B"),
	}
	if err := rt.Natives().Missing(want...); err != nil {
		t.Error(err)
	}
}

func TestCall_PrintStream(t *testing.T) {
	rt, out := newRuntime(t)
	defer rt.Close()

	calls := []struct {
		method, desc string
		arg          any
	}{
		{"println", "(Ljava/lang/String;)V", lang.FromGoString("Hello")},
		{"print", "(I)V", int32(42)},
		{"print", "(C)V", uint16(' ')},
		{"println", "(Z)V", true},
		{"println", "(D)V", 1e10},
	}
	for _, c := range calls {
		if _, err := rt.CallMethod("java/io/PrintStream", c.method, c.desc, rt.Out(), c.arg); err != nil {
			t.Fatalf("%s%s: %v", c.method, c.desc, err)
		}
	}

	if got, want := out.String(), "Hello\r\n42 true\r\n1.0E10\r\n"; got != want {
		t.Errorf("out = %q, want %q", got, want)
	}
}

func TestCall_StringNatives(t *testing.T) {
	rt, _ := newRuntime(t)
	defer rt.Close()
	s := lang.FromGoString("héllo")

	n, err := rt.CallMethod("java/lang/String", "length", "()I", s)
	if err != nil || n.(int32) != 5 {
		t.Errorf("length = %v, %v", n, err)
	}

	res, err := rt.CallMethod("java/lang/String", "getBytes", "(Ljava/lang/String;)[B", s, lang.FromGoString("UTF-8"))
	if err != nil {
		t.Fatal(err)
	}
	bh := res.(*ownership.Handle[*array.Array[byte]])
	if string(bh.Get().Slice()) != "héllo" {
		t.Errorf("getBytes = %q", bh.Get().Slice())
	}

	back, err := rt.CallMethod("java/lang/String", "<init>", "([BLjava/lang/String;)V", bh.Get(), lang.FromGoString("UTF-8"))
	if err != nil {
		t.Fatal(err)
	}
	sh := back.(*ownership.Handle[*lang.String])
	if !sh.Get().Equal(s) {
		t.Errorf("round trip = %q", sh.Get().String())
	}

	_, err = rt.CallMethod("java/lang/String", "charAt", "(I)C", s, int32(9))
	if !errors.IsKind(err, errors.KindBounds) {
		t.Errorf("charAt: err = %v, want BoundsFailure", err)
	}

	bh.Release()
	sh.Release()
}

func TestArgs(t *testing.T) {
	rt, _ := newRuntime(t)
	defer rt.Close()

	h, err := rt.Args([]string{"serve", "--port"})
	if err != nil {
		t.Fatal(err)
	}
	a := h.Get()
	if a.Len() != 2 {
		t.Fatalf("Len = %d", a.Len())
	}
	first, _ := a.Get(0)
	if first.Get().String() != "serve" {
		t.Errorf("arg 0 = %q", first.Get().String())
	}
	h.Release()
	if live := rt.Kernel().Stats().Live(); live != 0 {
		t.Errorf("live = %d after releasing args", live)
	}

	if _, err := rt.Args([]string{"ok", "h\xe9"}); !errors.IsKind(err, errors.KindUnsupportedEncoding) {
		t.Errorf("err = %v, want UnsupportedEncoding", err)
	}
	if live := rt.Kernel().Stats().Live(); live != 0 {
		t.Errorf("live = %d after failed conversion", live)
	}
}

// TestHTTPServerScenario drives the natives the way the translated
// HTTPServer program calls them.
func TestHTTPServerScenario(t *testing.T) {
	rt, out := newRuntime(t)
	defer rt.Close()
	ps := rt.Out()

	res, err := rt.CallMethod("java/net/ServerSocket", "<init>", "(I)V", int32(0))
	if err != nil {
		t.Fatal(err)
	}
	server := res.(*ownership.Handle[*socket.Listener])

	client, err := net.DialTimeout("tcp", "127.0.0.1:"+strconv.Itoa(server.Get().Port()), 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()
	_ = client.SetDeadline(time.Now().Add(10 * time.Second))

	_, _ = rt.CallMethod("java/io/PrintStream", "println", "(Ljava/lang/String;)V", ps, lang.FromGoString("Waiting for a HTTP client request"))
	res, err = rt.CallMethod("java/net/ServerSocket", "accept", "()Ljava/net/Socket;", server.Get())
	if err != nil {
		t.Fatal(err)
	}
	conn := res.(*ownership.Handle[*socket.Conn])

	res, err = rt.CallMethod("java/net/Socket", "getOutputStream", "()Ljava/io/OutputStream;", conn.Get())
	if err != nil {
		t.Fatal(err)
	}
	sink := res.(*ownership.Handle[*stream.Stream])

	msg := lang.FromGoString(config.DefaultMessage)
	res, err = rt.CallMethod("java/lang/String", "getBytes", "(Ljava/lang/String;)[B", msg, lang.FromGoString("UTF-8"))
	if err != nil {
		t.Fatal(err)
	}
	body := res.(*ownership.Handle[*array.Array[byte]])

	for _, step := range []struct {
		class, method, desc string
		args                []any
	}{
		{"java/io/OutputStream", "write", "([B)V", []any{sink.Get(), body.Get()}},
		{"java/io/OutputStream", "close", "()V", []any{sink.Get()}},
		{"java/net/Socket", "close", "()V", []any{conn.Get()}},
	} {
		if _, err := rt.CallMethod(step.class, step.method, step.desc, step.args...); err != nil {
			t.Fatalf("%s.%s: %v", step.class, step.method, err)
		}
	}

	got, err := io.ReadAll(client)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != config.DefaultMessage {
		t.Errorf("client got %q", got)
	}
	if out.String() != "Waiting for a HTTP client request\r\n" {
		t.Errorf("out = %q", out.String())
	}

	body.Release()
	sink.Release()
	conn.Release()
	server.Release()
	if live := rt.Kernel().Stats().Live(); live != 0 {
		t.Errorf("live = %d, want 0", live)
	}
}

func TestLogObserver(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	rt, _ := newRuntime(t, WithLogger(zap.New(core)))

	h, _ := ownership.Allocate(rt.Kernel(), lang.FromGoString("x"))
	h.Release()
	_ = rt.Close()

	if n := logs.FilterMessage("ownership").Len(); n < 3 {
		t.Errorf("ownership log entries = %d, want allocate, release and destroy", n)
	}
	if logs.FilterMessage("runtime closed").Len() != 1 {
		t.Error("missing close summary")
	}
}
