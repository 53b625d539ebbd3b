package main

import (
	"bytes"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/wippyai/jbi-runtime/config"
	"github.com/wippyai/jbi-runtime/errors"
	"github.com/wippyai/jbi-runtime/runtime"
)

func TestLoadConfig_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jbi.toml")
	data := "[ownership]\nstrategy = \"tracing\"\n[server]\nport = 8080\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(flags{configPath: path, strategy: "refcount", logLevel: "debug"})
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Ownership.Strategy != "refcount" {
		t.Errorf("strategy = %q, want flag override", cfg.Ownership.Strategy)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("level = %q", cfg.Log.Level)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want value from file", cfg.Server.Port)
	}

	if _, err := loadConfig(flags{strategy: "manual"}); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("bad strategy: err = %v", err)
	}
}

func TestRun_Errors(t *testing.T) {
	if err := run([]string{"--bogus"}); err == nil {
		t.Error("unknown flag accepted")
	}
	if err := run([]string{"extra"}); err == nil {
		t.Error("positional argument accepted")
	}
	if err := run([]string{"--help"}); err != nil {
		t.Errorf("--help: %v", err)
	}
}

func TestServe(t *testing.T) {
	cfg := config.Default()
	cfg.Ownership.Strategy = "refcount"
	var out bytes.Buffer
	rt, err := runtime.New(cfg, runtime.WithStdout(&out))
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()

	const clients = 2
	ports := make(chan int, 1)
	done := make(chan error, 1)
	go func() {
		done <- serve(rt, 0, cfg.Server.Message, clients, func(p int) { ports <- p })
	}()

	var port int
	select {
	case port = <-ports:
	case err := <-done:
		t.Fatalf("serve returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	for i := 0; i < clients; i++ {
		c, err := net.DialTimeout("tcp", "127.0.0.1:"+strconv.Itoa(port), 5*time.Second)
		if err != nil {
			t.Fatal(err)
		}
		_ = c.SetDeadline(time.Now().Add(10 * time.Second))
		got, err := io.ReadAll(c)
		c.Close()
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != cfg.Server.Message {
			t.Errorf("client %d got %q", i, got)
		}
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}

	want := strings.Repeat("Waiting for a HTTP client request\r\nGot a request!\r\nSending a lovely message to client!\r\n", clients)
	if out.String() != want {
		t.Errorf("out = %q", out.String())
	}
	if live := rt.Kernel().Stats().Live(); live != 0 {
		t.Errorf("live = %d after serving", live)
	}
}

func TestServe_BindFailure(t *testing.T) {
	rt, err := runtime.New(config.Default(), runtime.WithStdout(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()

	l, err := net.Listen("tcp4", "0.0.0.0:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	port := l.Addr().(*net.TCPAddr).Port

	if err := serve(rt, port, "x", 1, nil); !errors.IsKind(err, errors.KindBind) {
		t.Errorf("err = %v, want BindFailure", err)
	}
}

func TestHello(t *testing.T) {
	var out bytes.Buffer
	rt, err := runtime.New(config.Default(), runtime.WithStdout(&out))
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()

	if err := hello(rt); err != nil {
		t.Fatal(err)
	}
	if out.String() != "Hello, World!\r\n" {
		t.Errorf("out = %q", out.String())
	}
}

func TestListSymbols(t *testing.T) {
	rt, err := runtime.New(config.Default(), runtime.WithStdout(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()

	var buf bytes.Buffer
	if err := listSymbols(&buf, rt.Natives()); err != nil {
		t.Fatal(err)
	}
	text := buf.String()
	for _, want := range []string{
		"java/io/PrintStream\n",
		"  println(I)V  println_ne__ab_Iae_V\n",
		"java/net/ServerSocket\n",
		"<init>(I)V  _init__ne__ab_Iae_V",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("listing does not contain %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "\x1b[") {
		t.Error("styled output written to a non-terminal")
	}
}
