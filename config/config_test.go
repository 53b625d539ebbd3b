package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/wippyai/jbi-runtime/errors"
	"github.com/wippyai/jbi-runtime/ownership"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Server.Port != 1234 {
		t.Errorf("Port = %d, want 1234", cfg.Server.Port)
	}
	s, _ := cfg.Strategy()
	if s != ownership.DefaultStrategy {
		t.Errorf("Strategy = %v, want build default", s)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[ownership]
strategy = "refcount"

[log]
level = "debug"
format = "json"

[server]
port = 8080
`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if s, _ := cfg.Strategy(); s != ownership.RefCount {
		t.Errorf("Strategy = %v", s)
	}
	if lvl, _ := cfg.Level(); lvl != zapcore.DebugLevel {
		t.Errorf("Level = %v", lvl)
	}
	if cfg.Log.Format != "json" || cfg.Server.Port != 8080 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Server.Message != DefaultMessage {
		t.Error("absent key should keep its default")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad strategy", "[ownership]\nstrategy = \"manual\"\n"},
		{"bad level", "[log]\nlevel = \"loud\"\n"},
		{"bad format", "[log]\nformat = \"xml\"\n"},
		{"bad port", "[server]\nport = 70000\n"},
		{"unknown key", "[server]\nhost = \"x\"\n"},
		{"syntax", "[server\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if !errors.IsKind(err, errors.KindInvalidInput) {
				t.Errorf("err = %v, want InvalidInput", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jbi.toml")
	if err := os.WriteFile(path, []byte("[server]\nport = 9000\nmessage = \"hi\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9000 || cfg.Server.Message != "hi" {
		t.Errorf("cfg = %+v", cfg.Server)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestLogger(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		cfg := Default()
		cfg.Log.Format = format
		l, err := cfg.Logger()
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if !l.Core().Enabled(zapcore.InfoLevel) || l.Core().Enabled(zapcore.DebugLevel) {
			t.Errorf("%s: level not applied", format)
		}
	}
}
