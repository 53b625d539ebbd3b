// Package config loads runtime configuration from TOML.
//
//	[ownership]
//	strategy = "combined"   # refcount | tracing | combined; empty = build default
//
//	[log]
//	level  = "info"         # debug | info | warn | error
//	format = "console"      # console | json
//
//	[server]
//	port    = 1234
//	message = "HTTP/1.1 200 OK\n..."
//
// Keys absent from the file keep their defaults.
package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/jbi-runtime/errors"
	"github.com/wippyai/jbi-runtime/ownership"
)

// DefaultMessage is the response the demo server sends to every client.
const DefaultMessage = "HTTP/1.1 200 OK\nContent-Type: text/html\n\n" +
	"<html><head><title>This server was in Java, is now in Go!</title></head>" +
	"<body><h1> Java To Go</h1><br>This is a java HTML server, converted into Go, " +
	"and compiled to native instructions.</body></html>"

// Config is the runtime configuration.
type Config struct {
	Ownership OwnershipConfig
	Log       LogConfig
	Server    ServerConfig
}

// OwnershipConfig selects the kernel strategy.
type OwnershipConfig struct {
	Strategy string
}

// LogConfig configures the zap logger built by Logger.
type LogConfig struct {
	Level  string
	Format string
}

// ServerConfig configures the demo HTTP server.
type ServerConfig struct {
	Message string
	Port    int
}

type fileConfig struct {
	Ownership struct {
		Strategy string `toml:"strategy"`
	} `toml:"ownership"`
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`
	Server struct {
		Message string `toml:"message"`
		Port    int    `toml:"port"`
	} `toml:"server"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Port:    1234,
			Message: DefaultMessage,
		},
	}
}

// Load reads and validates the TOML file at path on top of Default.
func Load(path string) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "load "+path)
	}
	return apply(meta, raw)
}

// Parse reads and validates TOML text on top of Default.
func Parse(data string) (Config, error) {
	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse config")
	}
	return apply(meta, raw)
}

func apply(meta toml.MetaData, raw fileConfig) (Config, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.InvalidInput(errors.PhaseConfig, "unknown key "+undecoded[0].String())
	}

	cfg := Default()
	if meta.IsDefined("ownership", "strategy") {
		cfg.Ownership.Strategy = strings.TrimSpace(raw.Ownership.Strategy)
	}
	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("log", "format") {
		cfg.Log.Format = strings.TrimSpace(raw.Log.Format)
	}
	if meta.IsDefined("server", "port") {
		cfg.Server.Port = raw.Server.Port
	}
	if meta.IsDefined("server", "message") {
		cfg.Server.Message = raw.Server.Message
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if _, err := c.Strategy(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return errors.InvalidInput(errors.PhaseConfig, "log format must be console or json, got "+c.Log.Format)
	}
	if c.Server.Port < 0 || c.Server.Port > 0xffff {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("server", "port").
			Value(c.Server.Port).
			Detail("port %d out of range", c.Server.Port).
			Build()
	}
	return nil
}

// Strategy returns the configured ownership strategy.
func (c Config) Strategy() (ownership.Strategy, error) {
	return ownership.ParseStrategy(c.Ownership.Strategy)
}

// Level returns the configured log level.
func (c Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log level")
	}
	return lvl, nil
}

// Logger builds a zap logger from the log section. The console format
// uses the development encoder, json the production one.
func (c Config) Logger() (*zap.Logger, error) {
	lvl, err := c.Level()
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	if c.Log.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	l, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "build logger")
	}
	return l, nil
}
