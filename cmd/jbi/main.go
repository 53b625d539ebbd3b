// jbi runs the programs bundled with the runtime.
//
//	jbi --serve [--port 1234] [--requests N]   answer HTTP clients with the configured message
//	jbi --hello                                print a greeting through System.out
//	jbi --symbols                              list the natives the runtime provides
//
// Configuration is read from --config when given; --strategy and
// --log-level override the file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/wippyai/jbi-runtime/config"
	"github.com/wippyai/jbi-runtime/ownership"
	"github.com/wippyai/jbi-runtime/runtime"
	"github.com/wippyai/jbi-runtime/socket"
	"github.com/wippyai/jbi-runtime/stream"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	configPath string
	strategy   string
	logLevel   string
	port       int
	requests   int
	serve      bool
	hello      bool
	symbols    bool
}

func parseFlags(args []string) (flags, *pflag.FlagSet, error) {
	var f flags
	fs := pflag.NewFlagSet("jbi", pflag.ContinueOnError)
	fs.StringVarP(&f.configPath, "config", "c", "", "path to a TOML configuration file")
	fs.StringVar(&f.strategy, "strategy", "", "ownership strategy: refcount, tracing or combined")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.IntVarP(&f.port, "port", "p", -1, "port to listen on with --serve (default from config)")
	fs.IntVar(&f.requests, "requests", 0, "stop serving after this many requests (0 = never)")
	fs.BoolVar(&f.serve, "serve", false, "run the HTTP server")
	fs.BoolVar(&f.hello, "hello", false, "print a greeting")
	fs.BoolVar(&f.symbols, "symbols", false, "list the provided natives")
	err := fs.Parse(args)
	return f, fs, err
}

func run(args []string) error {
	f, fs, err := parseFlags(args)
	if err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	ownership.SetLogger(logger.Named("ownership"))
	stream.SetLogger(logger.Named("stream"))
	socket.SetLogger(logger.Named("socket"))

	rt, err := runtime.New(cfg, runtime.WithLogger(logger))
	if err != nil {
		return err
	}
	defer rt.Close()

	switch {
	case f.symbols:
		return listSymbols(os.Stdout, rt.Natives())
	case f.serve:
		port := cfg.Server.Port
		if f.port >= 0 {
			port = f.port
		}
		logger.Info("serving", zap.Int("port", port), zap.Stringer("strategy", rt.Kernel().Strategy()))
		return serve(rt, port, cfg.Server.Message, f.requests, nil)
	case f.hello:
		return hello(rt)
	default:
		fs.Usage()
		return nil
	}
}

func loadConfig(f flags) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return cfg, err
		}
	}
	if f.strategy != "" {
		cfg.Ownership.Strategy = f.strategy
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	return cfg, cfg.Validate()
}
