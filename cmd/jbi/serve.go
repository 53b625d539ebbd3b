package main

import (
	"go.uber.org/zap"

	"github.com/wippyai/jbi-runtime/lang"
	"github.com/wippyai/jbi-runtime/runtime"
	"github.com/wippyai/jbi-runtime/socket"
)

// serve answers every client on port with message. It stops after
// requests clients when requests > 0. ready, if set, is called with the
// bound port once the server is listening.
func serve(rt *runtime.Runtime, port int, message string, requests int, ready func(int)) error {
	out := rt.Out()

	server, err := socket.Listen(rt.Kernel(), port)
	if err != nil {
		return err
	}
	defer server.Release()
	if ready != nil {
		ready(server.Get().Port())
	}

	body, err := lang.FromGoString(message).ToBytes(lang.DefaultCharset)
	if err != nil {
		return err
	}

	for served := 0; requests <= 0 || served < requests; served++ {
		if err := out.PrintlnString(lang.FromGoString("Waiting for a HTTP client request")); err != nil {
			return err
		}
		if err := respond(rt, server.Get(), body); err != nil {
			return err
		}
	}
	return nil
}

func respond(rt *runtime.Runtime, server *socket.Listener, body []byte) error {
	out := rt.Out()

	client, err := server.Accept()
	if err != nil {
		return err
	}
	defer client.Release()
	if err := out.PrintlnString(lang.FromGoString("Got a request!")); err != nil {
		return err
	}

	conn := client.Get()
	sink, err := conn.OutputStream()
	if err != nil {
		return err
	}
	defer sink.Release()

	if err := out.PrintlnString(lang.FromGoString("Sending a lovely message to client!")); err != nil {
		return err
	}
	if _, err := sink.Get().Write(body); err != nil {
		rt.Logger().Warn("write failed", zap.Stringer("remote", conn.Remote()), zap.Error(err))
	}
	if err := sink.Get().Close(); err != nil {
		rt.Logger().Warn("close stream failed", zap.Stringer("remote", conn.Remote()), zap.Error(err))
	}
	return conn.Close()
}

func hello(rt *runtime.Runtime) error {
	return rt.Out().PrintlnString(lang.FromGoString("Hello, World!"))
}
