// Package socket is a minimal blocking IPv4 TCP wrapper producing streams.
//
// Listen binds 0.0.0.0:<port> with a backlog of 32. Accept blocks the
// calling goroutine until a connection arrives and returns a Conn that
// holds a shared handle to its Listener, so the listener object stays
// alive for as long as any of its connections do. The handle does not keep
// the listening descriptor open: closing the Listener leaves accepted
// connections fully usable.
//
//	lh, err := socket.Listen(k, 8080)
//	ch, err := lh.Get().Accept()
//	out, err := ch.Get().OutputStream()
//	_, _ = out.Get().Write(resp)
//	_ = out.Get().Close() // flushes; the connection stays open
//	_ = ch.Get().Close()
//
// Every descriptor is closed exactly once, whether by Close, by destruction
// when the last owner releases, or by the collector under tracing.
// There are no timeouts and no cancellation.
package socket
