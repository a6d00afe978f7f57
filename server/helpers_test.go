package server

import (
	"net"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"
	"github.com/valyala/bytebufferpool"

	"github.com/momentics/sockreactor/api"
)

const stepTimeout = 10 * time.Second

// newStartedServer builds and starts a server and stops it at cleanup.
func newStartedServer(t *testing.T, opts ...ServerOption) *Server {
	t.Helper()
	s, err := NewServer(nil, opts...)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	t.Cleanup(func() {
		if s.State() == api.StateRunning {
			s.RequestStop()
		}
		for i := 0; i < 10 && s.State() != api.StateClosed; i++ {
			s.Step()
		}
	})
	return s
}

// stepUntil drives the server until cond holds or the deadline passes.
func stepUntil(t *testing.T, s *Server, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(stepTimeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not reached within %s", stepTimeout)
		}
		s.Step()
	}
}

// dial connects a plain client socket to ep, retrying while the listener
// comes up.
func dial(t *testing.T, ep api.Endpoint) net.Conn {
	t.Helper()
	network, addr := "unix", ep.Path()
	if ep.Kind() == api.EndpointTCP {
		network, addr = "tcp", ep.AddrPort().String()
	}
	var conn net.Conn
	op := func() error {
		c, err := net.DialTimeout(network, addr, time.Second)
		if err != nil {
			return err
		}
		conn = c
		return nil
	}
	err := backoff.Retry(op, backoff.WithMaxRetries(backoff.NewConstantBackOff(10*time.Millisecond), 50))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

type readResult struct {
	data []byte
	err  error
}

// readAsync reads exactly n bytes from conn on a separate goroutine.
func readAsync(conn net.Conn, n int) <-chan readResult {
	ch := make(chan readResult, 1)
	go func() {
		buf := bytebufferpool.Get()
		defer bytebufferpool.Put(buf)
		conn.SetReadDeadline(time.Now().Add(stepTimeout))
		chunk := make([]byte, 32*1024)
		for buf.Len() < n {
			m, err := conn.Read(chunk)
			buf.Write(chunk[:m])
			if err != nil {
				ch <- readResult{data: append([]byte(nil), buf.B...), err: err}
				return
			}
		}
		ch <- readResult{data: append([]byte(nil), buf.B...)}
	}()
	return ch
}

// await steps the server until the client read completes.
func await(t *testing.T, s *Server, ch <-chan readResult) readResult {
	t.Helper()
	var res readResult
	got := false
	stepUntil(t, s, func() bool {
		select {
		case res = <-ch:
			got = true
		default:
		}
		return got
	})
	return res
}

// recorder captures callback activity. All access happens on the goroutine
// that calls Step.
type recorder struct {
	connects    []api.Handle
	disconnects []api.Handle
	rx          map[api.Handle]*bytebufferpool.ByteBuffer
	onConnect   func(h api.Handle)
}

func record(s *Server) *recorder {
	r := &recorder{rx: make(map[api.Handle]*bytebufferpool.ByteBuffer)}
	s.SetOnConnect(func(h api.Handle) {
		r.connects = append(r.connects, h)
		if r.onConnect != nil {
			r.onConnect(h)
		}
	})
	s.SetOnDisconnect(func(h api.Handle) {
		r.disconnects = append(r.disconnects, h)
	})
	s.SetOnReceive(func(h api.Handle, payload []byte) {
		buf, ok := r.rx[h]
		if !ok {
			buf = &bytebufferpool.ByteBuffer{}
			r.rx[h] = buf
		}
		buf.Write(payload)
	})
	return r
}

func (r *recorder) received(h api.Handle) []byte {
	if buf, ok := r.rx[h]; ok {
		return buf.B
	}
	return nil
}
