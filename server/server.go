// File: server/server.go
// Package server implements a single-threaded, callback-driven connection
// reactor over non-blocking stream sockets (Unix-domain or TCP).
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"errors"
	"log"

	"github.com/momentics/sockreactor/api"
	"github.com/momentics/sockreactor/control"
	"github.com/momentics/sockreactor/internal/outbound"
	"github.com/momentics/sockreactor/internal/registry"
	"github.com/momentics/sockreactor/internal/transport"
	"github.com/momentics/sockreactor/reactor"
)

// Server owns the listening socket, the readiness multiplexer, the client
// registry and the outbound queue. All methods must be called from the
// goroutine that drives Step; there is no internal locking.
//
// A Server is one-shot: once started it cannot be started again, even after
// it has returned to StateClosed.
type Server struct {
	cfg     *Config
	log     *log.Logger
	metrics *control.Metrics

	state   api.State
	started bool
	bound   api.Endpoint

	listener *transport.Listener
	poller   reactor.EventReactor
	paused   bool // listener out of the poll set while at the client limit
	clients  *registry.Registry
	queue    *outbound.Queue
	events   []reactor.Event
	rxBuf    []byte

	onConnect    api.ConnectFunc
	onDisconnect api.DisconnectFunc
	onReceive    api.ReceiveFunc
}

// Ensure compliance with api.Reactor.
var _ api.Reactor = (*Server)(nil)

// newReactor is swapped in tests to inject multiplexer failures.
var newReactor = reactor.NewReactor

// NewServer constructs a Server from cfg (DefaultConfig when nil) and options.
func NewServer(cfg *Config, opts ...ServerOption) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	own := *cfg
	s := &Server{cfg: &own}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.cfg.validate(); err != nil {
		return nil, err
	}

	s.log = s.cfg.Logger
	if s.log == nil {
		s.log = log.Default()
	}
	s.metrics = s.cfg.Metrics
	if s.metrics == nil {
		s.metrics = control.NewMetrics(nil)
	}
	s.clients = registry.New(s.cfg.ClientLimit)
	s.queue = outbound.New()
	s.onConnect = api.NopConnect
	s.onDisconnect = api.NopDisconnect
	s.onReceive = api.NopReceive
	return s, nil
}

// Start binds, listens and registers the listener with the multiplexer.
// On failure the server stays closed, holds no descriptors and may be
// started again.
func (s *Server) Start() error {
	if s.started {
		return api.ErrAlreadyStarted
	}

	ln, err := transport.Listen(s.cfg.Endpoint, s.cfg.backlog())
	if err != nil {
		phase := "listen"
		var pe *transport.PhaseError
		if errors.As(err, &pe) {
			phase = pe.Phase
		}
		return s.startError(phase, err)
	}
	poller, err := newReactor(s.cfg.MaxEvents)
	if err != nil {
		ln.Close()
		return s.startError("epoll", err)
	}
	if err := poller.Register(ln.Fd(), reactor.LevelTriggered); err != nil {
		poller.Close()
		ln.Close()
		return s.startError("register", err)
	}

	s.listener = ln
	s.poller = poller
	s.paused = false
	s.bound = ln.Endpoint()
	s.events = make([]reactor.Event, s.cfg.MaxEvents)
	s.rxBuf = make([]byte, s.cfg.ReceiveBufferSize)
	s.started = true
	s.state = api.StateRunning
	s.logf("started on %s (client limit %d)", s.bound, s.cfg.ClientLimit)
	return nil
}

func (s *Server) startError(phase string, err error) error {
	s.logf("start failed during %s: %v", phase, err)
	return api.NewError(api.ErrCodeStartFailed, "start failed").
		WithContext("phase", phase).
		WithContext("endpoint", s.cfg.Endpoint.String()).
		Wrap(err)
}

// RequestStop asks a running server to shut down on the next Step.
func (s *Server) RequestStop() error {
	if s.state != api.StateRunning {
		return api.ErrNotRunning
	}
	s.state = api.StateClosing
	s.logf("stop requested")
	return nil
}

// State reports the lifecycle state.
func (s *Server) State() api.State {
	return s.state
}

// Endpoint returns the bound address once started (with the real port
// for TCP port 0), otherwise the configured one.
func (s *Server) Endpoint() api.Endpoint {
	if s.started {
		return s.bound
	}
	return s.cfg.Endpoint
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *control.Metrics {
	return s.metrics
}

// SetOnConnect installs the connect callback; nil restores the no-op.
func (s *Server) SetOnConnect(fn api.ConnectFunc) {
	if fn == nil {
		fn = api.NopConnect
	}
	s.onConnect = fn
}

// SetOnDisconnect installs the disconnect callback; nil restores the no-op.
func (s *Server) SetOnDisconnect(fn api.DisconnectFunc) {
	if fn == nil {
		fn = api.NopDisconnect
	}
	s.onDisconnect = fn
}

// SetOnReceive installs the receive callback; nil restores the no-op.
func (s *Server) SetOnReceive(fn api.ReceiveFunc) {
	if fn == nil {
		fn = api.NopReceive
	}
	s.onReceive = fn
}

// EnqueueSend copies payload and queues it for h. Whether h is still
// connected is decided at delivery time.
func (s *Server) EnqueueSend(h api.Handle, payload []byte) {
	s.queue.Push(outbound.Entry{Target: h, Payload: clone(payload)})
	s.metrics.QueueDepth.Set(float64(s.queue.Len()))
}

// EnqueueBroadcast queues payload once for every client connected now.
// Clients accepted later do not receive it.
func (s *Server) EnqueueBroadcast(payload []byte) {
	p := clone(payload)
	for _, h := range s.clients.Snapshot() {
		s.queue.Push(outbound.Entry{Target: h, Payload: p})
	}
	s.metrics.QueueDepth.Set(float64(s.queue.Len()))
}

// Connections returns the connected handles in accept order.
func (s *Server) Connections() []api.Handle {
	return s.clients.Snapshot()
}

// Pending returns the number of queued outbound entries.
func (s *Server) Pending() int {
	return s.queue.Len()
}

// Disconnect closes h and fires the disconnect callback. Unknown handles
// are ignored, so calling it twice is safe.
func (s *Server) Disconnect(h api.Handle) {
	s.disconnect(h)
}

func (s *Server) logf(format string, args ...any) {
	if s.cfg.Verbose {
		s.log.Printf("[server] "+format, args...)
	}
}

func clone(p []byte) []byte {
	out := make([]byte, len(p))
	copy(out, p)
	return out
}
