// File: server/step.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// One reactor iteration: poll, dispatch accept/read, deliver one entry.

package server

import (
	"github.com/momentics/sockreactor/api"
	"github.com/momentics/sockreactor/internal/outbound"
	"github.com/momentics/sockreactor/internal/transport"
	"github.com/momentics/sockreactor/reactor"
)

// Step advances the server by one iteration. It blocks for at most the
// configured poll timeout. Step is not reentrant and must not be called
// from a callback.
func (s *Server) Step() {
	switch s.state {
	case api.StateClosed:
		return
	case api.StateClosing:
		s.shutdown()
		return
	}

	n, err := s.poller.Wait(s.events, s.cfg.PollTimeout)
	if err != nil {
		s.metrics.PollErrors.Inc()
		s.logf("poll failed: %v", err)
		return
	}

	lfd := s.listener.Fd()
	for i := 0; i < n; i++ {
		fd := s.events[i].Fd
		if fd == lfd {
			s.accept()
			continue
		}
		if h, ok := s.clients.Handle(fd); ok {
			s.drain(h, fd)
		}
	}

	s.deliver()
}

// accept takes at most one pending connection. The listener is
// level-triggered, so anything left in the backlog is reported again.
// At the client limit the listener leaves the poll set until a slot frees,
// and the waiting connection stays in the kernel backlog.
func (s *Server) accept() {
	if s.clients.Full() {
		s.metrics.Rejected.Inc()
		s.logf("rejected client: limit of %d reached", s.cfg.ClientLimit)
		s.pauseAccept()
		return
	}

	fd, err := s.listener.Accept()
	if err != nil {
		s.metrics.AcceptErrors.Inc()
		s.logf("accept failed: %v", err)
		return
	}
	if err := transport.SetNonblock(fd); err != nil {
		transport.CloseFD(fd)
		s.metrics.AcceptErrors.Inc()
		s.logf("accepted fd=%d could not be made non-blocking: %v", fd, err)
		return
	}
	if err := s.poller.Register(fd, reactor.EdgeTriggered); err != nil {
		transport.CloseFD(fd)
		s.metrics.AcceptErrors.Inc()
		s.logf("accepted fd=%d could not be registered: %v", fd, err)
		return
	}
	h, ok := s.clients.Add(fd)
	if !ok {
		s.poller.Unregister(fd)
		transport.CloseFD(fd)
		s.metrics.AcceptErrors.Inc()
		s.logf("accepted fd=%d could not be added to the registry", fd)
		return
	}

	s.metrics.Accepted.Inc()
	s.metrics.Connections.Set(float64(s.clients.Len()))
	s.logf("accepted client %s (fd=%d)", h, fd)
	s.onConnect(h)
}

// drain reads fd until it would block. Client sockets are edge-triggered,
// so stopping early would strand the remaining bytes.
func (s *Server) drain(h api.Handle, fd int) {
	for {
		res := transport.Read(fd, s.rxBuf)
		switch res.Kind {
		case transport.ReadData:
			payload := make([]byte, res.N)
			copy(payload, s.rxBuf[:res.N])
			s.metrics.BytesReceived.Add(float64(res.N))
			s.logf("received %d bytes from client %s", res.N, h)
			s.onReceive(h, payload)
			if !s.clients.Contains(h) {
				return
			}
		case transport.ReadWouldBlock:
			return
		case transport.ReadPeerClosed:
			s.logf("client %s closed the connection", h)
			s.disconnect(h)
			return
		default:
			s.logf("read from client %s failed: %v", h, res.Err)
			s.disconnect(h)
			return
		}
	}
}

// disconnect unregisters, closes and forgets h, then notifies the callback.
func (s *Server) disconnect(h api.Handle) {
	fd, ok := s.clients.FD(h)
	if !ok {
		return
	}
	if err := s.poller.Unregister(fd); err != nil {
		s.logf("unregister client %s: %v", h, err)
	}
	if err := transport.CloseFD(fd); err != nil {
		s.logf("close client %s: %v", h, err)
	}
	s.clients.Remove(h)

	s.metrics.Disconnects.Inc()
	s.metrics.Connections.Set(float64(s.clients.Len()))
	s.logf("disconnected client %s", h)
	if s.state == api.StateRunning {
		s.resumeAccept()
	}
	s.onDisconnect(h)
}

// pauseAccept removes the listener from the poll set so a full server
// does not wake on every Step for a connection it cannot take.
func (s *Server) pauseAccept() {
	if s.paused {
		return
	}
	if err := s.poller.Unregister(s.listener.Fd()); err != nil {
		s.logf("pause listener: %v", err)
		return
	}
	s.paused = true
}

// resumeAccept puts the listener back once a slot is free.
func (s *Server) resumeAccept() {
	if !s.paused || s.clients.Full() {
		return
	}
	if err := s.poller.Register(s.listener.Fd(), reactor.LevelTriggered); err != nil {
		s.metrics.PollErrors.Inc()
		s.logf("resume listener: %v", err)
		return
	}
	s.paused = false
}

// deliver writes the oldest queued entry. A would-block write pushes the
// unsent suffix back to the front of the queue and yields.
func (s *Server) deliver() {
	e, ok := s.queue.Pop()
	if !ok {
		return
	}
	defer func() { s.metrics.QueueDepth.Set(float64(s.queue.Len())) }()

	fd, ok := s.clients.FD(e.Target)
	if !ok {
		s.metrics.DroppedEntries.Inc()
		s.logf("dropped %d bytes for departed client %s", len(e.Payload), e.Target)
		return
	}

	for off := 0; off < len(e.Payload); {
		res := transport.Write(fd, e.Payload[off:])
		switch res.Kind {
		case transport.WriteProgress:
			off += res.N
			s.metrics.BytesSent.Add(float64(res.N))
		case transport.WriteWouldBlock:
			s.queue.PushFront(outbound.Entry{Target: e.Target, Payload: e.Payload[off:]})
			s.metrics.Requeued.Inc()
			return
		default:
			s.logf("write to client %s failed: %v", e.Target, res.Err)
			s.disconnect(e.Target)
			return
		}
	}
}

// shutdown disconnects every client, discards queued output and releases
// the listener and the multiplexer.
func (s *Server) shutdown() {
	for _, h := range s.clients.Snapshot() {
		s.disconnect(h)
	}
	s.queue.Clear()
	s.metrics.QueueDepth.Set(0)

	if !s.paused {
		if err := s.poller.Unregister(s.listener.Fd()); err != nil {
			s.logf("unregister listener: %v", err)
		}
	}
	if err := s.listener.Close(); err != nil {
		s.logf("close listener: %v", err)
	}
	if err := s.poller.Close(); err != nil {
		s.logf("close poller: %v", err)
	}
	s.listener = nil
	s.poller = nil
	s.state = api.StateClosed
	s.logf("stopped")
}
