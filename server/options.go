// File: server/options.go
// Package server defines functional options for the Server.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"log"
	"time"

	"github.com/momentics/sockreactor/api"
	"github.com/momentics/sockreactor/control"
)

// ServerOption customizes server initialization.
type ServerOption func(*Server)

// WithEndpoint sets the listen target.
func WithEndpoint(ep api.Endpoint) ServerOption {
	return func(s *Server) {
		s.cfg.Endpoint = ep
	}
}

// WithClientLimit caps the number of simultaneously accepted clients.
func WithClientLimit(n int) ServerOption {
	return func(s *Server) {
		s.cfg.ClientLimit = n
	}
}

// WithPollTimeout bounds how long one Step may block.
func WithPollTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		s.cfg.PollTimeout = d
	}
}

// WithMaxEvents overrides the readiness batch size.
func WithMaxEvents(n int) ServerOption {
	return func(s *Server) {
		s.cfg.MaxEvents = n
	}
}

// WithReceiveBufferSize sets the size of each read attempt.
func WithReceiveBufferSize(n int) ServerOption {
	return func(s *Server) {
		s.cfg.ReceiveBufferSize = n
	}
}

// WithBacklog sets the listen backlog.
func WithBacklog(n int) ServerOption {
	return func(s *Server) {
		s.cfg.Backlog = n
	}
}

// WithVerbose enables the human-readable event log.
func WithVerbose(v bool) ServerOption {
	return func(s *Server) {
		s.cfg.Verbose = v
	}
}

// WithLogger redirects the verbose log.
func WithLogger(l *log.Logger) ServerOption {
	return func(s *Server) {
		s.cfg.Logger = l
	}
}

// WithMetrics attaches externally registered collectors.
func WithMetrics(m *control.Metrics) ServerOption {
	return func(s *Server) {
		s.cfg.Metrics = m
	}
}
