// File: server/run.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"context"

	"github.com/momentics/sockreactor/api"
)

// Run drives Step on the calling goroutine until the server is closed.
// Cancelling ctx requests a stop; Run returns after the shutdown sweep
// with ctx.Err(), or nil when the stop came from elsewhere.
func (s *Server) Run(ctx context.Context) error {
	if s.state == api.StateClosed {
		return api.ErrNotRunning
	}
	done := ctx.Done()
	for s.state != api.StateClosed {
		select {
		case <-done:
			if s.state == api.StateRunning {
				s.RequestStop()
			}
			done = nil
		default:
		}
		s.Step()
	}
	return ctx.Err()
}
