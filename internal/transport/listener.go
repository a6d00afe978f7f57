// Package transport
// Author: momentics <momentics@gmail.com>

package transport

import "github.com/momentics/sockreactor/api"

// Listener owns one bound, listening, non-blocking socket.
type Listener struct {
	fd int
	ep api.Endpoint
}

// Fd returns the native descriptor, for readiness registration only.
func (l *Listener) Fd() int {
	return l.fd
}
