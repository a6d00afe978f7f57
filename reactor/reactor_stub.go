//go:build !linux
// +build !linux

// File: reactor/reactor_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package reactor

import (
	"fmt"

	"github.com/momentics/sockreactor/api"
)

// NewReactor returns an error for unsupported platforms.
func NewReactor(maxEvents int) (EventReactor, error) {
	return nil, fmt.Errorf("reactor: %w", api.ErrNotSupported)
}
