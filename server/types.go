// File: server/types.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"fmt"
	"log"
	"time"

	"github.com/momentics/sockreactor/api"
	"github.com/momentics/sockreactor/control"
)

// Config holds all server-side configuration parameters.
type Config struct {
	Endpoint          api.Endpoint     // listen target: Unix path or TCP address
	ClientLimit       int              // maximum simultaneously accepted clients
	PollTimeout       time.Duration    // upper bound on the wait inside one Step
	MaxEvents         int              // readiness events handled per Step
	ReceiveBufferSize int              // size of each read attempt
	Backlog           int              // listen(2) backlog; 0 means ClientLimit
	Verbose           bool             // log connection events
	Logger            *log.Logger      // verbose log sink; nil means log.Default()
	Metrics           *control.Metrics // nil means unregistered collectors
}

// DefaultConfig returns sensible defaults. Endpoint must still be set.
func DefaultConfig() *Config {
	return &Config{
		ClientLimit:       1,
		PollTimeout:       10 * time.Millisecond,
		MaxEvents:         64,
		ReceiveBufferSize: 64 * 1024,
	}
}

func (c *Config) validate() error {
	switch {
	case !c.Endpoint.Valid():
		return fmt.Errorf("%w: endpoint %s", api.ErrInvalidArgument, c.Endpoint)
	case c.ClientLimit < 1:
		return fmt.Errorf("%w: client limit %d", api.ErrInvalidArgument, c.ClientLimit)
	case c.PollTimeout < 0:
		return fmt.Errorf("%w: poll timeout %s", api.ErrInvalidArgument, c.PollTimeout)
	case c.MaxEvents < 1:
		return fmt.Errorf("%w: max events %d", api.ErrInvalidArgument, c.MaxEvents)
	case c.ReceiveBufferSize < 1:
		return fmt.Errorf("%w: receive buffer size %d", api.ErrInvalidArgument, c.ReceiveBufferSize)
	case c.Backlog < 0:
		return fmt.Errorf("%w: backlog %d", api.ErrInvalidArgument, c.Backlog)
	}
	return nil
}

func (c *Config) backlog() int {
	if c.Backlog > 0 {
		return c.Backlog
	}
	return c.ClientLimit
}
