// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral readiness multiplexer interface.

package reactor

import (
	"math"
	"time"
)

// Trigger selects how readiness is reported for a descriptor.
type Trigger int

const (
	// LevelTriggered reports a descriptor on every Wait while it stays ready.
	LevelTriggered Trigger = iota
	// EdgeTriggered reports a descriptor once per readiness transition;
	// the consumer must drain it until EAGAIN.
	EdgeTriggered
)

// EventReactor defines basic readiness operations.
type EventReactor interface {
	// Register adds fd with readable interest.
	Register(fd int, trigger Trigger) error

	// Unregister removes fd from the interest set.
	Unregister(fd int) error

	// Wait blocks for at most timeout (negative blocks forever) and writes
	// ready descriptors into events. An interrupted wait returns 0, nil.
	Wait(events []Event, timeout time.Duration) (n int, err error)

	// Close releases the underlying OS handle.
	Close() error
}

// Event contains readiness information returned by Wait.
type Event struct {
	Fd       int
	Readable bool
	Hangup   bool // peer hung up (EPOLLHUP / EPOLLRDHUP)
	Err      bool // error condition on the descriptor
}

// timeoutMillis converts d to the millisecond argument of epoll_wait,
// rounding sub-millisecond positive values up so they do not become a busy poll.
// The kernel takes a 32-bit int, so longer waits are capped at MaxInt32.
func timeoutMillis(d time.Duration) int {
	if d < 0 {
		return -1
	}
	ms := d / time.Millisecond
	if d%time.Millisecond != 0 {
		ms++
	}
	if ms > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(ms)
}
