// File: api/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Defines the capability set of a single-threaded, callback-driven connection reactor.

package api

// Reactor is driven by repeated calls to Step from one goroutine.
// None of its methods are safe for concurrent use.
type Reactor interface {
	// Start binds and listens on the configured endpoint.
	Start() error

	// RequestStop moves a running reactor to StateClosing; the next Step
	// disconnects every client and closes the listener.
	RequestStop() error

	// State reports the current lifecycle state.
	State() State

	// Step polls once (bounded by the poll timeout), dispatches ready
	// descriptors and attempts one outbound delivery.
	Step()

	// EnqueueSend queues payload for h. The handle is checked at delivery time.
	EnqueueSend(h Handle, payload []byte)

	// EnqueueBroadcast queues payload for every client connected right now.
	EnqueueBroadcast(payload []byte)

	SetOnConnect(fn ConnectFunc)
	SetOnDisconnect(fn DisconnectFunc)
	SetOnReceive(fn ReceiveFunc)

	// Connections returns a snapshot of connected handles in accept order.
	Connections() []Handle
}
