// File: api/events.go
// Package api defines the callback signatures invoked by a Reactor.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// ConnectFunc is invoked after a client has been accepted and registered.
type ConnectFunc func(h Handle)

// DisconnectFunc is invoked after a client has been closed and removed.
type DisconnectFunc func(h Handle)

// ReceiveFunc is invoked for each chunk drained from a client.
// The payload is a fresh slice owned by the callee.
type ReceiveFunc func(h Handle, payload []byte)

// NopConnect is the default ConnectFunc.
func NopConnect(Handle) {}

// NopDisconnect is the default DisconnectFunc.
func NopDisconnect(Handle) {}

// NopReceive is the default ReceiveFunc.
func NopReceive(Handle, []byte) {}
