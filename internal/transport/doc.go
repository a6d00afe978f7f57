// File: internal/transport/doc.go
// Package transport
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Raw stream-socket primitives for the connection server: binding a
// non-blocking listener to an api.Endpoint, accepting clients, and single
// non-blocking read/write attempts classified into tagged results.
// Linux only; other platforms report api.ErrNotSupported.

package transport
