//go:build !linux
// +build !linux

// Package transport
// Author: momentics <momentics@gmail.com>
//
// Stub for platforms without the epoll-based server.

package transport

import "github.com/momentics/sockreactor/api"

// Listen always fails on this platform.
func Listen(ep api.Endpoint, backlog int) (*Listener, error) {
	return nil, &PhaseError{Phase: "socket", Err: api.ErrNotSupported}
}

func (l *Listener) Accept() (int, error) { return -1, api.ErrNotSupported }
func (l *Listener) Endpoint() api.Endpoint { return l.ep }
func (l *Listener) Close() error { return api.ErrNotSupported }
func SetNonblock(fd int) error { return api.ErrNotSupported }
func CloseFD(fd int) error { return api.ErrNotSupported }
func Read(fd int, buf []byte) ReadResult { return ReadResult{Kind: ReadFatal, Err: api.ErrNotSupported} }
func Write(fd int, p []byte) WriteResult { return WriteResult{Kind: WriteFatal, Err: api.ErrNotSupported} }
