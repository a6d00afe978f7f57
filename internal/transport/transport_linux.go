//go:build linux
// +build linux

// File: internal/transport/transport_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux stream-socket binder and non-blocking I/O on raw descriptors.

package transport

import (
	"errors"
	"fmt"
	"net/netip"

	"golang.org/x/sys/unix"

	"github.com/momentics/sockreactor/api"
)

// Listen creates a socket for ep, binds it, starts listening with the given
// backlog and switches it to non-blocking mode. For Unix endpoints any file
// already present at the path is removed first. On failure every descriptor
// created here is closed and the returned error is a *PhaseError.
func Listen(ep api.Endpoint, backlog int) (*Listener, error) {
	if !ep.Valid() {
		return nil, &PhaseError{Phase: "endpoint", Err: fmt.Errorf("%w: %s", api.ErrInvalidArgument, ep)}
	}
	domain, sa := sockaddr(ep)

	if ep.Kind() == api.EndpointUnix {
		// stale socket from a previous run
		_ = unix.Unlink(ep.Path())
	}

	fd, err := unix.Socket(domain, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, &PhaseError{Phase: "socket", Err: err}
	}
	if ep.Kind() == api.EndpointTCP {
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, &PhaseError{Phase: "bind", Err: err}
	}
	// past bind a Unix endpoint owns a file on disk
	abandon := func(phase string, err error) error {
		unix.Close(fd)
		if ep.Kind() == api.EndpointUnix {
			_ = unix.Unlink(ep.Path())
		}
		return &PhaseError{Phase: phase, Err: err}
	}
	if err := sysListen(fd, backlog); err != nil {
		return nil, abandon("listen", err)
	}
	if err := sysSetNonblock(fd, true); err != nil {
		return nil, abandon("nonblock", err)
	}
	return &Listener{fd: fd, ep: ep}, nil
}

// Replaced in tests to reach the failure branches after bind.
var (
	sysListen      = unix.Listen
	sysSetNonblock = unix.SetNonblock
)

func sockaddr(ep api.Endpoint) (int, unix.Sockaddr) {
	if ep.Kind() == api.EndpointUnix {
		return unix.AF_UNIX, &unix.SockaddrUnix{Name: ep.Path()}
	}
	ap := ep.AddrPort()
	addr := ap.Addr()
	if addr.Is4() || addr.Is4In6() {
		return unix.AF_INET, &unix.SockaddrInet4{Port: int(ap.Port()), Addr: addr.Unmap().As4()}
	}
	return unix.AF_INET6, &unix.SockaddrInet6{Port: int(ap.Port()), Addr: addr.As16()}
}

// Accept takes one pending connection. The returned descriptor is blocking;
// callers configure it with SetNonblock.
func (l *Listener) Accept() (int, error) {
	for {
		fd, _, err := unix.Accept4(l.fd, unix.SOCK_CLOEXEC)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return fd, err
	}
}

// Endpoint reports the address the socket is actually bound to, which
// differs from the configured one when a TCP port of 0 was requested.
func (l *Listener) Endpoint() api.Endpoint {
	sa, err := unix.Getsockname(l.fd)
	if err != nil {
		return l.ep
	}
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return api.TCPEndpoint(netip.AddrPortFrom(netip.AddrFrom4(a.Addr), uint16(a.Port)))
	case *unix.SockaddrInet6:
		return api.TCPEndpoint(netip.AddrPortFrom(netip.AddrFrom16(a.Addr), uint16(a.Port)))
	default:
		return l.ep
	}
}

// Close closes the listening socket.
func (l *Listener) Close() error {
	return unix.Close(l.fd)
}

// SetNonblock switches fd to non-blocking mode.
func SetNonblock(fd int) error {
	return unix.SetNonblock(fd, true)
}

// CloseFD closes a client descriptor.
func CloseFD(fd int) error {
	return unix.Close(fd)
}

// Read performs one read attempt on a non-blocking descriptor. EINTR is
// retried so an interrupted read never ends an edge-triggered drain early.
func Read(fd int, buf []byte) ReadResult {
	for {
		n, err := unix.Read(fd, buf)
		switch {
		case err == nil && n > 0:
			return ReadResult{Kind: ReadData, N: n}
		case err == nil:
			return ReadResult{Kind: ReadPeerClosed}
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EWOULDBLOCK):
			return ReadResult{Kind: ReadWouldBlock}
		default:
			return ReadResult{Kind: ReadFatal, Err: err}
		}
	}
}

// Write performs one send attempt on a non-blocking descriptor. MSG_NOSIGNAL
// turns a write to a closed peer into EPIPE instead of SIGPIPE.
func Write(fd int, p []byte) WriteResult {
	for {
		n, err := unix.SendmsgN(fd, p, nil, nil, unix.MSG_NOSIGNAL)
		switch {
		case err == nil && n > 0:
			return WriteResult{Kind: WriteProgress, N: n}
		case err == nil:
			return WriteResult{Kind: WriteWouldBlock}
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EWOULDBLOCK):
			return WriteResult{Kind: WriteWouldBlock}
		default:
			return WriteResult{Kind: WriteFatal, Err: err}
		}
	}
}
