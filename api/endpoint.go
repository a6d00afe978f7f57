// File: api/endpoint.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Endpoint describes what a Reactor listens on: a Unix-domain path or a TCP address.

package api

import (
	"fmt"
	"net/netip"
)

// EndpointKind tags the Endpoint variant.
type EndpointKind int

const (
	EndpointInvalid EndpointKind = iota
	EndpointUnix
	EndpointTCP
)

func (k EndpointKind) String() string {
	switch k {
	case EndpointUnix:
		return "unix"
	case EndpointTCP:
		return "tcp"
	default:
		return "invalid"
	}
}

// Endpoint is an immutable tagged union. The zero value is invalid.
type Endpoint struct {
	kind EndpointKind
	path string
	addr netip.AddrPort
}

// UnixEndpoint returns an endpoint for a Unix-domain stream socket at path.
func UnixEndpoint(path string) Endpoint {
	return Endpoint{kind: EndpointUnix, path: path}
}

// TCPEndpoint returns an endpoint for a TCP socket bound to addr.
// Port 0 asks the kernel for an ephemeral port.
func TCPEndpoint(addr netip.AddrPort) Endpoint {
	return Endpoint{kind: EndpointTCP, addr: addr}
}

// ParseTCPEndpoint parses "ip:port" with a literal IPv4 or IPv6 address.
// Host names are not resolved.
func ParseTCPEndpoint(s string) (Endpoint, error) {
	ap, err := netip.ParseAddrPort(s)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: tcp endpoint %q: %v", ErrInvalidArgument, s, err)
	}
	return TCPEndpoint(ap), nil
}

// Kind reports which variant e holds.
func (e Endpoint) Kind() EndpointKind { return e.kind }

// Path returns the socket path of a Unix endpoint.
func (e Endpoint) Path() string { return e.path }

// AddrPort returns the address of a TCP endpoint.
func (e Endpoint) AddrPort() netip.AddrPort { return e.addr }

// Valid reports whether e can be handed to a transport binder.
func (e Endpoint) Valid() bool {
	switch e.kind {
	case EndpointUnix:
		return e.path != ""
	case EndpointTCP:
		return e.addr.Addr().IsValid()
	default:
		return false
	}
}

func (e Endpoint) String() string {
	switch e.kind {
	case EndpointUnix:
		return "unix:" + e.path
	case EndpointTCP:
		return "tcp:" + e.addr.String()
	default:
		return "invalid"
	}
}
