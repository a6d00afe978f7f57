package api

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnixEndpoint(t *testing.T) {
	ep := UnixEndpoint("/tmp/reactor.sock")
	assert.Equal(t, EndpointUnix, ep.Kind())
	assert.Equal(t, "/tmp/reactor.sock", ep.Path())
	assert.True(t, ep.Valid())
	assert.Equal(t, "unix:/tmp/reactor.sock", ep.String())

	assert.False(t, UnixEndpoint("").Valid())
}

func TestParseTCPEndpoint(t *testing.T) {
	ep, err := ParseTCPEndpoint("127.0.0.1:20000")
	require.NoError(t, err)
	assert.Equal(t, EndpointTCP, ep.Kind())
	assert.Equal(t, netip.MustParseAddrPort("127.0.0.1:20000"), ep.AddrPort())
	assert.True(t, ep.Valid())
	assert.Equal(t, "tcp:127.0.0.1:20000", ep.String())

	ep, err = ParseTCPEndpoint("[::1]:0")
	require.NoError(t, err)
	assert.True(t, ep.AddrPort().Addr().Is6())

	_, err = ParseTCPEndpoint("localhost:80")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestZeroEndpointInvalid(t *testing.T) {
	var ep Endpoint
	assert.Equal(t, EndpointInvalid, ep.Kind())
	assert.False(t, ep.Valid())
	assert.Equal(t, "invalid", ep.String())
	assert.False(t, TCPEndpoint(netip.AddrPort{}).Valid())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "closing", StateClosing.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewError(ErrCodeStartFailed, "start failed").WithContext("phase", "bind").Wrap(cause)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "phase:bind")
	assert.Contains(t, err.Error(), "boom")

	var apiErr *Error
	require.True(t, errors.As(error(err), &apiErr))
	assert.Equal(t, ErrCodeStartFailed, apiErr.Code)
}
