// Package transport
// Author: momentics <momentics@gmail.com>
//
// Tagged outcomes of one non-blocking read or write attempt.

package transport

import "fmt"

// ReadKind classifies one read attempt.
type ReadKind int

const (
	ReadData       ReadKind = iota // N > 0 bytes were read
	ReadWouldBlock                 // nothing available right now
	ReadPeerClosed                 // orderly EOF from the peer
	ReadFatal                      // any other error; Err is set
)

func (k ReadKind) String() string {
	switch k {
	case ReadData:
		return "data"
	case ReadWouldBlock:
		return "would-block"
	case ReadPeerClosed:
		return "peer-closed"
	case ReadFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ReadResult is the outcome of Read.
type ReadResult struct {
	Kind ReadKind
	N    int
	Err  error
}

// WriteKind classifies one write attempt.
type WriteKind int

const (
	WriteProgress   WriteKind = iota // N > 0 bytes were written
	WriteWouldBlock                  // socket send buffer is full
	WriteFatal                       // connection is unusable; Err is set
)

func (k WriteKind) String() string {
	switch k {
	case WriteProgress:
		return "progress"
	case WriteWouldBlock:
		return "would-block"
	case WriteFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// WriteResult is the outcome of Write.
type WriteResult struct {
	Kind WriteKind
	N    int
	Err  error
}

// PhaseError reports which step of listener setup failed.
type PhaseError struct {
	Phase string // socket, bind, listen, nonblock
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}
