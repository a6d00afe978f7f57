//go:build linux
// +build linux

// File: reactor/reactor_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based readiness multiplexer.

package reactor

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// linuxReactor is an epoll-based event reactor.
type linuxReactor struct {
	epfd int
	raw  []unix.EpollEvent // reused across Wait calls
}

// NewReactor constructs an epoll instance that reports up to maxEvents
// descriptors per Wait.
func NewReactor(maxEvents int) (EventReactor, error) {
	if maxEvents <= 0 {
		return nil, fmt.Errorf("epoll: maxEvents must be positive, got %d", maxEvents)
	}
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	return &linuxReactor{
		epfd: epfd,
		raw:  make([]unix.EpollEvent, maxEvents),
	}, nil
}

// Register adds fd to epoll for readable interest.
func (r *linuxReactor) Register(fd int, trigger Trigger) error {
	ev := unix.EpollEvent{
		Events: unix.EPOLLIN | unix.EPOLLRDHUP,
		Fd:     int32(fd),
	}
	if trigger == EdgeTriggered {
		ev.Events |= unix.EPOLLET
	}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl add fd=%d: %w", fd, err)
	}
	return nil
}

// Unregister removes fd from epoll.
func (r *linuxReactor) Unregister(fd int) error {
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("epoll ctl del fd=%d: %w", fd, err)
	}
	return nil
}

// Wait waits for epoll events and fills the result into events slice.
func (r *linuxReactor) Wait(events []Event, timeout time.Duration) (int, error) {
	raw := r.raw
	if len(events) < len(raw) {
		raw = raw[:len(events)]
	}
	if len(raw) == 0 {
		return 0, nil
	}
	n, err := unix.EpollWait(r.epfd, raw, timeoutMillis(timeout))
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, fmt.Errorf("epoll wait: %w", err)
	}
	for i := 0; i < n; i++ {
		mask := raw[i].Events
		events[i] = Event{
			Fd:       int(raw[i].Fd),
			Readable: mask&unix.EPOLLIN != 0,
			Hangup:   mask&(unix.EPOLLHUP|unix.EPOLLRDHUP) != 0,
			Err:      mask&unix.EPOLLERR != 0,
		}
	}
	return n, nil
}

// Close closes the epoll instance.
func (r *linuxReactor) Close() error {
	return unix.Close(r.epfd)
}
