// File: internal/registry/registry.go
// Package registry
// Author: momentics <momentics@gmail.com>
//
// Bounded set of accepted client connections, keyed by handle and by fd.
// Not safe for concurrent use; owned by the server's driving goroutine.

package registry

import "github.com/momentics/sockreactor/api"

// Registry tracks accepted clients in accept order.
type Registry struct {
	limit   int
	order   []api.Handle
	fds     map[api.Handle]int
	handles map[int]api.Handle
	next    api.Handle
}

// New creates a registry admitting at most limit clients.
func New(limit int) *Registry {
	return &Registry{
		limit:   limit,
		order:   make([]api.Handle, 0, limit),
		fds:     make(map[api.Handle]int, limit),
		handles: make(map[int]api.Handle, limit),
	}
}

// Full reports whether the client limit has been reached.
func (r *Registry) Full() bool {
	return len(r.order) >= r.limit
}

// Len returns the number of registered clients.
func (r *Registry) Len() int {
	return len(r.order)
}

// Add registers fd under a fresh handle. It returns false when the
// registry is full or fd is already present.
func (r *Registry) Add(fd int) (api.Handle, bool) {
	if r.Full() {
		return 0, false
	}
	if _, dup := r.handles[fd]; dup {
		return 0, false
	}
	r.next++
	h := r.next
	r.order = append(r.order, h)
	r.fds[h] = fd
	r.handles[fd] = h
	return h, true
}

// Remove drops h and returns its fd. ok is false if h is unknown.
func (r *Registry) Remove(h api.Handle) (fd int, ok bool) {
	fd, ok = r.fds[h]
	if !ok {
		return -1, false
	}
	delete(r.fds, h)
	delete(r.handles, fd)
	for i, v := range r.order {
		if v == h {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return fd, true
}

// FD looks up the descriptor of h.
func (r *Registry) FD(h api.Handle) (int, bool) {
	fd, ok := r.fds[h]
	return fd, ok
}

// Handle looks up the handle that owns fd.
func (r *Registry) Handle(fd int) (api.Handle, bool) {
	h, ok := r.handles[fd]
	return h, ok
}

// Contains reports whether h is registered.
func (r *Registry) Contains(h api.Handle) bool {
	_, ok := r.fds[h]
	return ok
}

// Snapshot returns a copy of the handles in accept order.
func (r *Registry) Snapshot() []api.Handle {
	out := make([]api.Handle, len(r.order))
	copy(out, r.order)
	return out
}
