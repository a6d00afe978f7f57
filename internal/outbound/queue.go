// File: internal/outbound/queue.go
// Package outbound
// Author: momentics <momentics@gmail.com>
//
// FIFO of pending (target, payload) deliveries. The tail is an eapache ring
// queue; entries pushed back after a partial write go to a small front stack
// so they are delivered before anything queued later.

package outbound

import (
	"github.com/eapache/queue"

	"github.com/momentics/sockreactor/api"
)

// Entry is one queued delivery. Payload is never mutated after enqueue.
type Entry struct {
	Target  api.Handle
	Payload []byte
}

// Queue is not safe for concurrent use.
type Queue struct {
	front []Entry // LIFO; last element is the head of the queue
	tail  *queue.Queue
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{tail: queue.New()}
}

// Push appends e at the back.
func (q *Queue) Push(e Entry) {
	q.tail.Add(e)
}

// PushFront makes e the next entry Pop returns.
func (q *Queue) PushFront(e Entry) {
	q.front = append(q.front, e)
}

// Pop removes and returns the oldest entry.
func (q *Queue) Pop() (Entry, bool) {
	if n := len(q.front); n > 0 {
		e := q.front[n-1]
		q.front[n-1] = Entry{}
		q.front = q.front[:n-1]
		return e, true
	}
	if q.tail.Length() == 0 {
		return Entry{}, false
	}
	return q.tail.Remove().(Entry), true
}

// Len returns the number of queued entries.
func (q *Queue) Len() int {
	return len(q.front) + q.tail.Length()
}

// Clear discards every entry.
func (q *Queue) Clear() {
	q.front = nil
	q.tail = queue.New()
}
