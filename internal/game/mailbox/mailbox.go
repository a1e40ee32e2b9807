// Package mailbox provides the per-power event queues the conductor fans
// out to.
//
// Each registered power owns one unbounded FIFO mailbox. Delivery order
// within a mailbox always equals the conductor's global broadcast-issue
// order; no event is dropped or deduplicated. Closing the registry is the
// terminal signal participant loops observe to exit: a closed mailbox still
// drains queued events before reporting closure.
package mailbox

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/louisbranch/diplomacy.space/internal/game/event"
)

var (
	// ErrRegistryClosed indicates an operation on a closed registry.
	ErrRegistryClosed = errors.New("mailbox registry is closed")
	// ErrAlreadyRegistered indicates a duplicate power registration.
	ErrAlreadyRegistered = errors.New("power is already registered")
	// ErrUnregisteredPower indicates a broadcast addressed to a power that
	// was never registered. This is a match-setup fault, not a runtime
	// condition, and callers must treat it as fatal.
	ErrUnregisteredPower = errors.New("power is not registered")
)

// Mailbox is one power's ordered event queue. It is consumed exclusively by
// that power's participant loop.
type Mailbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []event.Event
	closed bool
}

func newMailbox() *Mailbox {
	m := &Mailbox{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

func (m *Mailbox) push(ev event.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.queue = append(m.queue, ev)
	m.cond.Signal()
}

func (m *Mailbox) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.cond.Broadcast()
}

// Receive blocks until the next event is available. It returns false once
// the mailbox is closed and fully drained.
func (m *Mailbox) Receive() (event.Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.queue) == 0 && !m.closed {
		m.cond.Wait()
	}
	if len(m.queue) == 0 {
		return event.Event{}, false
	}
	ev := m.queue[0]
	m.queue = m.queue[1:]
	return ev, true
}

// Len reports the number of queued, undelivered events.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Registry owns one mailbox per registered power and is the conductor's sole
// fan-out target.
type Registry struct {
	mu     sync.Mutex
	boxes  map[string]*Mailbox
	closed bool
}

// NewRegistry creates an empty mailbox registry.
func NewRegistry() *Registry {
	return &Registry{boxes: make(map[string]*Mailbox)}
}

// Register creates an empty mailbox for power. All registrations must happen
// before the match begins.
func (r *Registry) Register(power string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRegistryClosed
	}
	if _, ok := r.boxes[power]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, power)
	}
	r.boxes[power] = newMailbox()
	return nil
}

// Mailbox returns the mailbox owned by power.
func (r *Registry) Mailbox(power string) (*Mailbox, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.boxes[power]
	return m, ok
}

// Powers returns the registered powers in sorted order.
func (r *Registry) Powers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	powers := make([]string, 0, len(r.boxes))
	for p := range r.boxes {
		powers = append(powers, p)
	}
	sort.Strings(powers)
	return powers
}

// Broadcast pushes ev onto the mailbox of every power in recipients. A nil
// recipients slice addresses every registered power. The sender's own mailbox
// receives the event whenever the sender is among the targets; callers must
// include the sender explicitly for directed events (self-echo).
func (r *Registry) Broadcast(ev event.Event, recipients []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRegistryClosed
	}

	if recipients == nil {
		for _, m := range r.boxes {
			m.push(ev)
		}
		return nil
	}

	// Validate the full set before delivering so a registry fault never
	// results in partial delivery.
	for _, power := range recipients {
		if _, ok := r.boxes[power]; !ok {
			return fmt.Errorf("%w: %s", ErrUnregisteredPower, power)
		}
	}
	seen := make(map[string]bool, len(recipients))
	for _, power := range recipients {
		if seen[power] {
			continue
		}
		seen[power] = true
		r.boxes[power].push(ev)
	}
	return nil
}

// Close marks the registry terminal and wakes every blocked receiver. Queued
// events remain receivable; subsequent broadcasts fail.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	for _, m := range r.boxes {
		m.close()
	}
}
