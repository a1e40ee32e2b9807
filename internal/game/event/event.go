// Package event defines the immutable match events fanned out to every
// participant mailbox.
package event

import (
	"encoding/json"
	"time"
)

// Kind identifies the type of a match event.
type Kind string

const (
	// KindMessage records a press message between powers.
	KindMessage Kind = "message"
	// KindSnapshot records a full board snapshot.
	KindSnapshot Kind = "snapshot"
	// KindPhaseChange records a phase transition.
	KindPhaseChange Kind = "phase_change"
	// KindNotice records a system notice.
	KindNotice Kind = "notice"
)

// Sentinel identities used on events not tied to a single power.
const (
	// SenderSystem marks events issued by the conductor itself.
	SenderSystem = "SYSTEM"
	// RecipientAll marks events addressed to every registered power.
	RecipientAll = "ALL"
)

// Event captures one immutable match occurrence. Events are never mutated
// after broadcast; Seq is the global broadcast-issue order assigned by the
// conductor.
type Event struct {
	Seq       uint64
	Kind      Kind
	Sender    string
	Recipient string
	Timestamp time.Time
	Payload   json.RawMessage
}

// IsValid reports whether the event kind is supported.
func (k Kind) IsValid() bool {
	switch k {
	case KindMessage, KindSnapshot, KindPhaseChange, KindNotice:
		return true
	default:
		return false
	}
}

// IsBroadcast reports whether the event is addressed to all powers.
func (e Event) IsBroadcast() bool {
	return e.Recipient == RecipientAll
}
