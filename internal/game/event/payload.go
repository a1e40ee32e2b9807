package event

import (
	"encoding/json"
	"fmt"
)

// MessagePayload captures the payload for message events.
type MessagePayload struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// SnapshotPayload captures the payload for snapshot events.
type SnapshotPayload struct {
	Phase string          `json:"phase"`
	Board json.RawMessage `json:"board"`
}

// PhaseChangePayload captures the payload for phase_change events.
type PhaseChangePayload struct {
	Phase string `json:"phase"`
}

// NoticePayload captures the payload for notice events.
type NoticePayload struct {
	Status string `json:"status"`
	Power  string `json:"power,omitempty"`
}

// Notice statuses issued by the conductor.
const (
	// NoticeOrdersSubmitted announces that a power committed orders.
	NoticeOrdersSubmitted = "orders_submitted"
	// NoticeMatchEnded announces that the match reached a terminal state.
	NoticeMatchEnded = "match_ended"
)

// EncodePayload marshals a typed payload for embedding in an Event.
func EncodePayload(payload any) (json.RawMessage, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal event payload: %w", err)
	}
	return encoded, nil
}

// DecodePayload unmarshals an event payload into target.
func DecodePayload(raw json.RawMessage, target any) error {
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("unmarshal event payload: %w", err)
	}
	return nil
}
