// Package loop runs one participant's event-consumption loop.
//
// Each loop blocks on its mailbox, converts every event into a context entry
// with a fixed conversion table, appends it to the participant's history and
// re-invokes the decision callback with the full history and the bound
// capability view. The history is append-only and unbounded: memory grows
// with match length, an accepted trade-off since capping it would change the
// decision context participants observe.
package loop

import (
	"context"
	"fmt"
	"log"

	"github.com/louisbranch/diplomacy.space/internal/game/engine"
	"github.com/louisbranch/diplomacy.space/internal/game/event"
	"github.com/louisbranch/diplomacy.space/internal/game/mailbox"
)

// Entry roles attributed by the conversion table.
const (
	// RoleReceived marks a message addressed to this participant.
	RoleReceived = "received"
	// RoleObserved marks a message this participant saw but was not
	// addressed by, including its own echoes.
	RoleObserved = "observed"
	// RoleContext marks board, phase and notice entries.
	RoleContext = "context"
)

// Entry is one converted event in a participant's context history.
type Entry struct {
	Role    string
	Content string
}

// View is the capability surface a decider may call back into. It is
// satisfied by the conductor's per-power façade.
type View interface {
	Power() string
	BoardSnapshot() engine.BoardState
	LegalActions() (map[string][]string, error)
	SendMessage(ctx context.Context, to, text string) error
	SubmitAction(ctx context.Context, orders []string) error
}

// Decider is the decision callback invoked after every consumed event. The
// loop does not constrain what the callback does; errors are logged and the
// loop moves on to the next event.
type Decider interface {
	Decide(ctx context.Context, history []Entry, view View) error
}

// Loop consumes one power's mailbox.
type Loop struct {
	view    View
	mb      *mailbox.Mailbox
	decider Decider
	history []Entry
}

// New creates a loop for view's power consuming mb.
func New(view View, mb *mailbox.Mailbox, decider Decider) *Loop {
	return &Loop{view: view, mb: mb, decider: decider}
}

// Run consumes events until the mailbox closes or ctx is cancelled. A
// closed, drained mailbox is the match's terminal signal and yields a nil
// return.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev, ok := l.mb.Receive()
		if !ok {
			return nil
		}
		l.history = append(l.history, l.convert(ev))
		if err := l.decider.Decide(ctx, l.history, l.view); err != nil {
			log.Printf("%s decider: %v", l.view.Power(), err)
		}
	}
}

// History returns a copy of the accumulated context entries.
func (l *Loop) History() []Entry {
	history := make([]Entry, len(l.history))
	copy(history, l.history)
	return history
}

func (l *Loop) convert(ev event.Event) Entry {
	switch ev.Kind {
	case event.KindMessage:
		var payload event.MessagePayload
		if err := event.DecodePayload(ev.Payload, &payload); err != nil {
			log.Printf("%s: decode message payload: %v", l.view.Power(), err)
			return Entry{Role: RoleObserved, Content: string(ev.Payload)}
		}
		role := RoleObserved
		if ev.Recipient == l.view.Power() {
			role = RoleReceived
		}
		return Entry{
			Role:    role,
			Content: fmt.Sprintf("%s → %s: %s", ev.Sender, ev.Recipient, payload.Text),
		}
	case event.KindSnapshot:
		var payload event.SnapshotPayload
		if err := event.DecodePayload(ev.Payload, &payload); err != nil {
			log.Printf("%s: decode snapshot payload: %v", l.view.Power(), err)
			return Entry{Role: RoleContext, Content: string(ev.Payload)}
		}
		return Entry{
			Role:    RoleContext,
			Content: fmt.Sprintf("board %s: %s", payload.Phase, payload.Board),
		}
	case event.KindPhaseChange:
		var payload event.PhaseChangePayload
		if err := event.DecodePayload(ev.Payload, &payload); err != nil {
			log.Printf("%s: decode phase payload: %v", l.view.Power(), err)
			return Entry{Role: RoleContext, Content: string(ev.Payload)}
		}
		return Entry{Role: RoleContext, Content: payload.Phase}
	default:
		return Entry{Role: RoleContext, Content: string(ev.Payload)}
	}
}
