// Package conductor owns the authoritative match state and drives the phase
// state machine.
//
// The conductor is the single writer: every façade call from a participant
// is serialized through its mutex, so no caller ever observes a half-applied
// phase transition. Phases advance on the all-submit barrier, a condition
// variable signalled on every successful commit. There is no deadline: a
// power that never submits stalls the match indefinitely.
package conductor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/diplomacy.space/internal/game/archive"
	"github.com/louisbranch/diplomacy.space/internal/game/engine"
	"github.com/louisbranch/diplomacy.space/internal/game/event"
	"github.com/louisbranch/diplomacy.space/internal/game/mailbox"
)

// ValidationError reports an order rejected against the current legal set.
// The submission buffer is untouched and nothing is broadcast; the caller is
// expected to correct the order and resubmit.
type ValidationError struct {
	Power string
	Order string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("order %q is not legal for %s", e.Order, e.Power)
}

// Options configures optional conductor collaborators.
type Options struct {
	// Recorder receives press and phase records; nil disables archiving.
	Recorder *archive.Recorder
	// MaxPhases ends the match after this many resolved phases; zero means
	// play until the engine reports a terminal state.
	MaxPhases int
	// Clock stamps broadcast events; defaults to time.Now.
	Clock func() time.Time
}

// Conductor validates and applies participant actions, runs the submission
// barrier and broadcasts every resulting event.
type Conductor struct {
	mu      sync.Mutex
	barrier *sync.Cond

	eng      engine.Engine
	registry *mailbox.Registry
	powers   []string

	submissions map[string][]string
	seq         uint64
	phases      int

	recorder  *archive.Recorder
	maxPhases int
	clock     func() time.Time
	tracer    trace.Tracer
}

// New creates a conductor for eng and registers a mailbox for every power
// the engine reports.
func New(eng engine.Engine, opts Options) (*Conductor, error) {
	powers := eng.Powers()
	if len(powers) == 0 {
		return nil, errors.New("engine reports no powers")
	}

	registry := mailbox.NewRegistry()
	for _, power := range powers {
		if err := registry.Register(power); err != nil {
			return nil, fmt.Errorf("register %s: %w", power, err)
		}
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	c := &Conductor{
		eng:         eng,
		registry:    registry,
		powers:      powers,
		submissions: make(map[string][]string),
		recorder:    opts.Recorder,
		maxPhases:   opts.MaxPhases,
		clock:       clock,
		tracer:      otel.Tracer("conductor"),
	}
	c.barrier = sync.NewCond(&c.mu)
	return c, nil
}

// Powers returns the participant set in the engine's order.
func (c *Conductor) Powers() []string {
	powers := make([]string, len(c.powers))
	copy(powers, c.powers)
	return powers
}

// Mailbox returns the event mailbox owned by power.
func (c *Conductor) Mailbox(power string) (*mailbox.Mailbox, bool) {
	return c.registry.Mailbox(power)
}

// SubmitMessage records press in the engine's message log and broadcasts a
// message event. Directed messages reach the sender and the recipient only;
// messages addressed to ALL reach every power. The sender always receives
// its own echo.
func (c *Conductor) SubmitMessage(ctx context.Context, sender, recipient, text string) error {
	ctx, span := c.tracer.Start(ctx, "conductor.submit_message")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Reject an unknown recipient before the press reaches the engine's
	// log; a logged message must have been deliverable.
	if recipient != event.RecipientAll && !c.knownPower(recipient) {
		return fmt.Errorf("%w: %s", engine.ErrUnknownPower, recipient)
	}

	press := engine.Press{
		Sender:    sender,
		Recipient: recipient,
		Text:      text,
		Phase:     c.eng.PhaseLabel(),
		SentAt:    c.clock().UTC(),
	}
	if err := c.eng.ApplyMessage(press); err != nil {
		return fmt.Errorf("apply message: %w", err)
	}

	payload, err := event.EncodePayload(event.MessagePayload{To: recipient, Text: text})
	if err != nil {
		return err
	}
	ev := c.nextEventLocked(event.KindMessage, sender, recipient, payload)

	var recipients []string
	if recipient != event.RecipientAll {
		recipients = []string{sender, recipient}
	}
	if err := c.registry.Broadcast(ev, recipients); err != nil {
		return fmt.Errorf("broadcast message: %w", err)
	}

	c.recorder.Press(ctx, press)
	log.Printf("PRESS %s -> %s (%s)", sender, recipient, press.Phase)
	return nil
}

// SubmitAction validates orders against power's current legal set and
// commits them with last-write-wins semantics. A rejected order leaves the
// submission buffer unchanged. On success an orders_submitted notice is
// broadcast to all powers and the barrier is signalled.
func (c *Conductor) SubmitAction(ctx context.Context, power string, orders []string) error {
	_, span := c.tracer.Start(ctx, "conductor.submit_action")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	legal, err := c.eng.LegalActions(power)
	if err != nil {
		return fmt.Errorf("legal actions: %w", err)
	}
	set := make(map[string]bool)
	for _, opts := range legal {
		for _, o := range opts {
			set[o] = true
		}
	}
	for _, o := range orders {
		if !set[o] {
			return &ValidationError{Power: power, Order: o}
		}
	}

	if err := c.eng.CommitAction(power, orders); err != nil {
		return fmt.Errorf("commit action: %w", err)
	}
	committed := make([]string, len(orders))
	copy(committed, orders)
	c.submissions[power] = committed

	payload, err := event.EncodePayload(event.NoticePayload{
		Status: event.NoticeOrdersSubmitted,
		Power:  power,
	})
	if err != nil {
		return err
	}
	ev := c.nextEventLocked(event.KindNotice, event.SenderSystem, event.RecipientAll, payload)
	if err := c.registry.Broadcast(ev, nil); err != nil {
		return fmt.Errorf("broadcast notice: %w", err)
	}

	log.Printf("ORDERS %s submitted %d orders (%s)", power, len(orders), c.eng.PhaseLabel())
	c.barrier.Broadcast()
	return nil
}

// Run broadcasts the initial snapshot, then resolves phases as the barrier
// completes until the engine is terminal, the phase limit is reached or ctx
// is cancelled. On exit the mailbox registry is closed so every participant
// loop drains and stops.
func (c *Conductor) Run(ctx context.Context) error {
	defer c.registry.Close()

	// Wake the barrier wait on cancellation.
	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		c.barrier.Broadcast()
		c.mu.Unlock()
	})
	defer stop()

	c.mu.Lock()
	if err := c.broadcastBoardLocked(c.eng.Snapshot()); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	for {
		c.mu.Lock()
		for len(c.submissions) < len(c.powers) && ctx.Err() == nil {
			c.barrier.Wait()
		}
		if err := ctx.Err(); err != nil {
			c.mu.Unlock()
			return err
		}

		phase := c.eng.PhaseLabel()
		orders := c.submissions
		c.submissions = make(map[string][]string)

		log.Printf("PROCESSING %s", phase)
		if err := c.eng.ProcessPhase(); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("process phase %s: %w", phase, err)
		}
		board := c.eng.Snapshot()
		c.recorder.PhaseResolved(ctx, phase, orders, board)

		if err := c.broadcastBoardLocked(board); err != nil {
			c.mu.Unlock()
			return err
		}
		if err := c.broadcastPhaseChangeLocked(board.Phase); err != nil {
			c.mu.Unlock()
			return err
		}

		c.phases++
		done := c.eng.IsTerminal() || (c.maxPhases > 0 && c.phases >= c.maxPhases)
		if !done {
			c.mu.Unlock()
			continue
		}

		if err := c.broadcastNoticeLocked(event.NoticeMatchEnded); err != nil {
			c.mu.Unlock()
			return err
		}
		c.mu.Unlock()
		c.recorder.MatchEnded(ctx, board)
		log.Printf("MATCH ENDED %s after %d phases", board.Phase, c.phases)
		return nil
	}
}

func (c *Conductor) knownPower(power string) bool {
	for _, p := range c.powers {
		if p == power {
			return true
		}
	}
	return false
}

func (c *Conductor) nextEventLocked(kind event.Kind, sender, recipient string, payload []byte) event.Event {
	c.seq++
	return event.Event{
		Seq:       c.seq,
		Kind:      kind,
		Sender:    sender,
		Recipient: recipient,
		Timestamp: c.clock().UTC(),
		Payload:   payload,
	}
}

func (c *Conductor) broadcastBoardLocked(board engine.BoardState) error {
	raw, err := event.EncodePayload(board)
	if err != nil {
		return err
	}
	payload, err := event.EncodePayload(event.SnapshotPayload{Phase: board.Phase, Board: raw})
	if err != nil {
		return err
	}
	ev := c.nextEventLocked(event.KindSnapshot, event.SenderSystem, event.RecipientAll, payload)
	if err := c.registry.Broadcast(ev, nil); err != nil {
		return fmt.Errorf("broadcast snapshot: %w", err)
	}
	return nil
}

func (c *Conductor) broadcastPhaseChangeLocked(phase string) error {
	payload, err := event.EncodePayload(event.PhaseChangePayload{Phase: phase})
	if err != nil {
		return err
	}
	ev := c.nextEventLocked(event.KindPhaseChange, event.SenderSystem, event.RecipientAll, payload)
	if err := c.registry.Broadcast(ev, nil); err != nil {
		return fmt.Errorf("broadcast phase change: %w", err)
	}
	return nil
}

func (c *Conductor) broadcastNoticeLocked(status string) error {
	payload, err := event.EncodePayload(event.NoticePayload{Status: status})
	if err != nil {
		return err
	}
	ev := c.nextEventLocked(event.KindNotice, event.SenderSystem, event.RecipientAll, payload)
	if err := c.registry.Broadcast(ev, nil); err != nil {
		return fmt.Errorf("broadcast notice: %w", err)
	}
	return nil
}
