// Package agent provides the built-in deciders that control powers: silent
// holders, seeded random players and an OpenAI-backed player.
//
// Every decider reacts once per phase, keyed on the board snapshot's phase
// label, and always submits orders so the conductor's barrier can fire. An
// empty submission is legal and means every unit holds.
package agent

import (
	"context"
	"math/rand"
	"sort"

	"github.com/louisbranch/diplomacy.space/internal/game/loop"
)

// phaseTracker remembers the last phase a decider acted in.
type phaseTracker struct {
	started bool
	last    string
}

// changed reports whether phase is new and records it.
func (t *phaseTracker) changed(phase string) bool {
	if t.started && t.last == phase {
		return false
	}
	t.started = true
	t.last = phase
	return true
}

// Hold submits an empty order set each phase: every unit holds.
type Hold struct {
	phase phaseTracker
}

// NewHold creates a holding decider.
func NewHold() *Hold {
	return &Hold{}
}

func (h *Hold) Decide(ctx context.Context, history []loop.Entry, view loop.View) error {
	board := view.BoardSnapshot()
	if !h.phase.changed(board.Phase) {
		return nil
	}
	return view.SubmitAction(ctx, nil)
}

// Random submits one random legal order per orderable unit. Deterministic
// for a fixed seed and event sequence.
type Random struct {
	phase phaseTracker
	rng   *rand.Rand
}

// NewRandom creates a random decider seeded with seed.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Decide(ctx context.Context, history []loop.Entry, view loop.View) error {
	board := view.BoardSnapshot()
	if !r.phase.changed(board.Phase) {
		return nil
	}

	legal, err := view.LegalActions()
	if err != nil {
		return err
	}
	locations := make([]string, 0, len(legal))
	for loc := range legal {
		locations = append(locations, loc)
	}
	sort.Strings(locations)

	var orders []string
	for _, loc := range locations {
		opts := legal[loc]
		if len(opts) == 0 {
			continue
		}
		orders = append(orders, opts[r.rng.Intn(len(opts))])
	}
	return view.SubmitAction(ctx, orders)
}

// pressEntries extracts the message lines from a context history for prompt
// embedding.
func pressEntries(history []loop.Entry) []string {
	var lines []string
	for _, entry := range history {
		if entry.Role == loop.RoleReceived || entry.Role == loop.RoleObserved {
			lines = append(lines, entry.Content)
		}
	}
	return lines
}
