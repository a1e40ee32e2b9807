// Package engine defines the rules-engine surface the conductor drives.
//
// The conductor never inspects game rules itself: legality, adjudication and
// board representation live behind this interface. The standard subpackage
// provides the built-in classic-map implementation; tests use scripted fakes.
package engine

import (
	"errors"
	"time"
)

var (
	// ErrUnknownPower indicates an operation referenced a power the engine
	// does not track.
	ErrUnknownPower = errors.New("unknown power")
)

// Press is one in-game message between powers, recorded in the engine's
// message log.
type Press struct {
	Sender    string
	Recipient string
	Text      string
	Phase     string
	SentAt    time.Time
}

// PowerState captures the supply centers and units controlled by one power.
type PowerState struct {
	Centers []string          `json:"centers"`
	Units   map[string]string `json:"units"` // location -> unit type ("A" or "F")
}

// BoardState is a read-only snapshot of the whole board.
type BoardState struct {
	Phase  string                `json:"phase"`
	Powers map[string]PowerState `json:"powers"`
}

// Engine is the adjudication collaborator owned by the conductor.
//
// Implementations are not required to be safe for concurrent use; the
// conductor serializes every call.
type Engine interface {
	// Powers returns the fixed participant set, in a deterministic order.
	Powers() []string

	// ApplyMessage appends press to the engine's message log.
	ApplyMessage(press Press) error

	// LegalActions returns every legal order for power in the current
	// phase, keyed by the location of the unit the order moves.
	LegalActions(power string) (map[string][]string, error)

	// CommitAction records orders for power with last-write-wins
	// semantics: a later commit in the same phase replaces the earlier one.
	CommitAction(power string, orders []string) error

	// ProcessPhase adjudicates the current phase and advances the game.
	ProcessPhase() error

	// Snapshot returns the current board state.
	Snapshot() BoardState

	// IsTerminal reports whether the game has ended.
	IsTerminal() bool

	// PhaseLabel returns the current phase token, e.g. "S1901M".
	PhaseLabel() string
}

// CenterCounts reduces a board snapshot to supply-center standings.
func CenterCounts(board BoardState) map[string]int {
	counts := make(map[string]int, len(board.Powers))
	for power, state := range board.Powers {
		counts[power] = len(state.Centers)
	}
	return counts
}
