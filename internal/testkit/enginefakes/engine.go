// Package enginefakes provides a scripted in-memory rules engine for
// conductor and participant-loop tests.
//
// The fake captures enough behavior for barrier and broadcast tests without
// requiring the full adjudicator: legality is a scripted per-power order
// set, phase processing bumps a counter and an optional hook mutates the
// fake between phases.
package enginefakes

import (
	"fmt"

	"github.com/louisbranch/diplomacy.space/internal/game/engine"
)

// Engine is a scripted engine.Engine fake. Fields are exported so tests can
// inspect and reshape state directly.
type Engine struct {
	PowerList []string
	Legal     map[string]map[string][]string // power -> unit location -> orders
	Committed map[string][]string
	PressLog  []engine.Press
	Board     engine.BoardState
	Phase     string
	Terminal  bool
	Processed int

	// OnProcess, when set, runs inside ProcessPhase after the counter is
	// bumped; use it to script phase transitions and terminal states.
	OnProcess func(*Engine)
}

// New constructs a fake where every listed power has a single legal order
// per phase, named after the power.
func New(powers ...string) *Engine {
	e := &Engine{
		PowerList: powers,
		Legal:     make(map[string]map[string][]string),
		Committed: make(map[string][]string),
		Phase:     "PHASE 1",
	}
	for _, power := range powers {
		e.Legal[power] = map[string][]string{
			"UNIT": {"HOLD " + power},
		}
	}
	e.Board = engine.BoardState{Phase: e.Phase, Powers: map[string]engine.PowerState{}}
	return e
}

func (e *Engine) Powers() []string {
	powers := make([]string, len(e.PowerList))
	copy(powers, e.PowerList)
	return powers
}

func (e *Engine) ApplyMessage(press engine.Press) error {
	if !e.known(press.Sender) && press.Sender != "" {
		return fmt.Errorf("%w: %s", engine.ErrUnknownPower, press.Sender)
	}
	e.PressLog = append(e.PressLog, press)
	return nil
}

func (e *Engine) LegalActions(power string) (map[string][]string, error) {
	if !e.known(power) {
		return nil, fmt.Errorf("%w: %s", engine.ErrUnknownPower, power)
	}
	legal := make(map[string][]string, len(e.Legal[power]))
	for loc, opts := range e.Legal[power] {
		legal[loc] = append([]string(nil), opts...)
	}
	return legal, nil
}

func (e *Engine) CommitAction(power string, orders []string) error {
	if !e.known(power) {
		return fmt.Errorf("%w: %s", engine.ErrUnknownPower, power)
	}
	e.Committed[power] = append([]string(nil), orders...)
	return nil
}

func (e *Engine) ProcessPhase() error {
	e.Processed++
	e.Committed = make(map[string][]string)
	if e.OnProcess != nil {
		e.OnProcess(e)
		return nil
	}
	e.Phase = fmt.Sprintf("PHASE %d", e.Processed+1)
	e.Board.Phase = e.Phase
	return nil
}

func (e *Engine) Snapshot() engine.BoardState {
	board := e.Board
	board.Phase = e.Phase
	return board
}

func (e *Engine) IsTerminal() bool {
	return e.Terminal
}

func (e *Engine) PhaseLabel() string {
	return e.Phase
}

func (e *Engine) known(power string) bool {
	for _, p := range e.PowerList {
		if p == power {
			return true
		}
	}
	return false
}

var _ engine.Engine = (*Engine)(nil)
