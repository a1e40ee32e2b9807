// Package standard implements the built-in rules engine on the classic
// seven-power map.
//
// The variant is deliberately compact: convoys are not modeled, split coasts
// collapse into their parent province, and movement adjudication resolves
// supports, cuts, head-to-head clashes, dislodgement and move cycles without
// the exotic paradox rules. Victory is 18 supply centers.
package standard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/louisbranch/diplomacy.space/internal/game/engine"
)

// powerOrder fixes the deterministic iteration order used everywhere.
var powerOrder = []string{"AUSTRIA", "ENGLAND", "FRANCE", "GERMANY", "ITALY", "RUSSIA", "TURKEY"}

type unit struct {
	Power string
	Type  string // "A" or "F"
}

type dislodgement struct {
	Power          string
	Type           string
	AttackerOrigin string
}

// Game is the authoritative rules-engine state. It is not safe for
// concurrent use; the conductor serializes access.
type Game struct {
	year      int
	season    byte // 'S' or 'F'
	phaseType byte // 'M', 'R' or 'A'

	units         map[string]unit          // location -> unit
	owners        map[string]string        // supply center -> owning power
	dislodgements map[string]dislodgement  // original location -> dislodged unit
	standoffs     map[string]bool          // provinces left vacant by a bounce
	orders        map[string][]string      // power -> committed orders (last write wins)
	press         []engine.Press
	terminal      bool
}

// New creates a game at the initial 1901 position.
func New() *Game {
	g := &Game{
		year:          1901,
		season:        'S',
		phaseType:     'M',
		units:         make(map[string]unit),
		owners:        make(map[string]string),
		dislodgements: make(map[string]dislodgement),
		standoffs:     make(map[string]bool),
		orders:        make(map[string][]string),
	}
	for _, su := range startUnits {
		g.units[su.Location] = unit{Power: su.Power, Type: su.Type}
	}
	for power, homes := range homeCenters {
		for _, loc := range homes {
			g.owners[loc] = power
		}
	}
	return g
}

// Powers returns the seven powers in fixed order.
func (g *Game) Powers() []string {
	powers := make([]string, len(powerOrder))
	copy(powers, powerOrder)
	return powers
}

// PhaseLabel returns the current phase token, e.g. "S1901M" or "W1901A".
func (g *Game) PhaseLabel() string {
	if g.terminal {
		return fmt.Sprintf("COMPLETED %d", g.year)
	}
	if g.phaseType == 'A' {
		return fmt.Sprintf("W%dA", g.year)
	}
	return fmt.Sprintf("%c%d%c", g.season, g.year, g.phaseType)
}

// IsTerminal reports whether a power reached the victory condition.
func (g *Game) IsTerminal() bool {
	return g.terminal
}

// Snapshot returns the current board state.
func (g *Game) Snapshot() engine.BoardState {
	board := engine.BoardState{
		Phase:  g.PhaseLabel(),
		Powers: make(map[string]engine.PowerState, len(powerOrder)),
	}
	for _, power := range powerOrder {
		state := engine.PowerState{Units: make(map[string]string)}
		for loc, owner := range g.owners {
			if owner == power {
				state.Centers = append(state.Centers, loc)
			}
		}
		sort.Strings(state.Centers)
		for loc, u := range g.units {
			if u.Power == power {
				state.Units[loc] = u.Type
			}
		}
		for loc, d := range g.dislodgements {
			if d.Power == power {
				state.Units[loc] = "*" + d.Type
			}
		}
		board.Powers[power] = state
	}
	return board
}

// ApplyMessage appends press to the engine's message log.
func (g *Game) ApplyMessage(press engine.Press) error {
	if press.Sender != "" && !g.knownPower(press.Sender) {
		return fmt.Errorf("%w: %s", engine.ErrUnknownPower, press.Sender)
	}
	if press.Phase == "" {
		press.Phase = g.PhaseLabel()
	}
	g.press = append(g.press, press)
	return nil
}

// PressLog returns the recorded press messages in arrival order.
func (g *Game) PressLog() []engine.Press {
	log := make([]engine.Press, len(g.press))
	copy(log, g.press)
	return log
}

// CommitAction records orders for power, replacing any earlier commit in the
// same phase.
func (g *Game) CommitAction(power string, orders []string) error {
	if !g.knownPower(power) {
		return fmt.Errorf("%w: %s", engine.ErrUnknownPower, power)
	}
	committed := make([]string, len(orders))
	copy(committed, orders)
	g.orders[power] = committed
	return nil
}

// SupplyCenterCount returns the number of centers owned by power.
func (g *Game) SupplyCenterCount(power string) int {
	count := 0
	for _, owner := range g.owners {
		if owner == power {
			count++
		}
	}
	return count
}

func (g *Game) unitCount(power string) int {
	count := 0
	for _, u := range g.units {
		if u.Power == power {
			count++
		}
	}
	return count
}

func (g *Game) knownPower(power string) bool {
	for _, p := range powerOrder {
		if p == power {
			return true
		}
	}
	return false
}

func (g *Game) sortedUnitLocations(power string) []string {
	var locs []string
	for loc, u := range g.units {
		if power == "" || u.Power == power {
			locs = append(locs, loc)
		}
	}
	sort.Strings(locs)
	return locs
}

func (g *Game) checkVictory() {
	for _, power := range powerOrder {
		if g.SupplyCenterCount(power) >= 18 {
			g.terminal = true
			return
		}
	}
}

func formatOrder(parts ...string) string {
	return strings.Join(parts, " ")
}
