package conductor

import (
	"context"
	"fmt"

	"github.com/louisbranch/diplomacy.space/internal/game/engine"
)

// Facade is one power's bound view of the conductor. The identity is baked
// in at construction, so a participant can never act on behalf of another
// power. Mutating calls return only after the conductor has validated,
// applied and broadcast the result.
type Facade struct {
	power     string
	conductor *Conductor
}

// Facade returns the bound view for power.
func (c *Conductor) Facade(power string) (*Facade, error) {
	for _, p := range c.powers {
		if p == power {
			return &Facade{power: power, conductor: c}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", engine.ErrUnknownPower, power)
}

// Power returns the bound identity.
func (f *Facade) Power() string {
	return f.power
}

// BoardSnapshot returns the current board state.
func (f *Facade) BoardSnapshot() engine.BoardState {
	f.conductor.mu.Lock()
	defer f.conductor.mu.Unlock()
	return f.conductor.eng.Snapshot()
}

// LegalActions returns the bound power's legal orders for the current phase,
// keyed by unit location.
func (f *Facade) LegalActions() (map[string][]string, error) {
	f.conductor.mu.Lock()
	defer f.conductor.mu.Unlock()
	return f.conductor.eng.LegalActions(f.power)
}

// SendMessage sends press from the bound power to another power or to ALL.
func (f *Facade) SendMessage(ctx context.Context, to, text string) error {
	return f.conductor.SubmitMessage(ctx, f.power, to, text)
}

// SubmitAction submits the bound power's orders for the current phase.
func (f *Facade) SubmitAction(ctx context.Context, orders []string) error {
	return f.conductor.SubmitAction(ctx, f.power, orders)
}
