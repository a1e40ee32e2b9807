package standard

// ProcessPhase adjudicates the committed orders for the current phase and
// advances the game. Committed orders that are malformed or no longer valid
// are ignored; the affected unit holds.
func (g *Game) ProcessPhase() error {
	if g.terminal {
		return nil
	}
	switch g.phaseType {
	case 'M':
		g.processMovement()
	case 'R':
		g.processRetreats()
	case 'A':
		g.processAdjustments()
	}
	g.orders = make(map[string][]string)
	return nil
}

// parsedOrders returns the valid parsed orders of every power, keyed by the
// ordered unit's location. Later orders for the same unit override earlier
// ones.
func (g *Game) parsedOrders(validate func(power string, o order) bool) map[string]order {
	byLoc := make(map[string]order)
	for _, power := range powerOrder {
		for _, raw := range g.orders[power] {
			o, err := parseOrder(raw)
			if err != nil {
				continue
			}
			if o.Verb == "WAIVE" {
				continue
			}
			if !validate(power, o) {
				continue
			}
			byLoc[o.Loc] = o
		}
	}
	return byLoc
}

type resolution int

const (
	unresolved resolution = iota
	succeeded
	failed
)

func (g *Game) processMovement() {
	ordersByLoc := g.parsedOrders(func(power string, o order) bool {
		u, ok := g.units[o.Loc]
		if !ok || u.Power != power || u.Type != o.UnitType {
			return false
		}
		switch o.Verb {
		case "H":
			return true
		case "-":
			return adjacent(u.Type, o.Loc, o.Target)
		case "S":
			target, ok := g.units[o.SupLoc]
			if !ok || target.Type != o.SupType {
				return false
			}
			if o.SupDst == "" {
				return adjacent(u.Type, o.Loc, o.SupLoc)
			}
			return adjacent(u.Type, o.Loc, o.SupDst) && adjacent(target.Type, o.SupLoc, o.SupDst)
		default:
			return false
		}
	})

	moves := make(map[string]string) // from -> dst
	for loc, o := range ordersByLoc {
		if o.Verb == "-" {
			moves[loc] = o.Target
		}
	}

	// A support is cut by any attack on the supporter from a power other
	// than its own, except an attack from the province the support is
	// directed into.
	cut := make(map[string]bool)
	for from, dst := range moves {
		sup, ok := ordersByLoc[dst]
		if !ok || sup.Verb != "S" {
			continue
		}
		if g.units[from].Power == g.units[dst].Power {
			continue
		}
		supportedInto := sup.SupDst
		if supportedInto == "" {
			supportedInto = sup.SupLoc
		}
		if from == supportedInto && sup.SupDst != "" {
			continue
		}
		cut[dst] = true
	}

	moveStrength := make(map[string]int)
	for from := range moves {
		moveStrength[from] = 1
	}
	holdSupport := make(map[string]int)
	for loc, o := range ordersByLoc {
		if o.Verb != "S" || cut[loc] {
			continue
		}
		if o.SupDst == "" {
			// Hold support is void when the supported unit moves.
			if _, moving := moves[o.SupLoc]; !moving {
				holdSupport[o.SupLoc]++
			}
			continue
		}
		if moves[o.SupLoc] == o.SupDst {
			moveStrength[o.SupLoc]++
		}
	}

	state := make(map[string]resolution)
	// Defense strength of a unit that lost a head-to-head clash: its move
	// strength keeps defending its own province.
	hthDefense := make(map[string]int)

	holdStrength := func(loc string) int {
		if s, ok := hthDefense[loc]; ok {
			return s
		}
		if _, moving := moves[loc]; moving {
			return 1
		}
		return 1 + holdSupport[loc]
	}

	// Head-to-head clashes.
	for from, dst := range moves {
		if from >= dst {
			continue
		}
		if back, ok := moves[dst]; !ok || back != from {
			continue
		}
		a, b := moveStrength[from], moveStrength[dst]
		switch {
		case a > b:
			state[dst] = failed
			hthDefense[dst] = b
		case b > a:
			state[from] = failed
			hthDefense[from] = a
		default:
			state[from], state[dst] = failed, failed
			hthDefense[from], hthDefense[dst] = a, b
		}
	}

	// Competition between attackers of the same province: only a unique
	// strongest attacker can enter; ties bounce everyone.
	attackers := make(map[string][]string)
	for from, dst := range moves {
		if state[from] != failed {
			attackers[dst] = append(attackers[dst], from)
		}
	}
	bounced := make(map[string]bool)
	for dst, froms := range attackers {
		if len(froms) < 2 {
			continue
		}
		top, topCount := 0, 0
		for _, from := range froms {
			s := moveStrength[from]
			if s > top {
				top, topCount = s, 1
			} else if s == top {
				topCount++
			}
		}
		for _, from := range froms {
			if moveStrength[from] < top || topCount > 1 {
				state[from] = failed
			}
		}
		if topCount > 1 {
			bounced[dst] = true
		}
	}

	dislodgedAt := make(map[string]string) // province -> attacker origin

	for changed := true; changed; {
		changed = false
		for from, dst := range moves {
			if state[from] != unresolved {
				continue
			}
			occ, occupied := g.units[dst]
			if !occupied {
				state[from] = succeeded
				changed = true
				continue
			}
			_, occMoving := moves[dst]
			if occMoving && state[dst] == succeeded {
				state[from] = succeeded
				changed = true
				continue
			}
			if occMoving && state[dst] == unresolved {
				continue // depends on the occupant's own move
			}
			// Occupant stays: entering requires dislodging it.
			if occ.Power == g.units[from].Power {
				state[from] = failed
			} else if moveStrength[from] > holdStrength(dst) {
				state[from] = succeeded
				dislodgedAt[dst] = from
			} else {
				state[from] = failed
			}
			changed = true
		}
	}

	// Remaining unresolved moves form rotation cycles; they all succeed.
	for from := range moves {
		if state[from] == unresolved {
			state[from] = succeeded
		}
	}

	// Apply the result simultaneously.
	moved := make(map[string]unit)
	for from, dst := range moves {
		if state[from] != succeeded {
			continue
		}
		moved[dst] = g.units[from]
		delete(g.units, from)
	}
	for loc, origin := range dislodgedAt {
		if u, ok := g.units[loc]; ok {
			g.dislodgements[loc] = dislodgement{Power: u.Power, Type: u.Type, AttackerOrigin: origin}
			delete(g.units, loc)
		}
	}
	for dst, u := range moved {
		g.units[dst] = u
	}

	g.standoffs = make(map[string]bool)
	for dst := range bounced {
		if _, occupied := g.units[dst]; !occupied {
			g.standoffs[dst] = true
		}
	}

	if len(g.dislodgements) > 0 {
		g.phaseType = 'R'
		return
	}
	g.endOfSeason()
}

func (g *Game) processRetreats() {
	ordersByLoc := g.parsedOrders(func(power string, o order) bool {
		d, ok := g.dislodgements[o.Loc]
		if !ok || d.Power != power || d.Type != o.UnitType {
			return false
		}
		switch o.Verb {
		case "D":
			return true
		case "R":
			if !adjacent(d.Type, o.Loc, o.Target) {
				return false
			}
			if _, occupied := g.units[o.Target]; occupied {
				return false
			}
			return !g.standoffs[o.Target] && o.Target != d.AttackerOrigin
		default:
			return false
		}
	})

	// Two retreats to the same province destroy both units.
	targets := make(map[string][]string)
	for loc, o := range ordersByLoc {
		if o.Verb == "R" {
			targets[o.Target] = append(targets[o.Target], loc)
		}
	}
	for _, o := range ordersByLoc {
		if o.Verb != "R" || len(targets[o.Target]) > 1 {
			continue
		}
		d := g.dislodgements[o.Loc]
		g.units[o.Target] = unit{Power: d.Power, Type: d.Type}
	}

	// Anything left, including unordered units, disbands.
	g.dislodgements = make(map[string]dislodgement)
	g.standoffs = make(map[string]bool)
	g.endOfSeason()
}

func (g *Game) processAdjustments() {
	for _, power := range powerOrder {
		diff := g.SupplyCenterCount(power) - g.unitCount(power)
		switch {
		case diff > 0:
			g.applyBuilds(power, diff)
		case diff < 0:
			g.applyRemovals(power, -diff)
		}
	}
	g.year++
	g.season = 'S'
	g.phaseType = 'M'
}

func (g *Game) applyBuilds(power string, allowed int) {
	built := 0
	for _, raw := range g.orders[power] {
		if built >= allowed {
			break
		}
		o, err := parseOrder(raw)
		if err != nil || o.Verb != "B" {
			continue
		}
		if !g.isHomeCenter(power, o.Loc) || g.owners[o.Loc] != power {
			continue
		}
		if _, occupied := g.units[o.Loc]; occupied {
			continue
		}
		if o.UnitType == "F" && provinces[o.Loc] != Coastal {
			continue
		}
		if o.UnitType != "A" && o.UnitType != "F" {
			continue
		}
		g.units[o.Loc] = unit{Power: power, Type: o.UnitType}
		built++
	}
}

func (g *Game) applyRemovals(power string, required int) {
	removed := 0
	for _, raw := range g.orders[power] {
		if removed >= required {
			break
		}
		o, err := parseOrder(raw)
		if err != nil || o.Verb != "D" {
			continue
		}
		u, ok := g.units[o.Loc]
		if !ok || u.Power != power || u.Type != o.UnitType {
			continue
		}
		delete(g.units, o.Loc)
		removed++
	}
	// Civil disorder: remove remaining units in deterministic order.
	if removed < required {
		for _, loc := range g.sortedUnitLocations(power) {
			if removed >= required {
				break
			}
			delete(g.units, loc)
			removed++
		}
	}
}

func (g *Game) endOfSeason() {
	if g.season == 'S' {
		g.season = 'F'
		g.phaseType = 'M'
		return
	}
	g.updateOwnership()
	g.checkVictory()
	if g.terminal {
		return
	}
	if g.adjustmentsPending() {
		g.phaseType = 'A'
		return
	}
	g.year++
	g.season = 'S'
	g.phaseType = 'M'
}

func (g *Game) updateOwnership() {
	for loc, u := range g.units {
		if isSupplyCenter(loc) {
			g.owners[loc] = u.Power
		}
	}
}

func (g *Game) adjustmentsPending() bool {
	for _, power := range powerOrder {
		diff := g.SupplyCenterCount(power) - g.unitCount(power)
		if diff < 0 {
			return true
		}
		if diff > 0 {
			for _, home := range homeCenters[power] {
				_, occupied := g.units[home]
				if g.owners[home] == power && !occupied {
					return true
				}
			}
		}
	}
	return false
}

func (g *Game) isHomeCenter(power, loc string) bool {
	for _, home := range homeCenters[power] {
		if home == loc {
			return true
		}
	}
	return false
}
