package standard

import (
	"fmt"
	"sort"
	"strings"
)

// order is one parsed DATC-style order string.
type order struct {
	UnitType string
	Loc      string
	Verb     string // "H", "-", "S", "R", "D", "B" or "WAIVE"
	Target   string // destination for moves and retreats

	// Support fields; SupDst is empty for a hold support.
	SupType string
	SupLoc  string
	SupDst  string
}

func parseOrder(raw string) (order, error) {
	tokens := strings.Fields(strings.ToUpper(strings.TrimSpace(raw)))
	if len(tokens) == 0 {
		return order{}, fmt.Errorf("empty order")
	}
	if tokens[0] == "WAIVE" {
		return order{Verb: "WAIVE"}, nil
	}
	if len(tokens) < 3 {
		return order{}, fmt.Errorf("malformed order %q", raw)
	}

	o := order{UnitType: tokens[0], Loc: tokens[1]}
	switch tokens[2] {
	case "H", "D", "B":
		if len(tokens) != 3 {
			return order{}, fmt.Errorf("malformed order %q", raw)
		}
		o.Verb = tokens[2]
	case "-", "R":
		if len(tokens) != 4 {
			return order{}, fmt.Errorf("malformed order %q", raw)
		}
		o.Verb = tokens[2]
		o.Target = tokens[3]
	case "S":
		o.Verb = "S"
		switch len(tokens) {
		case 5: // support hold: A PAR S A BUR
			o.SupType, o.SupLoc = tokens[3], tokens[4]
		case 7: // support move: A PAR S A MAR - BUR
			if tokens[5] != "-" {
				return order{}, fmt.Errorf("malformed support %q", raw)
			}
			o.SupType, o.SupLoc, o.SupDst = tokens[3], tokens[4], tokens[6]
		default:
			return order{}, fmt.Errorf("malformed support %q", raw)
		}
	default:
		return order{}, fmt.Errorf("unknown order verb in %q", raw)
	}
	return o, nil
}

// LegalActions returns every legal order for power in the current phase,
// keyed by unit location. An empty order list is always a legal submission.
func (g *Game) LegalActions(power string) (map[string][]string, error) {
	if !g.knownPower(power) {
		return nil, fmt.Errorf("unknown power %s", power)
	}
	if g.terminal {
		return map[string][]string{}, nil
	}
	switch g.phaseType {
	case 'M':
		return g.legalMovementOrders(power), nil
	case 'R':
		return g.legalRetreatOrders(power), nil
	case 'A':
		return g.legalAdjustmentOrders(power), nil
	}
	return map[string][]string{}, nil
}

func (g *Game) legalMovementOrders(power string) map[string][]string {
	legal := make(map[string][]string)
	for _, loc := range g.sortedUnitLocations(power) {
		u := g.units[loc]
		opts := []string{formatOrder(u.Type, loc, "H")}

		var adj map[string][]string
		if u.Type == "A" {
			adj = armyAdj
		} else {
			adj = fleetAdj
		}
		for _, dst := range adj[loc] {
			opts = append(opts, formatOrder(u.Type, loc, "-", dst))
		}

		// Supports: any other unit the supporter could reach.
		for _, otherLoc := range g.sortedUnitLocations("") {
			if otherLoc == loc {
				continue
			}
			other := g.units[otherLoc]
			if adjacent(u.Type, loc, otherLoc) {
				opts = append(opts, formatOrder(u.Type, loc, "S", other.Type, otherLoc))
			}
			var otherAdj map[string][]string
			if other.Type == "A" {
				otherAdj = armyAdj
			} else {
				otherAdj = fleetAdj
			}
			for _, dst := range otherAdj[otherLoc] {
				if dst == loc || !adjacent(u.Type, loc, dst) {
					continue
				}
				opts = append(opts, formatOrder(u.Type, loc, "S", other.Type, otherLoc, "-", dst))
			}
		}
		sort.Strings(opts)
		legal[loc] = opts
	}
	return legal
}

func (g *Game) legalRetreatOrders(power string) map[string][]string {
	legal := make(map[string][]string)
	var locs []string
	for loc, d := range g.dislodgements {
		if d.Power == power {
			locs = append(locs, loc)
		}
	}
	sort.Strings(locs)
	for _, loc := range locs {
		d := g.dislodgements[loc]
		opts := []string{formatOrder(d.Type, loc, "D")}
		var adj map[string][]string
		if d.Type == "A" {
			adj = armyAdj
		} else {
			adj = fleetAdj
		}
		for _, dst := range adj[loc] {
			if _, occupied := g.units[dst]; occupied {
				continue
			}
			if g.standoffs[dst] || dst == d.AttackerOrigin {
				continue
			}
			opts = append(opts, formatOrder(d.Type, loc, "R", dst))
		}
		sort.Strings(opts)
		legal[loc] = opts
	}
	return legal
}

func (g *Game) legalAdjustmentOrders(power string) map[string][]string {
	legal := make(map[string][]string)
	diff := g.SupplyCenterCount(power) - g.unitCount(power)
	switch {
	case diff > 0:
		var opts []string
		for _, home := range homeCenters[power] {
			if g.owners[home] != power {
				continue
			}
			if _, occupied := g.units[home]; occupied {
				continue
			}
			opts = append(opts, formatOrder("A", home, "B"))
			if provinces[home] == Coastal {
				opts = append(opts, formatOrder("F", home, "B"))
			}
		}
		if len(opts) == 0 {
			return legal
		}
		opts = append(opts, "WAIVE")
		sort.Strings(opts)
		// Builds are not tied to an existing unit; key them by home center.
		for _, o := range opts {
			if o == "WAIVE" {
				legal["WAIVE"] = append(legal["WAIVE"], o)
				continue
			}
			loc := strings.Fields(o)[1]
			legal[loc] = append(legal[loc], o)
		}
	case diff < 0:
		for _, loc := range g.sortedUnitLocations(power) {
			u := g.units[loc]
			legal[loc] = []string{formatOrder(u.Type, loc, "D")}
		}
	}
	return legal
}

// legalSet flattens LegalActions into a membership set.
func (g *Game) legalSet(power string) map[string]bool {
	legal, err := g.LegalActions(power)
	if err != nil {
		return map[string]bool{}
	}
	set := make(map[string]bool)
	for _, opts := range legal {
		for _, o := range opts {
			set[o] = true
		}
	}
	return set
}
