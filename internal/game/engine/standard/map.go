package standard

// Static data for the classic map. Split coasts are collapsed into their
// parent province (SPA, STP, BUL) and convoy routes are not modeled; see the
// package doc for the variant rules.

// Terrain classifies a province for movement purposes.
type Terrain int

const (
	// Inland provinces admit armies only.
	Inland Terrain = iota
	// Sea provinces admit fleets only.
	Sea
	// Coastal provinces admit armies, and fleets arriving along a coast.
	Coastal
)

var provinces = map[string]Terrain{
	// Seas
	"ADR": Sea, "AEG": Sea, "BAL": Sea, "BAR": Sea, "BLA": Sea,
	"BOT": Sea, "EAS": Sea, "ENG": Sea, "HEL": Sea, "ION": Sea,
	"IRI": Sea, "LYO": Sea, "MAO": Sea, "NAO": Sea, "NTH": Sea,
	"NWG": Sea, "SKA": Sea, "TYS": Sea, "WES": Sea,

	// Inland
	"BOH": Inland, "BUD": Inland, "BUR": Inland, "GAL": Inland,
	"MOS": Inland, "MUN": Inland, "PAR": Inland, "RUH": Inland,
	"SER": Inland, "SIL": Inland, "TYR": Inland, "UKR": Inland,
	"VIE": Inland, "WAR": Inland,

	// Coastal
	"ALB": Coastal, "ANK": Coastal, "APU": Coastal, "ARM": Coastal,
	"BEL": Coastal, "BER": Coastal, "BRE": Coastal, "BUL": Coastal,
	"CLY": Coastal, "CON": Coastal, "DEN": Coastal, "EDI": Coastal,
	"FIN": Coastal, "GAS": Coastal, "GRE": Coastal, "HOL": Coastal,
	"KIE": Coastal, "LON": Coastal, "LVN": Coastal, "LVP": Coastal,
	"MAR": Coastal, "NAF": Coastal, "NAP": Coastal, "NWY": Coastal,
	"PIC": Coastal, "PIE": Coastal, "POR": Coastal, "PRU": Coastal,
	"ROM": Coastal, "RUM": Coastal, "SEV": Coastal, "SMY": Coastal,
	"SPA": Coastal, "STP": Coastal, "SWE": Coastal, "SYR": Coastal,
	"TRI": Coastal, "TUN": Coastal, "TUS": Coastal, "VEN": Coastal,
	"WAL": Coastal, "YOR": Coastal,
}

var supplyCenters = []string{
	"ANK", "BEL", "BER", "BRE", "BUD", "BUL", "CON", "DEN", "EDI",
	"GRE", "HOL", "KIE", "LON", "LVP", "MAR", "MOS", "MUN", "NAP",
	"NWY", "PAR", "POR", "ROM", "RUM", "SER", "SEV", "SMY", "SPA",
	"STP", "SWE", "TRI", "TUN", "VEN", "VIE", "WAR",
}

var homeCenters = map[string][]string{
	"AUSTRIA": {"BUD", "TRI", "VIE"},
	"ENGLAND": {"EDI", "LON", "LVP"},
	"FRANCE":  {"BRE", "MAR", "PAR"},
	"GERMANY": {"BER", "KIE", "MUN"},
	"ITALY":   {"NAP", "ROM", "VEN"},
	"RUSSIA":  {"MOS", "SEV", "STP", "WAR"},
	"TURKEY":  {"ANK", "CON", "SMY"},
}

type startUnit struct {
	Power    string
	Type     string
	Location string
}

var startUnits = []startUnit{
	{"AUSTRIA", "A", "VIE"}, {"AUSTRIA", "A", "BUD"}, {"AUSTRIA", "F", "TRI"},
	{"ENGLAND", "F", "LON"}, {"ENGLAND", "F", "EDI"}, {"ENGLAND", "A", "LVP"},
	{"FRANCE", "A", "PAR"}, {"FRANCE", "A", "MAR"}, {"FRANCE", "F", "BRE"},
	{"GERMANY", "A", "BER"}, {"GERMANY", "A", "MUN"}, {"GERMANY", "F", "KIE"},
	{"ITALY", "A", "ROM"}, {"ITALY", "A", "VEN"}, {"ITALY", "F", "NAP"},
	{"RUSSIA", "A", "MOS"}, {"RUSSIA", "A", "WAR"}, {"RUSSIA", "F", "SEV"}, {"RUSSIA", "F", "STP"},
	{"TURKEY", "A", "SMY"}, {"TURKEY", "A", "CON"}, {"TURKEY", "F", "ANK"},
}

// edge connects two provinces. pass is "A" (armies only), "F" (fleets only)
// or "AF" (both): coastal neighbors that share a coastline are "AF", coastal
// neighbors joined only by land are "A", and anything touching a sea is "F".
type edge struct {
	a, b, pass string
}

var edges = []edge{
	// Open seas and their shores
	{"NAO", "NWG", "F"}, {"NAO", "CLY", "F"}, {"NAO", "LVP", "F"}, {"NAO", "IRI", "F"}, {"NAO", "MAO", "F"},
	{"NWG", "BAR", "F"}, {"NWG", "NWY", "F"}, {"NWG", "NTH", "F"}, {"NWG", "EDI", "F"}, {"NWG", "CLY", "F"},
	{"BAR", "STP", "F"}, {"BAR", "NWY", "F"},
	{"NTH", "NWY", "F"}, {"NTH", "SKA", "F"}, {"NTH", "DEN", "F"}, {"NTH", "HEL", "F"}, {"NTH", "HOL", "F"},
	{"NTH", "BEL", "F"}, {"NTH", "ENG", "F"}, {"NTH", "LON", "F"}, {"NTH", "YOR", "F"}, {"NTH", "EDI", "F"},
	{"SKA", "NWY", "F"}, {"SKA", "SWE", "F"}, {"SKA", "DEN", "F"},
	{"HEL", "DEN", "F"}, {"HEL", "KIE", "F"}, {"HEL", "HOL", "F"},
	{"BAL", "DEN", "F"}, {"BAL", "SWE", "F"}, {"BAL", "BOT", "F"}, {"BAL", "LVN", "F"},
	{"BAL", "PRU", "F"}, {"BAL", "BER", "F"}, {"BAL", "KIE", "F"},
	{"BOT", "SWE", "F"}, {"BOT", "FIN", "F"}, {"BOT", "STP", "F"}, {"BOT", "LVN", "F"},
	{"IRI", "LVP", "F"}, {"IRI", "WAL", "F"}, {"IRI", "ENG", "F"}, {"IRI", "MAO", "F"},
	{"ENG", "WAL", "F"}, {"ENG", "LON", "F"}, {"ENG", "BEL", "F"}, {"ENG", "PIC", "F"},
	{"ENG", "BRE", "F"}, {"ENG", "MAO", "F"},
	{"MAO", "BRE", "F"}, {"MAO", "GAS", "F"}, {"MAO", "SPA", "F"}, {"MAO", "POR", "F"},
	{"MAO", "NAF", "F"}, {"MAO", "WES", "F"},
	{"WES", "SPA", "F"}, {"WES", "LYO", "F"}, {"WES", "TYS", "F"}, {"WES", "TUN", "F"}, {"WES", "NAF", "F"},
	{"LYO", "SPA", "F"}, {"LYO", "MAR", "F"}, {"LYO", "PIE", "F"}, {"LYO", "TUS", "F"}, {"LYO", "TYS", "F"},
	{"TYS", "TUS", "F"}, {"TYS", "ROM", "F"}, {"TYS", "NAP", "F"}, {"TYS", "ION", "F"}, {"TYS", "TUN", "F"},
	{"ION", "NAP", "F"}, {"ION", "APU", "F"}, {"ION", "ADR", "F"}, {"ION", "ALB", "F"},
	{"ION", "GRE", "F"}, {"ION", "AEG", "F"}, {"ION", "EAS", "F"}, {"ION", "TUN", "F"},
	{"ADR", "VEN", "F"}, {"ADR", "TRI", "F"}, {"ADR", "ALB", "F"}, {"ADR", "APU", "F"},
	{"AEG", "GRE", "F"}, {"AEG", "BUL", "F"}, {"AEG", "CON", "F"}, {"AEG", "SMY", "F"}, {"AEG", "EAS", "F"},
	{"EAS", "SMY", "F"}, {"EAS", "SYR", "F"},
	{"BLA", "BUL", "F"}, {"BLA", "RUM", "F"}, {"BLA", "SEV", "F"}, {"BLA", "ARM", "F"},
	{"BLA", "ANK", "F"}, {"BLA", "CON", "F"},

	// British Isles
	{"CLY", "EDI", "AF"}, {"CLY", "LVP", "AF"},
	{"EDI", "YOR", "AF"}, {"EDI", "LVP", "A"},
	{"YOR", "LON", "AF"}, {"YOR", "LVP", "A"}, {"YOR", "WAL", "A"},
	{"LON", "WAL", "AF"}, {"WAL", "LVP", "AF"},

	// Scandinavia and Russia
	{"NWY", "SWE", "AF"}, {"NWY", "FIN", "A"}, {"NWY", "STP", "AF"},
	{"SWE", "FIN", "AF"}, {"SWE", "DEN", "AF"},
	{"FIN", "STP", "AF"},
	{"DEN", "KIE", "AF"},
	{"STP", "LVN", "AF"}, {"STP", "MOS", "A"},
	{"LVN", "MOS", "A"}, {"LVN", "WAR", "A"}, {"LVN", "PRU", "AF"},
	{"MOS", "SEV", "A"}, {"MOS", "UKR", "A"}, {"MOS", "WAR", "A"},
	{"WAR", "PRU", "A"}, {"WAR", "SIL", "A"}, {"WAR", "GAL", "A"}, {"WAR", "UKR", "A"},
	{"UKR", "SEV", "A"}, {"UKR", "RUM", "A"}, {"UKR", "GAL", "A"},
	{"SEV", "RUM", "AF"}, {"SEV", "ARM", "AF"},

	// Germany and Central Europe
	{"KIE", "BER", "AF"}, {"KIE", "MUN", "A"}, {"KIE", "RUH", "A"}, {"KIE", "HOL", "AF"},
	{"BER", "PRU", "AF"}, {"BER", "SIL", "A"}, {"BER", "MUN", "A"},
	{"PRU", "SIL", "A"},
	{"SIL", "MUN", "A"}, {"SIL", "BOH", "A"}, {"SIL", "GAL", "A"},
	{"MUN", "RUH", "A"}, {"MUN", "BUR", "A"}, {"MUN", "TYR", "A"}, {"MUN", "BOH", "A"},
	{"RUH", "HOL", "A"}, {"RUH", "BEL", "A"}, {"RUH", "BUR", "A"},

	// France and the Low Countries
	{"HOL", "BEL", "AF"},
	{"BEL", "PIC", "AF"}, {"BEL", "BUR", "A"},
	{"PIC", "BRE", "AF"}, {"PIC", "PAR", "A"}, {"PIC", "BUR", "A"},
	{"BRE", "PAR", "A"}, {"BRE", "GAS", "AF"},
	{"PAR", "BUR", "A"}, {"PAR", "GAS", "A"},
	{"BUR", "GAS", "A"}, {"BUR", "MAR", "A"},
	{"GAS", "SPA", "AF"}, {"GAS", "MAR", "A"},
	{"MAR", "SPA", "AF"}, {"MAR", "PIE", "AF"},
	{"SPA", "POR", "AF"},
	{"NAF", "TUN", "AF"},

	// Italy
	{"PIE", "TYR", "A"}, {"PIE", "TUS", "AF"}, {"PIE", "VEN", "A"},
	{"TUS", "ROM", "AF"}, {"TUS", "VEN", "A"},
	{"ROM", "NAP", "AF"}, {"ROM", "VEN", "A"}, {"ROM", "APU", "A"},
	{"NAP", "APU", "AF"},
	{"APU", "VEN", "AF"},

	// Austria, the Balkans and Turkey
	{"TYR", "BOH", "A"}, {"TYR", "VIE", "A"}, {"TYR", "TRI", "A"}, {"TYR", "VEN", "A"},
	{"BOH", "VIE", "A"}, {"BOH", "GAL", "A"},
	{"VIE", "GAL", "A"}, {"VIE", "BUD", "A"}, {"VIE", "TRI", "A"},
	{"GAL", "BUD", "A"}, {"GAL", "RUM", "A"},
	{"BUD", "TRI", "A"}, {"BUD", "SER", "A"}, {"BUD", "RUM", "A"},
	{"TRI", "VEN", "AF"}, {"TRI", "ALB", "AF"}, {"TRI", "SER", "A"},
	{"SER", "ALB", "A"}, {"SER", "RUM", "A"}, {"SER", "BUL", "A"}, {"SER", "GRE", "A"},
	{"ALB", "GRE", "AF"},
	{"GRE", "BUL", "AF"},
	{"RUM", "BUL", "AF"},
	{"BUL", "CON", "AF"},
	{"CON", "ANK", "AF"}, {"CON", "SMY", "AF"},
	{"ANK", "ARM", "AF"}, {"ANK", "SMY", "A"},
	{"ARM", "SMY", "A"}, {"ARM", "SYR", "A"},
	{"SMY", "SYR", "AF"},
}

var (
	armyAdj  = map[string][]string{}
	fleetAdj = map[string][]string{}
)

func init() {
	add := func(adj map[string][]string, a, b string) {
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}
	for _, e := range edges {
		if _, ok := provinces[e.a]; !ok {
			panic("unknown province " + e.a)
		}
		if _, ok := provinces[e.b]; !ok {
			panic("unknown province " + e.b)
		}
		for _, r := range e.pass {
			switch r {
			case 'A':
				add(armyAdj, e.a, e.b)
			case 'F':
				add(fleetAdj, e.a, e.b)
			}
		}
	}
}

func adjacent(unitType, from, to string) bool {
	var adj map[string][]string
	switch unitType {
	case "A":
		adj = armyAdj
	case "F":
		adj = fleetAdj
	default:
		return false
	}
	for _, loc := range adj[from] {
		if loc == to {
			return true
		}
	}
	return false
}

func isSupplyCenter(loc string) bool {
	for _, sc := range supplyCenters {
		if sc == loc {
			return true
		}
	}
	return false
}
