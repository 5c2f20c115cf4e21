package model

import "strings"

// Region identifies one of the eight Australian states and territories by its
// short code. The zero value is not a valid region.
type Region string

const (
	ACT Region = "ACT"
	NSW Region = "NSW"
	NT  Region = "NT"
	QLD Region = "QLD"
	SA  Region = "SA"
	TAS Region = "TAS"
	VIC Region = "VIC"
	WA  Region = "WA"
)

// CanonicalRegions lists all region codes in canonical (alphabetical) order.
// Merged output rows follow this order so downstream chart specs render
// deterministically and join cleanly against the geographic boundary file.
var CanonicalRegions = []Region{ACT, NSW, NT, QLD, SA, TAS, VIC, WA}

// regionNames maps normalized spellings (codes and full names) to codes.
// The full names match the labour force dataset vocabulary.
var regionNames = map[string]Region{
	"act":                          ACT,
	"australian capital territory": ACT,
	"nsw":                          NSW,
	"new south wales":              NSW,
	"nt":                           NT,
	"northern territory":           NT,
	"qld":                          QLD,
	"queensland":                   QLD,
	"sa":                           SA,
	"south australia":              SA,
	"tas":                          TAS,
	"tasmania":                     TAS,
	"vic":                          VIC,
	"victoria":                     VIC,
	"wa":                           WA,
	"western australia":            WA,
}

// regionFullNames maps codes back to the full names used by the source tables.
var regionFullNames = map[Region]string{
	ACT: "Australian Capital Territory",
	NSW: "New South Wales",
	NT:  "Northern Territory",
	QLD: "Queensland",
	SA:  "South Australia",
	TAS: "Tasmania",
	VIC: "Victoria",
	WA:  "Western Australia",
}

// ParseRegion normalizes a raw region identifier (code or full name, any
// case, surrounding whitespace tolerated) to its canonical code. The second
// return value reports whether the identifier was recognized.
func ParseRegion(raw string) (Region, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	r, ok := regionNames[key]
	return r, ok
}

// Valid reports whether r is one of the eight canonical codes.
func (r Region) Valid() bool {
	_, ok := regionFullNames[r]
	return ok
}

// FullName returns the long-form name used by the ABS source tables, or the
// code itself if r is not canonical.
func (r Region) FullName() string {
	if n, ok := regionFullNames[r]; ok {
		return n
	}
	return string(r)
}

func (r Region) String() string { return string(r) }
