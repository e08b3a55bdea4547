package walkgraph

import (
	"time"

	"github.com/onwardrail/core/station"
)

// Builder provides a fluent API for assembling a Graph from string station
// codes, silently skipping any pair where either code fails to parse.
type Builder struct {
	g *Graph
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{g: New()}
}

// Add parses from and to as station codes and, if both parse, records a
// walkable connection of the given duration.
func (b *Builder) Add(from, to string, minutes int) *Builder {
	fromCode, err := station.Parse(from)
	if err != nil {
		return b
	}
	toCode, err := station.Parse(to)
	if err != nil {
		return b
	}
	b.g.Add(fromCode, toCode, time.Duration(minutes)*time.Minute)
	return b
}

// Build returns the assembled Graph.
func (b *Builder) Build() *Graph { return b.g }

// LondonTermini returns the walking connections between London's mainline
// termini and their nearby interchange stations. Approximate durations; a
// deployment should override these from a surveyed walk-time source.
func LondonTermini() *Graph {
	return NewBuilder().
		Add("EUS", "KGX", 5).  // Euston <-> King's Cross, same complex
		Add("KGX", "STP", 3).  // King's Cross <-> St Pancras, adjacent
		Add("EUS", "STP", 7).  // Euston <-> St Pancras
		Add("VIC", "VXH", 15). // Victoria <-> Vauxhall
		Add("WAT", "WLO", 5).  // Waterloo <-> Waterloo East
		Add("CHX", "LST", 20). // Charing Cross <-> Liverpool Street
		Add("CST", "MOG", 8).  // Cannon Street <-> Moorgate
		Add("LST", "MOG", 10). // Liverpool Street <-> Moorgate
		Add("FST", "CST", 5).  // Fenchurch Street <-> Cannon Street
		Add("FST", "LST", 12). // Fenchurch Street <-> Liverpool Street
		Add("LBG", "WAT", 20). // London Bridge <-> Waterloo
		Add("LBG", "CST", 15). // London Bridge <-> Cannon Street
		Build()
}
