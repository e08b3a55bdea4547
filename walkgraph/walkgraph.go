// Package walkgraph holds the symmetric station-to-station walking
// connections the planner treats as bridges between train legs: short
// walks that don't appear in any timetable, such as between adjacent
// London termini.
package walkgraph

import (
	"time"

	"github.com/onwardrail/core/station"
)

type pair struct {
	a, b station.Code
}

func makePair(a, b station.Code) pair {
	if a.String() > b.String() {
		a, b = b, a
	}
	return pair{a, b}
}

// Graph is a collection of walkable connections between stations.
// Connections are symmetric: adding A-B makes both directions walkable
// with the same duration.
type Graph struct {
	edges map[pair]time.Duration
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{edges: make(map[pair]time.Duration)}
}

// Add records a walkable connection between from and to, replacing any
// existing duration for that pair.
func (g *Graph) Add(from, to station.Code, d time.Duration) {
	g.edges[makePair(from, to)] = d
}

// Lookup returns the walk duration between from and to, if walkable, in
// either direction.
func (g *Graph) Lookup(from, to station.Code) (time.Duration, bool) {
	d, ok := g.edges[makePair(from, to)]
	return d, ok
}

// IsWalkable reports whether from and to are connected by a walk.
func (g *Graph) IsWalkable(from, to station.Code) bool {
	_, ok := g.edges[makePair(from, to)]
	return ok
}

// WalkableFrom returns every station reachable on foot from the given
// station, paired with the walk duration.
func (g *Graph) WalkableFrom(from station.Code) []Neighbor {
	var out []Neighbor
	for p, d := range g.edges {
		switch {
		case p.a == from && p.b == from:
			out = append(out, Neighbor{Station: from, Duration: d})
		case p.a == from:
			out = append(out, Neighbor{Station: p.b, Duration: d})
		case p.b == from:
			out = append(out, Neighbor{Station: p.a, Duration: d})
		}
	}
	return out
}

// Neighbor is a station reachable by a timed walk.
type Neighbor struct {
	Station  station.Code
	Duration time.Duration
}

// Len returns the number of distinct walkable pairs, counting a
// self-connection as one.
func (g *Graph) Len() int { return len(g.edges) }

// IsEmpty reports whether the graph has no connections.
func (g *Graph) IsEmpty() bool { return len(g.edges) == 0 }

// LookupFn returns Lookup as a standalone function value, for callers that
// want to pass walk lookup around without holding the Graph itself.
func (g *Graph) LookupFn() func(from, to station.Code) (time.Duration, bool) {
	return g.Lookup
}
