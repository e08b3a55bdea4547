package domain

import (
	"time"

	"github.com/onwardrail/core/station"
)

// Walk is a timed inter-station transfer on foot. Symmetric at the graph
// level (see walkgraph), but a constructed Walk records the direction it
// was taken in a given journey.
type Walk struct {
	From     station.Code
	To       station.Code
	Duration time.Duration
}

// NewWalk constructs a Walk.
func NewWalk(from, to station.Code, d time.Duration) Walk {
	return Walk{From: from, To: to, Duration: d}
}
