package domain

import (
	"time"

	"github.com/onwardrail/core/railerr"
	"github.com/onwardrail/core/railtime"
	"github.com/onwardrail/core/station"
)

// Journey is a non-empty, connected sequence of segments whose first and
// last segments are trains — walks only bridge trains, they never open or
// close a journey.
type Journey struct {
	Segments []Segment
}

// NewJourney validates and constructs a Journey.
//
// Fails when segments is empty, when consecutive segments don't connect
// (destination of one must equal origin of the next), or when the first
// or last segment is a walk.
func NewJourney(segments []Segment) (*Journey, error) {
	if len(segments) == 0 {
		return nil, railerr.NewValidation("journey", "must have at least one segment")
	}
	if !segments[0].IsTrain() {
		return nil, railerr.NewValidation("journey", "first segment must be a train")
	}
	if !segments[len(segments)-1].IsTrain() {
		return nil, railerr.NewValidation("journey", "last segment must be a train")
	}
	for i := 1; i < len(segments); i++ {
		if segments[i-1].Destination() != segments[i].Origin() {
			return nil, railerr.NewValidation("journey", "segments must connect")
		}
	}
	return &Journey{Segments: segments}, nil
}

// Origin returns the origin of the first segment.
func (j *Journey) Origin() station.Code { return j.Segments[0].Origin() }

// Destination returns the destination of the last segment.
func (j *Journey) Destination() station.Code { return j.Segments[len(j.Segments)-1].Destination() }

// DepartureTime returns the first train's departure time.
func (j *Journey) DepartureTime() railtime.RailTime {
	return j.firstLeg().DepartureTime()
}

// ArrivalTime returns the last train's arrival time.
func (j *Journey) ArrivalTime() railtime.RailTime {
	return j.lastLeg().ArrivalTime()
}

// TotalDuration returns arrival minus departure.
func (j *Journey) TotalDuration() time.Duration {
	return j.ArrivalTime().Sub(j.DepartureTime())
}

// ChangeCount returns the number of train segments minus one.
func (j *Journey) ChangeCount() int {
	trains := 0
	for _, s := range j.Segments {
		if s.IsTrain() {
			trains++
		}
	}
	return trains - 1
}

// TotalWalkDuration sums the duration of all walk segments.
func (j *Journey) TotalWalkDuration() time.Duration {
	var total time.Duration
	for _, s := range j.Segments {
		if !s.IsTrain() {
			total += s.Walk.Duration
		}
	}
	return total
}

// Legs returns only the train segments' legs, in order.
func (j *Journey) Legs() []*Leg {
	var legs []*Leg
	for _, s := range j.Segments {
		if s.IsTrain() {
			legs = append(legs, s.Leg)
		}
	}
	return legs
}

// UsesServiceTwice reports whether any two train legs ride the same
// upstream service (by opaque id), which would make the journey a
// self-loop.
func (j *Journey) UsesServiceTwice() bool {
	seen := make(map[string]bool)
	for _, leg := range j.Legs() {
		id := leg.Service().Ref.UpstreamID
		if seen[id] {
			return true
		}
		seen[id] = true
	}
	return false
}

func (j *Journey) firstLeg() *Leg {
	for _, s := range j.Segments {
		if s.IsTrain() {
			return s.Leg
		}
	}
	return nil
}

func (j *Journey) lastLeg() *Leg {
	for i := len(j.Segments) - 1; i >= 0; i-- {
		if j.Segments[i].IsTrain() {
			return j.Segments[i].Leg
		}
	}
	return nil
}
