package domain

import "github.com/onwardrail/core/station"

// SegmentKind discriminates the two Segment variants.
type SegmentKind int

const (
	// SegmentTrain wraps a Leg.
	SegmentTrain SegmentKind = iota
	// SegmentWalk wraps a Walk.
	SegmentWalk
)

// Segment is the tagged union of a train leg or a walk — the atom of a
// Journey. Exactly one of Leg or Walk is set, matching Kind.
type Segment struct {
	Kind SegmentKind
	Leg  *Leg
	Walk *Walk
}

// TrainSegment wraps a Leg as a Segment.
func TrainSegment(l *Leg) Segment { return Segment{Kind: SegmentTrain, Leg: l} }

// WalkSegment wraps a Walk as a Segment.
func WalkSegment(w Walk) Segment { return Segment{Kind: SegmentWalk, Walk: &w} }

// Origin returns the station this segment departs from.
func (s Segment) Origin() station.Code {
	if s.Kind == SegmentTrain {
		return s.Leg.BoardStation()
	}
	return s.Walk.From
}

// Destination returns the station this segment arrives at.
func (s Segment) Destination() station.Code {
	if s.Kind == SegmentTrain {
		return s.Leg.AlightStation()
	}
	return s.Walk.To
}

// IsTrain reports whether this segment is a train leg.
func (s Segment) IsTrain() bool { return s.Kind == SegmentTrain }
