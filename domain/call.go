// Package domain holds the validated journey-planning types: calling
// points, services, legs, walks, segments, and journeys.
package domain

import (
	"github.com/onwardrail/core/railerr"
	"github.com/onwardrail/core/railtime"
	"github.com/onwardrail/core/station"
)

// CallIndex is a positional index into a Service's calls. Station code is
// not a primary key inside a service because a service may visit the same
// station more than once (loops, turnbacks, reversals); all intra-service
// addressing goes through CallIndex instead.
type CallIndex int

// Next returns the following index.
func (c CallIndex) Next() CallIndex { return c + 1 }

// Prev returns the preceding index, and false if c is already zero.
func (c CallIndex) Prev() (CallIndex, bool) {
	if c == 0 {
		return 0, false
	}
	return c - 1, true
}

// Call is a single station visit inside a service.
//
// An origin call carries only a departure; a terminus call carries only an
// arrival; intermediate calls carry both (arrival may be absent upstream).
type Call struct {
	Station           station.Code
	StationName       string
	Platform          *string
	BookedArrival     *railtime.RailTime
	BookedDeparture   *railtime.RailTime
	RealtimeArrival   *railtime.RailTime
	RealtimeDeparture *railtime.RailTime
	Cancelled         bool
}

// NewCall constructs a bare call with no times set.
func NewCall(code station.Code, name string) Call {
	return Call{Station: code, StationName: name}
}

// ObservedArrival returns the realtime arrival when present, else the
// booked arrival.
func (c Call) ObservedArrival() *railtime.RailTime {
	if c.RealtimeArrival != nil {
		return c.RealtimeArrival
	}
	return c.BookedArrival
}

// ObservedDeparture returns the realtime departure when present, else the
// booked departure.
func (c Call) ObservedDeparture() *railtime.RailTime {
	if c.RealtimeDeparture != nil {
		return c.RealtimeDeparture
	}
	return c.BookedDeparture
}

// IsArrivalDelayed reports whether the realtime arrival is later than the
// booked arrival.
func (c Call) IsArrivalDelayed() bool {
	if c.RealtimeArrival == nil || c.BookedArrival == nil {
		return false
	}
	return c.RealtimeArrival.After(*c.BookedArrival)
}

// IsDepartureDelayed reports whether the realtime departure is later than
// the booked departure.
func (c Call) IsDepartureDelayed() bool {
	if c.RealtimeDeparture == nil || c.BookedDeparture == nil {
		return false
	}
	return c.RealtimeDeparture.After(*c.BookedDeparture)
}

// ServiceRef is an opaque, ephemeral reference to a service: the
// upstream-assigned id paired with the station whose board produced it.
// Only meaningful while the service remains on that station's departure
// board — the core never persists one.
type ServiceRef struct {
	UpstreamID string
	BoardedAt  station.Code
}

// NewServiceRef builds a ServiceRef.
func NewServiceRef(upstreamID string, boardedAt station.Code) ServiceRef {
	return ServiceRef{UpstreamID: upstreamID, BoardedAt: boardedAt}
}

// String renders a diagnostic form, never used as a persisted key.
func (r ServiceRef) String() string {
	return r.UpstreamID + "@" + r.BoardedAt.String()
}

// Service is a validated calling sequence retrieved from one station's
// board.
type Service struct {
	Ref             ServiceRef
	Headcode        *station.Headcode
	Operator        string
	OperatorCode    *station.OperatorCode
	Calls           []Call
	BoardStationIdx CallIndex
}

// NewService validates and constructs a Service. Calls must be non-empty,
// chronologically non-decreasing in absolute time (comparing whichever
// observed time each call offers), and BoardStationIdx must be in range.
func NewService(ref ServiceRef, headcode *station.Headcode, operator string, operatorCode *station.OperatorCode, calls []Call, boardStationIdx CallIndex) (*Service, error) {
	if len(calls) == 0 {
		return nil, railerr.NewValidation("service.calls", "must be non-empty")
	}
	if int(boardStationIdx) < 0 || int(boardStationIdx) >= len(calls) {
		return nil, railerr.NewValidation("service.board_station_idx", "out of range")
	}
	if err := checkChronological(calls); err != nil {
		return nil, err
	}
	return &Service{
		Ref:             ref,
		Headcode:        headcode,
		Operator:        operator,
		OperatorCode:    operatorCode,
		Calls:           calls,
		BoardStationIdx: boardStationIdx,
	}, nil
}

func checkChronological(calls []Call) error {
	var last *railtime.RailTime
	for _, c := range calls {
		for _, candidate := range []*railtime.RailTime{c.ObservedArrival(), c.ObservedDeparture()} {
			if candidate == nil {
				continue
			}
			if last != nil && candidate.Before(*last) {
				return railerr.NewValidation("service.calls", "times must be chronologically non-decreasing")
			}
			last = candidate
		}
	}
	return nil
}

// DestinationCall returns the final call and its index: the service's
// terminus as retrieved.
func (s *Service) DestinationCall() (Call, CallIndex) {
	idx := CallIndex(len(s.Calls) - 1)
	return s.Calls[idx], idx
}

// FirstCallAt returns the index of the first call at the given station, if
// any. Used to locate the destination call on an arrivals board, where a
// service may continue past the destination and later revisit it.
func (s *Service) FirstCallAt(code station.Code) (CallIndex, bool) {
	for i, c := range s.Calls {
		if c.Station == code {
			return CallIndex(i), true
		}
	}
	return 0, false
}
