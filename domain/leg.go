package domain

import (
	"time"

	"github.com/onwardrail/core/railerr"
	"github.com/onwardrail/core/railtime"
	"github.com/onwardrail/core/station"
)

// Leg is a contiguous slice of one Service from a boarding call to an
// alighting call, with the two times that make it well-formed cached at
// construction so accessors never fail.
type Leg struct {
	service   *Service
	boardIdx  CallIndex
	alightIdx CallIndex
	departure railtime.RailTime
	arrival   railtime.RailTime
}

// NewLeg validates and constructs a Leg.
//
// Fails when alightIdx <= boardIdx, either index is out of range, the
// boarding call has no observed departure, or the alighting call has
// neither an observed arrival nor (as fallback) an observed departure.
func NewLeg(service *Service, boardIdx, alightIdx CallIndex) (*Leg, error) {
	if alightIdx <= boardIdx {
		return nil, railerr.NewValidation("leg", "alight index must be after board index")
	}
	if int(boardIdx) < 0 || int(boardIdx) >= len(service.Calls) {
		return nil, railerr.NewValidation("leg.board_idx", "out of range")
	}
	if int(alightIdx) < 0 || int(alightIdx) >= len(service.Calls) {
		return nil, railerr.NewValidation("leg.alight_idx", "out of range")
	}

	boardCall := service.Calls[boardIdx]
	alightCall := service.Calls[alightIdx]

	departure := boardCall.ObservedDeparture()
	if departure == nil {
		return nil, railerr.NewValidation("leg", "boarding call has no observed departure")
	}

	arrival := alightCall.ObservedArrival()
	if arrival == nil {
		// Fall back to departure when arrival is absent upstream.
		arrival = alightCall.ObservedDeparture()
	}
	if arrival == nil {
		return nil, railerr.NewValidation("leg", "alighting call has no observed arrival or departure")
	}

	return &Leg{
		service:   service,
		boardIdx:  boardIdx,
		alightIdx: alightIdx,
		departure: *departure,
		arrival:   *arrival,
	}, nil
}

// Service returns the service this leg rides.
func (l *Leg) Service() *Service { return l.service }

// BoardIdx returns the boarding call index.
func (l *Leg) BoardIdx() CallIndex { return l.boardIdx }

// AlightIdx returns the alighting call index.
func (l *Leg) AlightIdx() CallIndex { return l.alightIdx }

// BoardCall returns the boarding call.
func (l *Leg) BoardCall() Call { return l.service.Calls[l.boardIdx] }

// AlightCall returns the alighting call.
func (l *Leg) AlightCall() Call { return l.service.Calls[l.alightIdx] }

// DepartureTime returns the boarding departure time (guaranteed present).
func (l *Leg) DepartureTime() railtime.RailTime { return l.departure }

// ArrivalTime returns the alighting arrival time (guaranteed present,
// possibly a departure-time fallback).
func (l *Leg) ArrivalTime() railtime.RailTime { return l.arrival }

// Duration returns arrival minus departure.
func (l *Leg) Duration() time.Duration { return l.arrival.Sub(l.departure) }

// IntermediateStopCount returns alight - board - 1.
func (l *Leg) IntermediateStopCount() int { return int(l.alightIdx) - int(l.boardIdx) - 1 }

// Calls returns the inclusive slice of calls from board to alight.
func (l *Leg) Calls() []Call { return l.service.Calls[l.boardIdx : l.alightIdx+1] }

// BoardStation returns the boarding station code.
func (l *Leg) BoardStation() station.Code { return l.BoardCall().Station }

// AlightStation returns the alighting station code.
func (l *Leg) AlightStation() station.Code { return l.AlightCall().Station }

// IsCancelled reports whether either endpoint call is cancelled.
func (l *Leg) IsCancelled() bool {
	return l.BoardCall().Cancelled || l.AlightCall().Cancelled
}

// Equal compares legs by (service identity, board index, alight index),
// not structural equality of the underlying calls — a service may appear
// identically twice but a leg's identity is where it boards and alights on
// one particular retrieved Service instance.
func (l *Leg) Equal(other *Leg) bool {
	if l == nil || other == nil {
		return l == other
	}
	return l.service == other.service && l.boardIdx == other.boardIdx && l.alightIdx == other.alightIdx
}
