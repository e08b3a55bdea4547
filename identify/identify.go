// Package identify recovers a passenger's current in-service train from
// only what they can observe: the next station the train calls at, and
// optionally its terminus. It turns a next station's departure board into a
// ranked list of candidate services, so a caller who only knows "I'm on the
// 09:02 to Bristol" can land on a concrete (Service, CallIndex) position
// without already holding an opaque ServiceRef.
package identify

import (
	"sort"

	"github.com/onwardrail/core/domain"
	"github.com/onwardrail/core/railerr"
	"github.com/onwardrail/core/railtime"
	"github.com/onwardrail/core/station"
)

// Confidence records how strongly a match was made. Exact beats
// NextStationOnly when sorting, since Exact means both the next station and
// the terminus were checked.
type Confidence int

const (
	// Exact means both the next station and a supplied terminus matched.
	Exact Confidence = iota
	// NextStationOnly means only the next station's departure board was
	// used; no terminus was supplied to narrow the match.
	NextStationOnly
)

// Match pairs a candidate service with the confidence of the match and the
// index of its departure call on the queried board.
type Match struct {
	Service    *domain.Service
	BoardIndex domain.CallIndex
	Confidence Confidence
}

// FilterAndRank narrows services — a departure board already fetched for the
// next station the passenger observed — to those consistent with an
// optional terminus, and orders the result by confidence then by departure
// time.
//
// When terminus is non-nil, only services whose final call matches it
// survive, each with Exact confidence. When terminus is nil, every service
// survives with NextStationOnly confidence. Either way the result is sorted
// by confidence first, then by each service's observed departure time from
// its board call.
func FilterAndRank(services []*domain.Service, terminus *station.Code) []Match {
	matches := make([]Match, 0, len(services))

	for _, svc := range services {
		confidence := NextStationOnly
		if terminus != nil {
			dest, _ := svc.DestinationCall()
			if dest.Station != *terminus {
				continue
			}
			confidence = Exact
		}
		matches = append(matches, Match{
			Service:    svc,
			BoardIndex: svc.BoardStationIdx,
			Confidence: confidence,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence < matches[j].Confidence
		}
		ti := matches[i].departureTime()
		tj := matches[j].departureTime()
		if ti == nil || tj == nil {
			return false
		}
		return ti.Before(*tj)
	})

	return matches
}

func (m Match) departureTime() *railtime.RailTime {
	call := m.Service.Calls[m.Service.BoardStationIdx]
	return call.ObservedDeparture()
}

// Identify resolves the single unambiguous current service from a next
// station's departure board. It is a thin, strict wrapper over
// FilterAndRank for callers that want one definite answer rather than a
// ranked list: empty or ambiguous (more than one Exact match, or — with no
// terminus — more than one candidate at all) results are a validation
// error.
func Identify(services []*domain.Service, terminus *station.Code) (*Match, error) {
	matches := FilterAndRank(services, terminus)
	if len(matches) == 0 {
		return nil, railerr.NewValidation("identify.services", "no service on this board matches the supplied criteria")
	}
	if len(matches) > 1 && matches[0].Confidence == matches[1].Confidence {
		return nil, railerr.NewValidation("identify.services", "more than one service matches the supplied criteria")
	}
	return &matches[0], nil
}
