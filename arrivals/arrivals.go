// Package arrivals builds the index that makes destination-anchored search
// possible: given the services that arrive at a destination, it answers
// "which stations can I board a train at to reach the destination, and
// when?" in O(1).
package arrivals

import (
	"github.com/onwardrail/core/domain"
	"github.com/onwardrail/core/railtime"
	"github.com/onwardrail/core/station"
)

// FeederInfo is one boardable opportunity toward the index's destination.
type FeederInfo struct {
	Service     *domain.Service
	BoardIndex  domain.CallIndex
	BoardTime   railtime.RailTime
	DestArrival railtime.RailTime
}

// Index answers "which services, boarded where, reach this destination" by
// pre-processing an arrivals board into a per-station lookup.
type Index struct {
	destination      station.Code
	arrivingServices []*domain.Service
	feeders          map[station.Code][]FeederInfo
}

// Build constructs an Index from the services arriving at destination. Each
// service's calling points before the destination are scanned once.
//
// The destination call is located by its first occurrence in a service's
// calls — a service may continue past the destination and call there again,
// and only the first arrival is the one this search is reasoning about. A
// service is skipped entirely if its destination call is cancelled or has no
// observable arrival time. Within the prefix before the destination call,
// any cancelled call or any call with no observable departure is skipped —
// you cannot board where there's no departure time.
func Build(destination station.Code, arrivals []*domain.Service) *Index {
	feeders := make(map[station.Code][]FeederInfo)

	for _, svc := range arrivals {
		destIdx, ok := svc.FirstCallAt(destination)
		if !ok {
			continue
		}
		destCall := svc.Calls[destIdx]
		if destCall.Cancelled {
			continue
		}
		destArrival := destCall.ObservedArrival()
		if destArrival == nil {
			continue
		}

		for i := 0; i < int(destIdx); i++ {
			call := svc.Calls[i]
			if call.Cancelled {
				continue
			}
			boardTime := call.ObservedDeparture()
			if boardTime == nil {
				continue
			}
			feeders[call.Station] = append(feeders[call.Station], FeederInfo{
				Service:     svc,
				BoardIndex:  domain.CallIndex(i),
				BoardTime:   *boardTime,
				DestArrival: *destArrival,
			})
		}
	}

	return &Index{
		destination:      destination,
		arrivingServices: arrivals,
		feeders:          feeders,
	}
}

// FeedersAt returns the boardable opportunities at the given station, or nil
// if it isn't a feeder.
func (idx *Index) FeedersAt(code station.Code) []FeederInfo {
	return idx.feeders[code]
}

// IsFeeder reports whether the given station has at least one boardable
// opportunity toward the destination.
func (idx *Index) IsFeeder(code station.Code) bool {
	_, ok := idx.feeders[code]
	return ok
}

// FeederStations returns every station with at least one boardable
// opportunity.
func (idx *Index) FeederStations() []station.Code {
	stations := make([]station.Code, 0, len(idx.feeders))
	for code := range idx.feeders {
		stations = append(stations, code)
	}
	return stations
}

// Destination returns the station this index was built for.
func (idx *Index) Destination() station.Code { return idx.destination }

// ArrivingServices returns the full set of services the index was built
// from.
func (idx *Index) ArrivingServices() []*domain.Service { return idx.arrivingServices }

// FeederStationCount returns the number of distinct feeder stations.
func (idx *Index) FeederStationCount() int { return len(idx.feeders) }
