package planner

import (
	"context"

	"github.com/onwardrail/core/arrivals"
	"github.com/onwardrail/core/domain"
	"github.com/onwardrail/core/railerr"
	"github.com/onwardrail/core/railtime"
	"github.com/onwardrail/core/station"
	"github.com/onwardrail/core/walkgraph"
)

// Request describes one journey search: where the passenger currently is
// (a service and their position on it) and where they want to go.
type Request struct {
	CurrentService  *domain.Service
	CurrentPosition domain.CallIndex
	Destination     station.Code
}

// Validate checks that the request's position leaves at least one
// subsequent stop on the current service to alight at.
func (r Request) Validate() error {
	if int(r.CurrentPosition) < 0 || int(r.CurrentPosition) >= len(r.CurrentService.Calls) {
		return railerr.NewValidation("request.current_position", "out of range")
	}
	if int(r.CurrentPosition) >= len(r.CurrentService.Calls)-1 {
		return railerr.NewValidation("request.current_position", "no subsequent stops on current service")
	}
	return nil
}

// Result is the outcome of a journey search.
type Result struct {
	Journeys       []*domain.Journey
	RoutesExplored int
}

// candidate is a station reachable from the current service (directly or
// via one walk), annotated with the earliest time a connection becomes
// available there and the segments ridden to reach it.
type candidate struct {
	station     station.Code
	availableAt railtime.RailTime
	prefix      []domain.Segment
}

// arrivalsFirstSearch runs steps 1-4 of the destination-anchored search:
// the direct check, the arrivals index, one-change candidates (direct and
// walk-extended), and — when configured for at least two changes —
// two-change bridge exploration. The returned journeys are unranked; the
// caller composes them with any BFS fallback before ranking.
func arrivalsFirstSearch(ctx context.Context, f *fetcher, walks *walkgraph.Graph, cfg Config, req Request) ([]*domain.Journey, []candidate, *arrivals.Index, error) {
	var journeys []*domain.Journey

	svc := req.CurrentService

	// Step 1: direct.
	if destIdx, ok := findCallFrom(svc, req.Destination, req.CurrentPosition.Next()); ok {
		if leg, err := domain.NewLeg(svc, req.CurrentPosition, destIdx); err == nil {
			if journey, err := domain.NewJourney([]domain.Segment{domain.TrainSegment(leg)}); err == nil && journey.TotalDuration() <= cfg.MaxJourney {
				journeys = append(journeys, journey)
			}
		}
	}

	if cfg.MaxChanges < 1 {
		return journeys, nil, nil, nil
	}

	// Step 2: arrivals index, anchored on the current service's departure
	// at the passenger's position.
	boardCall := svc.Calls[req.CurrentPosition]
	anchor := boardCall.ObservedDeparture()
	if anchor == nil {
		anchor = observedAlightTime(boardCall)
	}
	if anchor == nil {
		return journeys, nil, nil, railerr.NewValidation("request.current_position", "boarding call has no observable time")
	}

	arrivingServices, err := f.getArrivals(ctx, req.Destination, *anchor)
	if err != nil {
		return nil, nil, nil, err
	}
	idx := arrivals.Build(req.Destination, arrivingServices)

	// Step 3: one-change candidates, direct and walk-extended.
	candidatesByStation := make(map[station.Code]candidate)

	considerCandidate := func(c candidate) {
		existing, ok := candidatesByStation[c.station]
		if !ok || c.availableAt.Before(existing.availableAt) {
			candidatesByStation[c.station] = c
		}
	}

	for i := int(req.CurrentPosition) + 1; i < len(svc.Calls); i++ {
		call := svc.Calls[i]
		if call.Cancelled {
			continue
		}
		arrivalAt := observedAlightTime(call)
		if arrivalAt == nil {
			continue
		}
		s := call.Station
		available := arrivalAt.Add(cfg.MinConnection)

		leg1, err := domain.NewLeg(svc, req.CurrentPosition, domain.CallIndex(i))
		if err != nil {
			continue
		}
		directPrefix := []domain.Segment{domain.TrainSegment(leg1)}

		emitFeederJourneys(&journeys, idx, req.Destination, s, available, directPrefix, svc.Ref.UpstreamID, cfg)
		considerCandidate(candidate{station: s, availableAt: available, prefix: directPrefix})

		for _, n := range walks.WalkableFrom(s) {
			if n.Duration > cfg.MaxWalk {
				continue
			}
			walkAvailable := arrivalAt.Add(n.Duration).Add(cfg.MinConnection)
			walkPrefix := append(append([]domain.Segment{}, directPrefix...), domain.WalkSegment(domain.NewWalk(s, n.Station, n.Duration)))

			emitFeederJourneys(&journeys, idx, req.Destination, n.Station, walkAvailable, walkPrefix, svc.Ref.UpstreamID, cfg)
			considerCandidate(candidate{station: n.Station, availableAt: walkAvailable, prefix: walkPrefix})
		}
	}

	if cfg.MaxChanges < 2 {
		return journeys, candidatesOf(candidatesByStation), idx, nil
	}

	// Step 4: two-change bridge exploration, beyond stations the feeder
	// index already resolved directly.
	var queryStations []candidate
	for _, c := range candidatesByStation {
		if idx.IsFeeder(c.station) {
			continue
		}
		queryStations = append(queryStations, c)
	}

	if len(queryStations) == 0 {
		return journeys, candidatesOf(candidatesByStation), idx, nil
	}

	queries := make([]departureQuery, len(queryStations))
	for i, c := range queryStations {
		queries[i] = departureQuery{station: c.station, after: c.availableAt.Add(-searchEpsilon)}
	}
	byStation := f.departureBatch(ctx, queries, cfg.BatchSize)

	for _, c := range queryStations {
		for _, bridge := range byStation[c.station] {
			if bridge.Ref.UpstreamID == svc.Ref.UpstreamID {
				continue
			}
			boardIdx, ok := findBoardableCall(bridge, c.station, 0, c.availableAt)
			if !ok {
				continue
			}
			for j := int(boardIdx) + 1; j < len(bridge.Calls); j++ {
				alightCall := bridge.Calls[j]
				if alightCall.Cancelled {
					continue
				}
				alightArrival := observedAlightTime(alightCall)
				if alightArrival == nil {
					continue
				}
				bridgeLeg, err := domain.NewLeg(bridge, boardIdx, domain.CallIndex(j))
				if err != nil {
					continue
				}
				bridgePrefix := append(append([]domain.Segment{}, c.prefix...), domain.TrainSegment(bridgeLeg))

				available := alightArrival.Add(cfg.MinConnection)
				emitFeederJourneys(&journeys, idx, req.Destination, alightCall.Station, available, bridgePrefix, bridge.Ref.UpstreamID, cfg, svc.Ref.UpstreamID)

				for _, n := range walks.WalkableFrom(alightCall.Station) {
					if n.Duration > cfg.MaxWalk {
						continue
					}
					walkAvailable := alightArrival.Add(n.Duration).Add(cfg.MinConnection)
					walkPrefix := append(append([]domain.Segment{}, bridgePrefix...), domain.WalkSegment(domain.NewWalk(alightCall.Station, n.Station, n.Duration)))
					emitFeederJourneys(&journeys, idx, req.Destination, n.Station, walkAvailable, walkPrefix, bridge.Ref.UpstreamID, cfg, svc.Ref.UpstreamID)
				}
			}
		}
	}

	return journeys, candidatesOf(candidatesByStation), idx, nil
}

func candidatesOf(m map[station.Code]candidate) []candidate {
	out := make([]candidate, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	return out
}

// emitFeederJourneys appends one completed journey per FeederInfo at
// station whose board-time is at or after available, provided the feeder's
// service doesn't repeat an upstream id already used in prefix
// (firstUsedID, moreUsedIDs),
// and the resulting total journey time fits max-journey.
func emitFeederJourneys(journeys *[]*domain.Journey, idx *arrivals.Index, destination station.Code, station_ station.Code, available railtime.RailTime, prefix []domain.Segment, firstUsedID string, cfg Config, moreUsedIDs ...string) {
	for _, feeder := range idx.FeedersAt(station_) {
		if feeder.BoardTime.Before(available) {
			continue
		}
		if feeder.Service.Ref.UpstreamID == firstUsedID {
			continue
		}
		skip := false
		for _, id := range moreUsedIDs {
			if feeder.Service.Ref.UpstreamID == id {
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		destIdx, ok := feeder.Service.FirstCallAt(destination)
		if !ok {
			continue
		}
		leg, err := domain.NewLeg(feeder.Service, feeder.BoardIndex, destIdx)
		if err != nil {
			continue
		}
		segments := append(append([]domain.Segment{}, prefix...), domain.TrainSegment(leg))
		journey, err := domain.NewJourney(segments)
		if err != nil {
			continue
		}
		if journey.UsesServiceTwice() {
			continue
		}
		if journey.TotalDuration() > cfg.MaxJourney {
			continue
		}
		*journeys = append(*journeys, journey)
	}
}
