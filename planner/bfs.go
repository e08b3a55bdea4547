package planner

import (
	"context"

	"github.com/onwardrail/core/arrivals"
	"github.com/onwardrail/core/domain"
	"github.com/onwardrail/core/railtime"
	"github.com/onwardrail/core/station"
	"github.com/onwardrail/core/walkgraph"
)

// bfsState is one frontier entry: the segments ridden so far, the station
// reached, the time a connection becomes available there, and the number
// of train changes made.
type bfsState struct {
	station     station.Code
	availableAt railtime.RailTime
	prefix      []domain.Segment
	changes     int
	usedIDs     map[string]bool
}

// bfsFallback explores beyond the reach of the arrivals-first pass by
// expanding level-by-level from the same candidates arrivalsFirstSearch
// already produced, batch-fetching departures for every state at one
// change-level before moving to the next. It shares the arrivals index so
// a state that lands on a feeder station completes immediately instead of
// expanding further. An alighting call directly at the destination also
// completes immediately, independent of the feeder index.
// statesExpanded counts every frontier entry the BFS actually explores
// (fetches departures for or completes from), which the planner folds into
// its routes-explored total alongside direct provider calls.
func bfsFallback(ctx context.Context, f *fetcher, walks *walkgraph.Graph, idx *arrivals.Index, cfg Config, firstUsedID string, initial []candidate) ([]*domain.Journey, int) {
	var journeys []*domain.Journey
	statesExpanded := 0
	visited := make(map[station.Code]map[int]bool)

	markVisited := func(s station.Code, changes int) bool {
		byChanges, ok := visited[s]
		if !ok {
			byChanges = make(map[int]bool)
			visited[s] = byChanges
		}
		if byChanges[changes] {
			return false
		}
		byChanges[changes] = true
		return true
	}

	frontier := make([]bfsState, 0, len(initial))
	for _, c := range initial {
		if idx.IsFeeder(c.station) {
			// arrivalsFirstSearch already emitted these completions.
			continue
		}
		if !markVisited(c.station, 1) {
			continue
		}
		frontier = append(frontier, bfsState{
			station:     c.station,
			availableAt: c.availableAt,
			prefix:      c.prefix,
			changes:     1,
			usedIDs:     map[string]bool{firstUsedID: true},
		})
	}

	for len(frontier) > 0 && frontier[0].changes <= cfg.MaxChanges {
		statesExpanded += len(frontier)
		queries := make([]departureQuery, len(frontier))
		for i, st := range frontier {
			queries[i] = departureQuery{station: st.station, after: st.availableAt.Add(-searchEpsilon)}
		}
		byStation := f.departureBatch(ctx, queries, cfg.BatchSize)

		var next []bfsState
		for _, st := range frontier {
			for _, bridge := range byStation[st.station] {
				if st.usedIDs[bridge.Ref.UpstreamID] {
					continue
				}
				boardIdx, ok := findBoardableCall(bridge, st.station, 0, st.availableAt)
				if !ok {
					continue
				}

				usedIDs := make(map[string]bool, len(st.usedIDs)+1)
				for id := range st.usedIDs {
					usedIDs[id] = true
				}
				usedIDs[bridge.Ref.UpstreamID] = true

				for j := int(boardIdx) + 1; j < len(bridge.Calls); j++ {
					alightCall := bridge.Calls[j]
					if alightCall.Cancelled {
						continue
					}
					alightArrival := observedAlightTime(alightCall)
					if alightArrival == nil {
						continue
					}
					leg, err := domain.NewLeg(bridge, boardIdx, domain.CallIndex(j))
					if err != nil {
						continue
					}
					prefix := append(append([]domain.Segment{}, st.prefix...), domain.TrainSegment(leg))
					changes := st.changes + 1

					if alightCall.Station == idx.Destination() {
						if journey, err := domain.NewJourney(prefix); err == nil {
							if !journey.UsesServiceTwice() && journey.TotalDuration() <= cfg.MaxJourney {
								journeys = append(journeys, journey)
							}
						}
						continue
					}

					if completed, isFeeder := completeFromFeeder(idx, alightCall.Station, alightArrival.Add(cfg.MinConnection), prefix, usedIDs, cfg); isFeeder {
						journeys = append(journeys, completed...)
					} else if markVisited(alightCall.Station, changes) {
						next = append(next, bfsState{
							station:     alightCall.Station,
							availableAt: alightArrival.Add(cfg.MinConnection),
							prefix:      prefix,
							changes:     changes,
							usedIDs:     usedIDs,
						})
					}

					for _, n := range walks.WalkableFrom(alightCall.Station) {
						if n.Duration > cfg.MaxWalk {
							continue
						}
						walkAvailable := alightArrival.Add(n.Duration).Add(cfg.MinConnection)
						walkPrefix := append(append([]domain.Segment{}, prefix...), domain.WalkSegment(domain.NewWalk(alightCall.Station, n.Station, n.Duration)))

						if completed, isFeeder := completeFromFeeder(idx, n.Station, walkAvailable, walkPrefix, usedIDs, cfg); isFeeder {
							journeys = append(journeys, completed...)
						} else if markVisited(n.Station, changes) {
							next = append(next, bfsState{
								station:     n.Station,
								availableAt: walkAvailable,
								prefix:      walkPrefix,
								changes:     changes,
								usedIDs:     usedIDs,
							})
						}
					}
				}
			}
		}
		frontier = next
	}

	return journeys, statesExpanded
}

// completeFromFeeder reports whether station is a feeder station and, if
// so, returns one completed journey per qualifying FeederInfo there. A
// feeder station is a terminal state in the BFS and is never expanded
// further, whether or not any feeder at it actually qualifies.
func completeFromFeeder(idx *arrivals.Index, station_ station.Code, available railtime.RailTime, prefix []domain.Segment, usedIDs map[string]bool, cfg Config) ([]*domain.Journey, bool) {
	if !idx.IsFeeder(station_) {
		return nil, false
	}
	var out []*domain.Journey
	for _, feeder := range idx.FeedersAt(station_) {
		if feeder.BoardTime.Before(available) {
			continue
		}
		if usedIDs[feeder.Service.Ref.UpstreamID] {
			continue
		}
		destIdx, ok := feeder.Service.FirstCallAt(idx.Destination())
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
		if journey.UsesServiceTwice() || journey.TotalDuration() > cfg.MaxJourney || journey.ChangeCount() > cfg.MaxChanges {
			continue
		}
		out = append(out, journey)
	}
	return out, true
}
