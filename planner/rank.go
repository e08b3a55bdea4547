// Package planner composes the board cache, arrivals index, walk graph, and
// service provider into destination-anchored journey search: an
// arrivals-first pass for up to two changes, a BFS fallback for deeper
// itineraries, and a shared ranker that both feed into.
package planner

import (
	"sort"

	"github.com/onwardrail/core/domain"
	"github.com/onwardrail/core/railtime"
)

// RankJourneys orders journeys best-first by (arrival time, change count,
// total duration), ascending on each.
func RankJourneys(journeys []*domain.Journey) []*domain.Journey {
	sort.SliceStable(journeys, func(i, j int) bool {
		return less(journeys[i], journeys[j])
	})
	return journeys
}

func less(a, b *domain.Journey) bool {
	at, bt := a.ArrivalTime(), b.ArrivalTime()
	if !at.Equal(bt) {
		return at.Before(bt)
	}
	ac, bc := a.ChangeCount(), b.ChangeCount()
	if ac != bc {
		return ac < bc
	}
	return a.TotalDuration() < b.TotalDuration()
}

// dominates reports whether a is at least as good as b on every axis
// (arrival, changes, duration) and strictly better on at least one.
func dominates(a, b *domain.Journey) bool {
	aArr, bArr := a.ArrivalTime(), b.ArrivalTime()
	arrLE := aArr.Before(bArr) || aArr.Equal(bArr)
	changesLE := a.ChangeCount() <= b.ChangeCount()
	durLE := a.TotalDuration() <= b.TotalDuration()
	if !arrLE || !changesLE || !durLE {
		return false
	}
	return aArr.Before(bArr) || a.ChangeCount() < b.ChangeCount() || a.TotalDuration() < b.TotalDuration()
}

// RemoveDominated keeps only the Pareto frontier on (arrival, changes,
// duration): a journey survives only if no other surviving journey
// dominates it.
func RemoveDominated(journeys []*domain.Journey) []*domain.Journey {
	if len(journeys) <= 1 {
		return journeys
	}

	result := make([]*domain.Journey, 0, len(journeys))
	for _, j := range journeys {
		isDominated := false
		for _, existing := range result {
			if dominates(existing, j) {
				isDominated = true
				break
			}
		}
		if isDominated {
			continue
		}
		kept := result[:0]
		for _, existing := range result {
			if !dominates(j, existing) {
				kept = append(kept, existing)
			}
		}
		result = append(kept, j)
	}
	return result
}

type dedupKey struct {
	arrival, departure railtime.RailTime
	changes            int
}

// Deduplicate collapses journeys that share (arrival, departure, change
// count), keeping the shortest-duration survivor of each group.
func Deduplicate(journeys []*domain.Journey) []*domain.Journey {
	if len(journeys) <= 1 {
		return journeys
	}

	best := make(map[dedupKey]*domain.Journey)
	order := make([]dedupKey, 0, len(journeys))
	for _, j := range journeys {
		key := dedupKey{
			arrival:   j.ArrivalTime(),
			departure: j.DepartureTime(),
			changes:   j.ChangeCount(),
		}
		existing, ok := best[key]
		if !ok {
			order = append(order, key)
			best[key] = j
			continue
		}
		if j.TotalDuration() < existing.TotalDuration() {
			best[key] = j
		}
	}

	result := make([]*domain.Journey, 0, len(order))
	for _, key := range order {
		result = append(result, best[key])
	}
	return result
}

// FinishRanking runs the full composition: dominance filter, dedup, sort,
// then truncate to maxResults.
func FinishRanking(journeys []*domain.Journey, maxResults int) []*domain.Journey {
	journeys = RemoveDominated(journeys)
	journeys = Deduplicate(journeys)
	journeys = RankJourneys(journeys)
	if maxResults > 0 && len(journeys) > maxResults {
		journeys = journeys[:maxResults]
	}
	return journeys
}
