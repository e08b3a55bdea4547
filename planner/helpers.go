package planner

import (
	"time"

	"github.com/onwardrail/core/domain"
	"github.com/onwardrail/core/railtime"
	"github.com/onwardrail/core/station"
)

// searchEpsilon is subtracted from an available-time before issuing a
// departures request, so a provider whose own boundary handling rounds
// slightly differently from ours doesn't silently drop the connecting
// service; callers re-check the real threshold once results come back.
const searchEpsilon = time.Minute

// findCallFrom returns the index of the first call at code at or after
// from, if any.
func findCallFrom(svc *domain.Service, code station.Code, from domain.CallIndex) (domain.CallIndex, bool) {
	for i := int(from); i < len(svc.Calls); i++ {
		if svc.Calls[i].Station == code {
			return domain.CallIndex(i), true
		}
	}
	return 0, false
}

// findBoardableCall returns the index of the first call at code, at or
// after from, whose observed departure is at or after minDeparture.
func findBoardableCall(svc *domain.Service, code station.Code, from domain.CallIndex, minDeparture railtime.RailTime) (domain.CallIndex, bool) {
	for i := int(from); i < len(svc.Calls); i++ {
		call := svc.Calls[i]
		if call.Station != code || call.Cancelled {
			continue
		}
		dep := call.ObservedDeparture()
		if dep == nil || dep.Before(minDeparture) {
			continue
		}
		return domain.CallIndex(i), true
	}
	return 0, false
}

// observedAlightTime returns a call's observed arrival, falling back to its
// observed departure when no arrival is available upstream.
func observedAlightTime(c domain.Call) *railtime.RailTime {
	if t := c.ObservedArrival(); t != nil {
		return t
	}
	return c.ObservedDeparture()
}
