package planner

import (
	"context"

	"github.com/onwardrail/core/boardcache"
	"github.com/onwardrail/core/domain"
	"github.com/onwardrail/core/provider"
	"github.com/onwardrail/core/railtime"
	"github.com/onwardrail/core/station"
)

// fetcher wraps a ServiceProvider with an optional board cache and counts
// the number of provider calls actually made, which the planner reports as
// part of its routes-explored figure.
type fetcher struct {
	provider   provider.ServiceProvider
	cache      *boardcache.Cache
	windowMins int
	calls      int
}

func newFetcher(p provider.ServiceProvider, cache *boardcache.Cache, windowMins int) *fetcher {
	return &fetcher{provider: p, cache: cache, windowMins: windowMins}
}

func (f *fetcher) getArrivals(ctx context.Context, code station.Code, after railtime.RailTime) ([]*domain.Service, error) {
	if f.cache == nil {
		f.calls++
		return f.provider.GetArrivals(ctx, code, after)
	}
	key := f.cache.MakeKey(code, after.Time(), f.windowMins, boardcache.Arrivals)
	if cached, ok := f.cache.Get(key); ok {
		return cached, nil
	}
	f.calls++
	services, err := f.provider.GetArrivals(ctx, code, after)
	if err != nil {
		return nil, err
	}
	f.cache.Set(key, services)
	return services, nil
}

func (f *fetcher) getDepartures(ctx context.Context, code station.Code, after railtime.RailTime) ([]*domain.Service, error) {
	if f.cache == nil {
		f.calls++
		return f.provider.GetDepartures(ctx, code, after)
	}
	key := f.cache.MakeKey(code, after.Time(), f.windowMins, boardcache.Departures)
	if cached, ok := f.cache.Get(key); ok {
		return cached, nil
	}
	f.calls++
	services, err := f.provider.GetDepartures(ctx, code, after)
	if err != nil {
		return nil, err
	}
	f.cache.Set(key, services)
	return services, nil
}

// departureQuery is one station/time request for a batched fetch.
type departureQuery struct {
	station station.Code
	after   railtime.RailTime
}

// departureBatch runs len(queries) departures lookups, respecting batchSize
// concurrency, and folds cache hits/misses into the fetcher's call count.
// Uncached queries within the batch still fan out in parallel.
func (f *fetcher) departureBatch(ctx context.Context, queries []departureQuery, batchSize int) map[station.Code][]*domain.Service {
	results := make(map[station.Code][]*domain.Service, len(queries))

	type uncached struct {
		idx int
		q   departureQuery
	}
	var toFetch []uncached
	keys := make([]boardcache.Key, len(queries))

	for i, q := range queries {
		if f.cache != nil {
			keys[i] = f.cache.MakeKey(q.station, q.after.Time(), f.windowMins, boardcache.Departures)
			if cached, ok := f.cache.Get(keys[i]); ok {
				results[q.station] = cached
				continue
			}
		}
		toFetch = append(toFetch, uncached{idx: i, q: q})
	}

	if len(toFetch) == 0 {
		return results
	}

	requests := make([]provider.DepartureRequest, len(toFetch))
	for i, u := range toFetch {
		requests[i] = provider.DepartureRequest{Station: u.q.station, After: u.q.after}
	}

	f.calls += len(toFetch)
	batched := provider.FetchDeparturesBatched(ctx, f.provider, requests, batchSize)

	for i, res := range batched {
		if res.Err != nil {
			continue
		}
		results[res.Station] = res.Services
		if f.cache != nil {
			f.cache.Set(keys[toFetch[i].idx], res.Services)
		}
	}
	return results
}
