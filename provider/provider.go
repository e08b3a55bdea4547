// Package provider defines the capability the planner depends on to reach
// the upstream real-time feed, and a batched parallel fetch helper bounded
// by a configured concurrency limit.
package provider

import (
	"context"
	"sync"

	"github.com/onwardrail/core/domain"
	"github.com/onwardrail/core/railtime"
	"github.com/onwardrail/core/station"
)

// ServiceProvider is the only capability the planner depends on for live
// data. Implementations are external collaborators — a concrete HTTP/JSON
// client, or a filesystem-backed mock. The planner never speaks to the
// upstream directly and assumes no internal retries: a provider call either
// succeeds or returns an error, once.
type ServiceProvider interface {
	// GetDepartures returns services departing the given station whose
	// observed departure is at or after after, within the provider's
	// configured window.
	GetDepartures(ctx context.Context, code station.Code, after railtime.RailTime) ([]*domain.Service, error)

	// GetArrivals returns services arriving at the given station in the
	// provider's configured window around after, each with previous
	// calling points populated.
	GetArrivals(ctx context.Context, code station.Code, after railtime.RailTime) ([]*domain.Service, error)
}

// DepartureRequest is one station/time pair to fetch in a batch.
type DepartureRequest struct {
	Station station.Code
	After   railtime.RailTime
}

// DepartureResult pairs a request with its outcome.
type DepartureResult struct {
	Station  station.Code
	Services []*domain.Service
	Err      error
}

// FetchDeparturesBatched issues at most batchSize concurrent GetDepartures
// calls at a time and returns one result per request, in the same order as
// requests. It waits for every request in the current batch before
// returning, matching the cooperative single-task scheduling model: the
// planner fans out, then rejoins before proceeding.
func FetchDeparturesBatched(ctx context.Context, p ServiceProvider, requests []DepartureRequest, batchSize int) []DepartureResult {
	if batchSize <= 0 {
		batchSize = 1
	}
	results := make([]DepartureResult, len(requests))
	sem := make(chan struct{}, batchSize)
	var wg sync.WaitGroup

	for i, req := range requests {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, req DepartureRequest) {
			defer wg.Done()
			defer func() { <-sem }()
			services, err := p.GetDepartures(ctx, req.Station, req.After)
			results[i] = DepartureResult{Station: req.Station, Services: services, Err: err}
		}(i, req)
	}
	wg.Wait()
	return results
}
