package planner

import (
	"context"
	"time"

	"github.com/onwardrail/core/boardcache"
	"github.com/onwardrail/core/domain"
	"github.com/onwardrail/core/provider"
	"github.com/onwardrail/core/walkgraph"
)

// Searcher runs destination-anchored journey searches against one
// ServiceProvider, sharing a board cache and walk graph across requests.
type Searcher struct {
	provider provider.ServiceProvider
	cache    *boardcache.Cache
	walks    *walkgraph.Graph
	cfg      Config
}

// NewSearcher builds a Searcher. walks may be nil, in which case no walk
// connections are explored. cache may be nil to disable board caching.
func NewSearcher(p provider.ServiceProvider, cache *boardcache.Cache, walks *walkgraph.Graph, cfg Config) *Searcher {
	if walks == nil {
		walks = walkgraph.New()
	}
	return &Searcher{provider: p, cache: cache, walks: walks, cfg: cfg}
}

// Plan runs the full search: the arrivals-first pass (direct check,
// arrivals index, one- and two-change candidates), the BFS fallback when
// configured for three or more changes, and final ranking.
func (s *Searcher) Plan(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	windowMins := int(s.cfg.TimeWindow / time.Minute)
	f := newFetcher(s.provider, s.cache, windowMins)

	journeys, candidates, idx, err := arrivalsFirstSearch(ctx, f, s.walks, s.cfg, req)
	if err != nil {
		return nil, err
	}

	statesExpanded := 0
	if s.cfg.MaxChanges >= 3 && idx != nil {
		var bfsJourneys []*domain.Journey
		bfsJourneys, statesExpanded = bfsFallback(ctx, f, s.walks, idx, s.cfg, req.CurrentService.Ref.UpstreamID, candidates)
		journeys = append(journeys, bfsJourneys...)
	}

	ranked := FinishRanking(journeys, s.cfg.MaxResults)
	return &Result{Journeys: ranked, RoutesExplored: f.calls + statesExpanded}, nil
}
