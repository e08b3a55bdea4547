// Package mockprovider implements provider.ServiceProvider by replaying
// station boards from JSON fixture files on disk, for development and
// tests that need a deterministic upstream without live API access.
package mockprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/onwardrail/core/boardconv"
	"github.com/onwardrail/core/domain"
	"github.com/onwardrail/core/railerr"
	"github.com/onwardrail/core/railtime"
	"github.com/onwardrail/core/station"
)

// Provider serves station boards loaded from {CRS}.json files in a
// directory, one file per station. Time parameters passed to GetDepartures
// and GetArrivals are ignored: each fixture is static, and arrivals reuse
// the same file as departures since the upstream's JSON shape is identical
// between the two.
type Provider struct {
	boards map[station.Code]boardconv.StationBoard
	logger *log.Logger
}

// New loads every {CRS}.json file in dataDir into memory. It fails if the
// directory can't be read or contains no usable fixtures.
func New(dataDir string, logger *log.Logger) (*Provider, error) {
	if logger == nil {
		logger = log.Default()
	}
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("mockprovider: read data dir %s: %w", dataDir, err)
	}

	boards := make(map[station.Code]boardconv.StationBoard)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		crsStr := strings.TrimSuffix(entry.Name(), ".json")
		code, err := station.Parse(crsStr)
		if err != nil {
			logger.Printf("mockprovider: skipping %s: invalid station code", entry.Name())
			continue
		}

		path := filepath.Join(dataDir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			logger.Printf("mockprovider: skipping %s: %v", entry.Name(), err)
			continue
		}
		var board boardconv.StationBoard
		if err := json.Unmarshal(raw, &board); err != nil {
			logger.Printf("mockprovider: skipping %s: invalid JSON: %v", entry.Name(), err)
			continue
		}
		boards[code] = board
	}

	if len(boards) == 0 {
		return nil, fmt.Errorf("mockprovider: no usable fixture files found in %s", dataDir)
	}

	return &Provider{boards: boards, logger: logger}, nil
}

// GetDepartures returns the services on code's fixture board, converted as
// of after's date. after's time-of-day is ignored, matching the original
// mock's "time parameters are ignored" behaviour.
func (p *Provider) GetDepartures(ctx context.Context, code station.Code, after railtime.RailTime) ([]*domain.Service, error) {
	return p.board(code, after, railerr.OpGetDepartures)
}

// GetArrivals returns the same fixture data as GetDepartures: no separate
// arrivals fixture is read.
func (p *Provider) GetArrivals(ctx context.Context, code station.Code, after railtime.RailTime) ([]*domain.Service, error) {
	return p.board(code, after, railerr.OpGetArrivals)
}

func (p *Provider) board(code station.Code, after railtime.RailTime, op railerr.ProviderOp) ([]*domain.Service, error) {
	board, ok := p.boards[code]
	if !ok {
		return nil, railerr.NewProvider(code.String(), op, railerr.KindServiceNotFound, fmt.Errorf("no mock data for station %s", code))
	}
	return boardconv.ConvertBoard(board, after.Date(), p.logger)
}

// AvailableStations returns every station this provider has fixture data
// for.
func (p *Provider) AvailableStations() []station.Code {
	codes := make([]station.Code, 0, len(p.boards))
	for code := range p.boards {
		codes = append(codes, code)
	}
	return codes
}
