package identify

import (
	"testing"
	"time"

	"github.com/onwardrail/core/domain"
	"github.com/onwardrail/core/railtime"
	"github.com/onwardrail/core/station"
)

func d() time.Time { return time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC) }

func cs(s string) station.Code { return station.MustParse(s) }

func rt(hour, minute int) railtime.RailTime {
	return railtime.New(d(), hour, minute)
}

// stations is a list of (crs, name) pairs; the first is the board station
// (departure only), the last is the terminus (arrival only).
func mockService(t *testing.T, id, headcode string, stations [][2]string, departure railtime.RailTime) *domain.Service {
	t.Helper()
	calls := make([]domain.Call, len(stations))
	for i, s := range stations {
		c := domain.NewCall(cs(s[0]), s[1])
		switch {
		case i == 0:
			c.BookedDeparture = &departure
		case i == len(stations)-1:
			arr := departure.Add(time.Duration(30*i) * time.Minute)
			c.BookedArrival = &arr
		default:
			arr := departure.Add(time.Duration(15*i) * time.Minute)
			dep := departure.Add(time.Duration(15*i+2) * time.Minute)
			c.BookedArrival = &arr
			c.BookedDeparture = &dep
		}
		calls[i] = c
	}
	hc, ok := station.ParseHeadcode(headcode)
	var hcPtr *station.Headcode
	if ok {
		hcPtr = &hc
	}
	svc, err := domain.NewService(domain.NewServiceRef(id, calls[0].Station), hcPtr, "Test Operator", nil, calls, 0)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestNoServicesReturnsEmpty(t *testing.T) {
	matches := FilterAndRank(nil, nil)
	if len(matches) != 0 {
		t.Errorf("expected no matches")
	}
}

func TestNoTerminusFilterReturnsAllWithNextStationOnly(t *testing.T) {
	services := []*domain.Service{
		mockService(t, "svc1", "1P01", [][2]string{{"WDB", "Woodbridge"}, {"IPS", "Ipswich"}}, rt(10, 0)),
		mockService(t, "svc2", "1P02", [][2]string{{"WDB", "Woodbridge"}, {"LST", "London Liverpool Street"}}, rt(10, 15)),
	}
	matches := FilterAndRank(services, nil)
	if len(matches) != 2 {
		t.Fatalf("len = %d, want 2", len(matches))
	}
	for _, m := range matches {
		if m.Confidence != NextStationOnly {
			t.Errorf("confidence = %v, want NextStationOnly", m.Confidence)
		}
	}
}

func TestTerminusFilterExcludesNonMatching(t *testing.T) {
	services := []*domain.Service{
		mockService(t, "svc1", "1P01", [][2]string{{"WDB", "Woodbridge"}, {"IPS", "Ipswich"}}, rt(10, 0)),
		mockService(t, "svc2", "1P02", [][2]string{{"WDB", "Woodbridge"}, {"LST", "London Liverpool Street"}}, rt(10, 15)),
		mockService(t, "svc3", "1P03", [][2]string{{"WDB", "Woodbridge"}, {"FLX", "Felixstowe"}, {"IPS", "Ipswich"}}, rt(10, 30)),
	}
	terminus := cs("IPS")
	matches := FilterAndRank(services, &terminus)
	if len(matches) != 2 {
		t.Fatalf("len = %d, want 2", len(matches))
	}
	for _, m := range matches {
		dest, _ := m.Service.DestinationCall()
		if dest.Station != terminus {
			t.Errorf("dest = %v, want %v", dest.Station, terminus)
		}
		if m.Confidence != Exact {
			t.Errorf("confidence = %v, want Exact", m.Confidence)
		}
	}
}

func TestTerminusFilterNoMatchesReturnsEmpty(t *testing.T) {
	services := []*domain.Service{
		mockService(t, "svc1", "1P01", [][2]string{{"WDB", "Woodbridge"}, {"IPS", "Ipswich"}}, rt(10, 0)),
	}
	terminus := cs("LST")
	matches := FilterAndRank(services, &terminus)
	if len(matches) != 0 {
		t.Errorf("expected empty, got %d", len(matches))
	}
}

func TestSortedByDepartureTime(t *testing.T) {
	services := []*domain.Service{
		mockService(t, "svc1", "1P01", [][2]string{{"WDB", "Woodbridge"}, {"IPS", "Ipswich"}}, rt(10, 30)),
		mockService(t, "svc2", "1P02", [][2]string{{"WDB", "Woodbridge"}, {"IPS", "Ipswich"}}, rt(10, 0)),
		mockService(t, "svc3", "1P03", [][2]string{{"WDB", "Woodbridge"}, {"IPS", "Ipswich"}}, rt(10, 15)),
	}
	terminus := cs("IPS")
	matches := FilterAndRank(services, &terminus)
	if len(matches) != 3 {
		t.Fatalf("len = %d, want 3", len(matches))
	}
	wantOrder := []string{"svc2", "svc3", "svc1"}
	for i, id := range wantOrder {
		if matches[i].Service.Ref.UpstreamID != id {
			t.Errorf("matches[%d] = %s, want %s", i, matches[i].Service.Ref.UpstreamID, id)
		}
	}
}

func TestSingleExactMatchScenario(t *testing.T) {
	services := []*domain.Service{
		mockService(t, "liverpool_st", "1P10", [][2]string{{"WDB", "Woodbridge"}, {"LST", "London Liverpool Street"}}, rt(10, 0)),
		mockService(t, "ipswich", "2P15", [][2]string{{"WDB", "Woodbridge"}, {"IPS", "Ipswich"}}, rt(10, 5)),
		mockService(t, "felixstowe", "2F20", [][2]string{{"WDB", "Woodbridge"}, {"FLX", "Felixstowe"}}, rt(10, 10)),
	}
	terminus := cs("IPS")
	match, err := Identify(services, &terminus)
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if match.Service.Ref.UpstreamID != "ipswich" {
		t.Errorf("matched %s, want ipswich", match.Service.Ref.UpstreamID)
	}
	if match.Confidence != Exact {
		t.Errorf("confidence = %v, want Exact", match.Confidence)
	}
}

func TestIdentifyAmbiguousWithoutTerminusIsError(t *testing.T) {
	services := []*domain.Service{
		mockService(t, "svc1", "1P01", [][2]string{{"WDB", "Woodbridge"}, {"IPS", "Ipswich"}}, rt(10, 0)),
		mockService(t, "svc2", "1P02", [][2]string{{"WDB", "Woodbridge"}, {"LST", "London Liverpool Street"}}, rt(10, 15)),
	}
	if _, err := Identify(services, nil); err == nil {
		t.Fatalf("expected ambiguity error")
	}
}

func TestIdentifyNoMatchesIsError(t *testing.T) {
	services := []*domain.Service{
		mockService(t, "svc1", "1P01", [][2]string{{"WDB", "Woodbridge"}, {"IPS", "Ipswich"}}, rt(10, 0)),
	}
	terminus := cs("LST")
	if _, err := Identify(services, &terminus); err == nil {
		t.Fatalf("expected no-match error")
	}
}

func TestMultipleTrainsToSameTerminusSortedByDeparture(t *testing.T) {
	services := []*domain.Service{
		mockService(t, "fast", "1P01", [][2]string{{"RDG", "Reading"}, {"PAD", "London Paddington"}}, rt(10, 0)),
		mockService(t, "slow", "2P02", [][2]string{{"RDG", "Reading"}, {"SLO", "Slough"}, {"PAD", "London Paddington"}}, rt(10, 5)),
		mockService(t, "semi_fast", "1P03", [][2]string{{"RDG", "Reading"}, {"PAD", "London Paddington"}}, rt(10, 10)),
	}
	terminus := cs("PAD")
	matches := FilterAndRank(services, &terminus)
	wantOrder := []string{"fast", "slow", "semi_fast"}
	if len(matches) != len(wantOrder) {
		t.Fatalf("len = %d, want %d", len(matches), len(wantOrder))
	}
	for i, id := range wantOrder {
		if matches[i].Service.Ref.UpstreamID != id {
			t.Errorf("matches[%d] = %s, want %s", i, matches[i].Service.Ref.UpstreamID, id)
		}
	}
}
