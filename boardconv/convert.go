package boardconv

import (
	"fmt"
	"log"
	"time"

	"github.com/onwardrail/core/domain"
	"github.com/onwardrail/core/railerr"
	"github.com/onwardrail/core/railtime"
	"github.com/onwardrail/core/station"
)

// ConvertBoard converts every service item on a board into a domain.Service.
// A service with a bad station code or an unparseable time is skipped with a
// diagnostic logged to logger (log.Default() if nil); the rest of the board
// still converts.
func ConvertBoard(board StationBoard, boardDate time.Time, logger *log.Logger) ([]*domain.Service, error) {
	if logger == nil {
		logger = log.Default()
	}
	boardCRS, err := station.Parse(board.CRS)
	if err != nil {
		return nil, railerr.NewValidation("board.crs", "invalid board station code: "+board.CRS)
	}

	services := make([]*domain.Service, 0, len(board.TrainServices))
	for _, item := range board.TrainServices {
		svc, err := convertServiceItem(item, boardCRS, board.LocationName, boardDate)
		if err != nil {
			logger.Printf("boardconv: skipping service %s: %v", item.ServiceID, err)
			continue
		}
		services = append(services, svc)
	}
	return services, nil
}

func convertServiceItem(item ServiceItem, boardCRS station.Code, boardStationName string, boardDate time.Time) (*domain.Service, error) {
	ref := domain.NewServiceRef(item.ServiceID, boardCRS)

	var headcode *station.Headcode
	if len(item.RSID) >= 6 {
		if hc, ok := station.ParseHeadcode(item.RSID[2:6]); ok {
			headcode = &hc
		}
	}

	var operatorCode *station.OperatorCode
	if item.OperatorCode != "" {
		if oc, err := station.ParseOperator(item.OperatorCode); err == nil {
			operatorCode = &oc
		}
	}

	calls, boardIdx, err := buildCalls(item, boardCRS, boardStationName, boardDate)
	if err != nil {
		return nil, err
	}

	return domain.NewService(ref, headcode, item.Operator, operatorCode, calls, boardIdx)
}

func buildCalls(item ServiceItem, boardCRS station.Code, boardStationName string, boardDate time.Time) ([]domain.Call, domain.CallIndex, error) {
	previous, err := parsePreviousCallingPoints(item, boardDate)
	if err != nil {
		return nil, 0, err
	}

	boardCall, err := buildBoardCall(item, boardCRS, boardStationName, boardDate)
	if err != nil {
		return nil, 0, err
	}

	subsequent, err := parseSubsequentCallingPoints(item, boardDate)
	if err != nil {
		return nil, 0, err
	}

	calls := make([]domain.Call, 0, len(previous)+1+len(subsequent))
	calls = append(calls, previous...)
	boardIdx := domain.CallIndex(len(calls))
	calls = append(calls, boardCall)
	calls = append(calls, subsequent...)
	return calls, boardIdx, nil
}

func firstGroup(groups []CallingPointsGroup) []CallingPoint {
	if len(groups) == 0 {
		return nil
	}
	return groups[0].CallingPoint
}

// parsePreviousCallingPoints runs the reverse time-sequence parser: upstream
// delivers previous calling points in forward order, so they're reversed
// before parsing and reversed back afterward.
func parsePreviousCallingPoints(item ServiceItem, boardDate time.Time) ([]domain.Call, error) {
	previous := firstGroup(item.PreviousCallingPoints)
	if len(previous) == 0 {
		return nil, nil
	}

	reversed := make([]CallingPoint, len(previous))
	for i, cp := range previous {
		reversed[len(previous)-1-i] = cp
	}

	times := make([]string, len(reversed))
	present := make([]bool, len(reversed))
	for i, cp := range reversed {
		times[i] = cp.ST
		present[i] = cp.ST != ""
	}

	parsed, err := railtime.ParseSequenceReverse(times, present, boardDate)
	if err != nil {
		return nil, fmt.Errorf("previous calling points: %w", err)
	}

	calls := make([]domain.Call, len(reversed))
	for i, cp := range reversed {
		call, err := callingPointToCall(cp, parsed[i], false)
		if err != nil {
			return nil, err
		}
		calls[i] = call
	}
	for i, j := 0, len(calls)-1; i < j; i, j = i+1, j-1 {
		calls[i], calls[j] = calls[j], calls[i]
	}
	return calls, nil
}

// parseSubsequentCallingPoints prepends the board station's own departure
// (falling back to its arrival) as a synthetic anchor entry so the forward
// parser can detect a midnight crossing at the very first subsequent call,
// then drops that synthetic entry from the result.
func parseSubsequentCallingPoints(item ServiceItem, boardDate time.Time) ([]domain.Call, error) {
	subsequent := firstGroup(item.SubsequentCallingPoints)
	if len(subsequent) == 0 {
		return nil, nil
	}

	anchor := item.STD
	anchorPresent := anchor != ""
	if !anchorPresent {
		anchor = item.STA
		anchorPresent = anchor != ""
	}

	times := make([]string, len(subsequent)+1)
	present := make([]bool, len(subsequent)+1)
	times[0], present[0] = anchor, anchorPresent
	for i, cp := range subsequent {
		times[i+1] = cp.ST
		present[i+1] = cp.ST != ""
	}

	parsed, err := railtime.ParseSequenceForward(times, present, boardDate)
	if err != nil {
		return nil, fmt.Errorf("subsequent calling points: %w", err)
	}

	calls := make([]domain.Call, len(subsequent))
	for i, cp := range subsequent {
		isFinal := i == len(subsequent)-1
		call, err := callingPointToCall(cp, parsed[i+1], isFinal)
		if err != nil {
			return nil, err
		}
		calls[i] = call
	}
	return calls, nil
}

func callingPointToCall(cp CallingPoint, scheduled *railtime.RailTime, isFinalDestination bool) (domain.Call, error) {
	code, err := station.Parse(cp.CRS)
	if err != nil {
		return domain.Call{}, railerr.NewValidation("calling-point.crs", "invalid station code: "+cp.CRS)
	}

	call := domain.NewCall(code, cp.LocationName)
	call.Cancelled = cp.IsCancelled

	if scheduled == nil {
		return call, nil
	}

	realtimeStr := cp.AT
	if realtimeStr == "" {
		realtimeStr = cp.ET
	}

	if isFinalDestination {
		call.BookedArrival = scheduled
		if realtimeStr != "" {
			if rt, err := railtime.ParseHHMM(realtimeStr, scheduled.Date()); err == nil {
				call.RealtimeArrival = &rt
			}
		}
	} else {
		call.BookedDeparture = scheduled
		if realtimeStr != "" {
			if rt, err := railtime.ParseHHMM(realtimeStr, scheduled.Date()); err == nil {
				call.RealtimeDeparture = &rt
			}
		}
	}
	return call, nil
}

func buildBoardCall(item ServiceItem, boardCRS station.Code, boardStationName string, boardDate time.Time) (domain.Call, error) {
	call := domain.NewCall(boardCRS, boardStationName)

	if item.STA != "" {
		sta, err := railtime.ParseHHMM(item.STA, boardDate)
		if err != nil {
			return domain.Call{}, fmt.Errorf("board station sta: %w", err)
		}
		call.BookedArrival = &sta
		call.RealtimeArrival = parseExpectedTime(item.ETA, sta)
	}

	if item.STD != "" {
		std, err := railtime.ParseHHMM(item.STD, boardDate)
		if err != nil {
			return domain.Call{}, fmt.Errorf("board station std: %w", err)
		}
		call.BookedDeparture = &std
		call.RealtimeDeparture = parseExpectedTime(item.ETD, std)
	}

	if item.Platform != "" {
		p := item.Platform
		call.Platform = &p
	}
	call.Cancelled = item.IsCancelled
	return call, nil
}

// parseExpectedTime interprets an upstream expected-time field, which may be
// a status string rather than a time: "On time" equals scheduled; empty,
// "Cancelled" and "Delayed" mean no realtime value is available; any other
// string is parsed as HH:MM, with a parse failure treated the same as
// "no realtime value available".
func parseExpectedTime(raw string, scheduled railtime.RailTime) *railtime.RailTime {
	switch raw {
	case "":
		return nil
	case "On time":
		t := scheduled
		return &t
	case "Cancelled", "Delayed":
		return nil
	default:
		t, err := railtime.ParseHHMM(raw, scheduled.Date())
		if err != nil {
			return nil
		}
		return &t
	}
}
