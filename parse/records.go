package parse

import (
	"sort"

	"transitops.dev/dutysheet/model"
)

const (
	DayType      = "Monday to Sunday"
	TripType     = "Regular Trip"
	ShiftDayOut1 = "Day out 1"
	ShiftDayOut2 = "Day out 2"
)

// MapShift returns "Day out 1" for plain numeric duties, "Day out 2"
// for numeric duties carrying the evening suffix, and "" otherwise.
func MapShift(duty string, suffix string) string {
	p := newDutyPattern(suffix)
	if p.IsPlain(duty) {
		return ShiftDayOut1
	}
	if _, ok := p.Base(duty); ok {
		return ShiftDayOut2
	}
	return ""
}

// MapBusID returns the numeric part of a plain or evening duty name.
func MapBusID(duty string, suffix string) string {
	base, _ := newDutyPattern(suffix).Base(duty)
	return base
}

// ODPairs returns the distinct origin/destination pairs of trips,
// sorted.
func ODPairs(trips []model.TripRecord) []model.StopPair {
	seen := map[model.StopPair]bool{}
	pairs := []model.StopPair{}
	for _, t := range trips {
		p := model.StopPair{Origin: t.Origin, Destination: t.Destination}
		if seen[p] {
			continue
		}
		seen[p] = true
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Origin != pairs[j].Origin {
			return pairs[i].Origin < pairs[j].Origin
		}
		return pairs[i].Destination < pairs[j].Destination
	})
	return pairs
}

// BuildTripRows lays trips out as trip table rows. S.No runs from 1
// across all trips. Sch kms is left blank for pairs missing from kms.
func BuildTripRows(trips []model.TripRecord, kms map[model.StopPair]float64, suffix string) []*model.TripRow {
	rows := make([]*model.TripRow, 0, len(trips))
	for i, t := range trips {
		row := &model.TripRow{
			SNo:         i + 1,
			Depot:       t.Depot,
			TripNo:      t.TripNumber,
			DutyName:    t.Route + "/" + t.DutyName,
			DayType:     DayType,
			RouteNumber: t.Route,
			Origin:      t.Origin,
			Destination: t.Destination,
			StartTime:   t.Departure + ":00",
			EndTime:     t.Arrival + ":00",
			TripType:    TripType,
			Shift:       MapShift(t.DutyName, suffix),
			BusID:       MapBusID(t.DutyName, suffix),
		}
		if km, found := kms[model.StopPair{Origin: t.Origin, Destination: t.Destination}]; found {
			row.SchKms = &km
		}
		if minutes, ok := model.RunTime(t.Departure, t.Arrival); ok {
			row.RunTime = &minutes
		}
		rows = append(rows, row)
	}
	return rows
}
