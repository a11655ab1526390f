package parse

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/iter"

	"transitops.dev/dutysheet/model"
)

// CollectTuples returns the time cells of a duty block in row-major
// order, each tagged with its stop and direction. A trailing
// departure is turned into an arrival so the last leg closes.
func CollectTuples(
	rows [][]string,
	block DutyBlock,
	stops *StopResolver,
	headerRow []string,
	markers model.Markers,
) []model.CellTuple {
	tuples := []model.CellTuple{}
	for r := block.Start; r <= block.End && r < len(rows); r++ {
		for c := firstTimeColumn; c < len(rows[r]); c++ {
			v := rows[r][c]
			if !model.IsClock(v) {
				continue
			}
			direction := model.Departure
			if c < len(headerRow) && strings.Contains(headerRow[c], markers.Arrival) {
				direction = model.Arrival
			}
			tuples = append(tuples, model.CellTuple{
				Time:      strings.TrimSpace(v),
				Stop:      stops.Resolve(c),
				Direction: direction,
			})
		}
	}

	if n := len(tuples); n > 0 && tuples[n-1].Direction == model.Departure {
		tuples[n-1].Direction = model.Arrival
	}

	return tuples
}

// PairTuples turns consecutive, non-overlapping tuple pairs into
// trips. A pair must hold one departure and one arrival, in either
// order; anything else is skipped, as are trips touching an unknown
// stop. A trailing odd tuple is dropped. Trip numbers count emitted
// trips from 1.
func PairTuples(tuples []model.CellTuple, template model.TripRecord) []model.TripRecord {
	trips := []model.TripRecord{}
	number := 1
	for j := 0; j+1 < len(tuples); j += 2 {
		var dep, arr model.CellTuple
		first, second := tuples[j], tuples[j+1]
		switch {
		case first.Direction == model.Departure && second.Direction == model.Arrival:
			dep, arr = first, second
		case first.Direction == model.Arrival && second.Direction == model.Departure:
			dep, arr = second, first
		default:
			log.Debug().
				Str("duty", template.DutyName).
				Str("first", first.Time).
				Str("second", second.Time).
				Msg("Skipping pair without a departure and an arrival")
			continue
		}

		if dep.Stop == model.UnknownStop || arr.Stop == model.UnknownStop {
			log.Debug().
				Str("duty", template.DutyName).
				Str("departure", dep.Time).
				Msg("Skipping trip with unresolved stop")
			continue
		}

		trip := template
		trip.Origin = dep.Stop
		trip.Destination = arr.Stop
		trip.Departure = dep.Time
		trip.Arrival = arr.Time
		trip.TripNumber = number
		trips = append(trips, trip)
		number++
	}
	return trips
}

// BuildTrips recovers all trips of a single table.
func BuildTrips(table model.RawTable, markers model.Markers) []model.TripRecord {
	if len(table.Rows) < minTableRows {
		log.Debug().
			Str("sheet", table.Sheet).
			Int("row", table.Header.Row).
			Msg("Skipping short table")
		return nil
	}

	route := table.Rows[0][0]
	depot := table.Rows[1][0]
	stops := NewStopResolver(table.Rows[1])
	headerRow := table.Rows[2]

	trips := []model.TripRecord{}
	for _, block := range SegmentDuties(table, markers) {
		tuples := CollectTuples(table.Rows, block, stops, headerRow, markers)
		trips = append(trips, PairTuples(tuples, model.TripRecord{
			Depot:    depot,
			DutyName: block.Name,
			Route:    route,
		})...)
	}

	return trips
}

// BuildAll recovers trips from every table. Tables are processed
// concurrently; the result keeps table order.
func BuildAll(tables []model.RawTable, opts Options) []model.TripRecord {
	mapper := iter.Mapper[model.RawTable, []model.TripRecord]{
		MaxGoroutines: opts.Workers,
	}
	perTable := mapper.Map(tables, func(t *model.RawTable) []model.TripRecord {
		return BuildTrips(*t, opts.Markers)
	})

	trips := []model.TripRecord{}
	for _, t := range perTable {
		trips = append(trips, t...)
	}
	return trips
}
