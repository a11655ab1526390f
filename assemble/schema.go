package assemble

import (
	"sort"
	"strings"

	"transitops.dev/dutysheet/model"
)

// Static columns, in order, ahead of the per-stop columns.
const (
	ColDutyNumber = iota
	ColDutyHours
	ColSignInOut
	ColShedding
	StaticColumns
)

var StaticLabels = [StaticColumns]string{
	"Duty Number",
	"Duty Hours",
	"Crew Sign In/Out Time",
	"Out/in Shedding",
}

const (
	ArrivalLabel   = "Arrival"
	DepartureLabel = "Departure"
)

// The column layout shared by every duty: static columns followed by
// an arrival and a departure column per stop.
type Schema struct {
	Depot string
	Stops []string
}

// NewSchema collects the sorted distinct origins of trips, leaving
// out any stop whose name contains the depot name.
func NewSchema(trips []model.TripRecord, depot string) Schema {
	seen := map[string]bool{}
	stops := []string{}
	for _, t := range trips {
		if seen[t.Origin] {
			continue
		}
		seen[t.Origin] = true
		if depot != "" && strings.Contains(t.Origin, depot) {
			continue
		}
		stops = append(stops, t.Origin)
	}
	sort.Strings(stops)
	return Schema{Depot: depot, Stops: stops}
}

func (s Schema) Width() int {
	return StaticColumns + 2*len(s.Stops)
}

// A column of the two-level header.
type HeaderColumn struct {
	Group string
	Label string
}

// Header lists one (group, label) pair per column. Static columns are
// grouped under the depot, stop columns under their stop.
func (s Schema) Header() []HeaderColumn {
	cols := make([]HeaderColumn, 0, s.Width())
	for _, label := range StaticLabels {
		cols = append(cols, HeaderColumn{Group: s.Depot, Label: label})
	}
	for _, stop := range s.Stops {
		cols = append(cols,
			HeaderColumn{Group: stop, Label: ArrivalLabel},
			HeaderColumn{Group: stop, Label: DepartureLabel},
		)
	}
	return cols
}
