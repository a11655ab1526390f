package assemble

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"transitops.dev/dutysheet/model"
)

var (
	ErrNoTrips       = errors.New("no trip records")
	ErrNoStopColumns = errors.New("no stops besides the depot")
)

const DefaultSeparator = "Evening Shifts"

type Options struct {
	EveningSuffix string
	SignOffset    time.Duration
	Separator     string
}

func DefaultOptions() Options {
	return Options{
		EveningSuffix: model.DefaultMarkers().EveningSuffix,
		SignOffset:    DefaultSignOffset,
		Separator:     DefaultSeparator,
	}
}

// The trips of one duty, in trip table order.
type DutyGroup struct {
	Duty  string
	Trips []model.TripRecord
}

// Group collects trips by duty name, in order of first appearance.
func Group(trips []model.TripRecord) []DutyGroup {
	index := map[string]int{}
	groups := []DutyGroup{}
	for _, t := range trips {
		i, found := index[t.DutyName]
		if !found {
			i = len(groups)
			index[t.DutyName] = i
			groups = append(groups, DutyGroup{Duty: t.DutyName})
		}
		groups[i].Trips = append(groups[i].Trips, t)
	}
	return groups
}

// Cohorts splits duty groups into regular duties and evening duties,
// the latter being those whose name contains suffix.
func Cohorts(groups []DutyGroup, suffix string) (regular []DutyGroup, evening []DutyGroup) {
	for _, g := range groups {
		if strings.Contains(g.Duty, suffix) {
			evening = append(evening, g)
		} else {
			regular = append(regular, g)
		}
	}
	return regular, evening
}

// Location of a duty's lines within a layout.
type DutySpan struct {
	Duty  string
	Row   int
	Lines int
}

// The assembled duty grid: a two-level header and its rows.
type Layout struct {
	Schema Schema
	Header []HeaderColumn
	Rows   [][]string
	Duties []DutySpan
}

func (l *Layout) appendItinerary(it Itinerary) {
	l.Duties = append(l.Duties, DutySpan{
		Duty:  it.Duty,
		Row:   len(l.Rows),
		Lines: len(it.Lines),
	})
	l.Rows = append(l.Rows, it.Lines...)
}

// Assemble lays out every duty of trips against a schema built from
// all trips. Regular duties come first, then a separator row and the
// evening duties.
func Assemble(trips []model.TripRecord, opts Options) (*Layout, error) {
	if len(trips) == 0 {
		return nil, ErrNoTrips
	}

	schema := NewSchema(trips, trips[0].Depot)
	if len(schema.Stops) == 0 {
		return nil, ErrNoStopColumns
	}

	layout := &Layout{
		Schema: schema,
		Header: schema.Header(),
	}

	regular, evening := Cohorts(Group(trips), opts.EveningSuffix)

	for _, g := range regular {
		layout.appendItinerary(BuildItinerary(g.Duty, g.Trips, schema, opts.SignOffset))
	}

	if len(evening) > 0 {
		separator := make([]string, schema.Width())
		separator[0] = opts.Separator
		layout.Rows = append(layout.Rows, separator)
	}

	for _, g := range evening {
		layout.appendItinerary(BuildItinerary(g.Duty, g.Trips, schema, opts.SignOffset))
	}

	log.Info().
		Int("stops", len(schema.Stops)).
		Int("regular", len(regular)).
		Int("evening", len(evening)).
		Int("rows", len(layout.Rows)).
		Msg("Assembled duty grid")

	return layout, nil
}
