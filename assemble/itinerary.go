package assemble

import (
	"time"

	"github.com/rs/zerolog/log"

	"transitops.dev/dutysheet/model"
)

// DefaultSignOffset separates crew sign in/out from shedding.
const DefaultSignOffset = 10 * time.Minute

// One duty laid out against a schema. Every line is Schema.Width()
// cells wide.
type Itinerary struct {
	Duty      string
	Lines     [][]string
	ShedOut   string
	ShedIn    string
	SignIn    string
	SignOut   string
	DutyHours string
}

type itineraryBuilder struct {
	width int
	lines [][]string
}

func (b *itineraryBuilder) line(row int) []string {
	for len(b.lines) <= row {
		b.lines = append(b.lines, make([]string, b.width))
	}
	return b.lines[row]
}

func (b *itineraryBuilder) put(c Cursor, v string) {
	b.line(c.Row)[c.Col] = v
}

// BuildItinerary lays the trips of a duty out line by line.
//
// The first trip's departure is the out shedding and its arrival
// fills the first stop slot. Intermediate trips fill a departure
// then an arrival slot. The last trip fills a departure slot and its
// arrival is the in shedding. Slots wrap to a new line at the end of
// the schema. The in shedding always sits on a later line than the
// out shedding, so both survive in the single shedding column.
func BuildItinerary(duty string, trips []model.TripRecord, schema Schema, signOffset time.Duration) Itinerary {
	it := Itinerary{Duty: duty}
	if len(trips) == 0 {
		return it
	}

	width := schema.Width()
	b := &itineraryBuilder{width: width}
	cur := StartCursor()
	last := len(trips) - 1

	for i, t := range trips {
		switch {
		case i == 0:
			it.ShedOut = t.Departure
			b.put(cur, t.Arrival)
			cur = cur.Advance(width)
			if last == 0 {
				it.ShedIn = t.Arrival
			}
		case i == last:
			b.put(cur, t.Departure)
			cur = cur.Advance(width)
			it.ShedIn = t.Arrival
		default:
			b.put(cur, t.Departure)
			cur = cur.Advance(width)
			b.put(cur, t.Arrival)
			cur = cur.Advance(width)
		}
	}

	closing := max(cur.Row, 1)
	b.line(closing)

	first := b.lines[0]
	end := b.lines[len(b.lines)-1]

	first[ColDutyNumber] = duty
	first[ColShedding] = it.ShedOut
	end[ColShedding] = it.ShedIn

	var err error
	if it.SignIn, err = model.ShiftClock(it.ShedOut, -signOffset); err != nil {
		log.Debug().Str("duty", duty).Err(err).Msg("No sign in time")
	}
	if it.SignOut, err = model.ShiftClock(it.ShedIn, signOffset); err != nil {
		log.Debug().Str("duty", duty).Err(err).Msg("No sign out time")
	}
	if it.DutyHours, err = model.Elapsed(it.ShedOut, it.ShedIn); err != nil {
		log.Debug().Str("duty", duty).Err(err).Msg("No duty hours")
	}

	first[ColSignInOut] = it.SignIn
	end[ColSignInOut] = it.SignOut
	end[ColDutyHours] = it.DutyHours

	it.Lines = b.lines
	return it
}
