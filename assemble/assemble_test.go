package assemble

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitops.dev/dutysheet/model"
)

func trip(duty, origin, dest, dep, arr string) model.TripRecord {
	return model.TripRecord{
		Origin:      origin,
		Destination: dest,
		Departure:   dep,
		Arrival:     arr,
		Depot:       "CityDepot",
		DutyName:    duty,
		Route:       "101",
	}
}

func fixtureTrips() []model.TripRecord {
	return []model.TripRecord{
		trip("9", "CityDepot Bay", "A", "06:00", "06:45"),
		trip("9", "A", "B", "07:00", "07:30"),
		trip("9", "B", "CityDepot Bay", "07:40", "08:20"),
		trip("3A", "A", "B", "18:00", "18:30"),
		trip("3A", "B", "A", "18:40", "19:10"),
		trip("5", "A", "B", "10:00", "10:20"),
	}
}

func TestCursorAdvance(t *testing.T) {
	c := StartCursor()
	assert.Equal(t, Cursor{Row: 0, Col: 4}, c)

	c = c.Advance(6)
	assert.Equal(t, Cursor{Row: 0, Col: 5}, c)

	c = c.Advance(6)
	assert.Equal(t, Cursor{Row: 1, Col: 4}, c)

	// Schema with a single stop still wraps every two cells.
	c = StartCursor().Advance(6).Advance(6).Advance(6)
	assert.Equal(t, Cursor{Row: 1, Col: 5}, c)
}

func TestSchema(t *testing.T) {
	schema := NewSchema(fixtureTrips(), "CityDepot")
	assert.Equal(t, []string{"A", "B"}, schema.Stops)
	assert.Equal(t, 8, schema.Width())

	assert.Equal(t, []HeaderColumn{
		{"CityDepot", "Duty Number"},
		{"CityDepot", "Duty Hours"},
		{"CityDepot", "Crew Sign In/Out Time"},
		{"CityDepot", "Out/in Shedding"},
		{"A", "Arrival"},
		{"A", "Departure"},
		{"B", "Arrival"},
		{"B", "Departure"},
	}, schema.Header())

	// Without a depot nothing is left out.
	schema = NewSchema(fixtureTrips(), "")
	assert.Equal(t, []string{"A", "B", "CityDepot Bay"}, schema.Stops)
}

func TestBuildItineraryWraps(t *testing.T) {
	trips := fixtureTrips()[0:3]
	schema := NewSchema(fixtureTrips(), "CityDepot")

	it := BuildItinerary("9", trips, schema, DefaultSignOffset)

	assert.Equal(t, "06:00", it.ShedOut)
	assert.Equal(t, "08:20", it.ShedIn)
	assert.Equal(t, "05:50", it.SignIn)
	assert.Equal(t, "08:30", it.SignOut)
	assert.Equal(t, "02:20", it.DutyHours)

	assert.Equal(t, [][]string{
		{"9", "", "05:50", "06:00", "06:45", "07:00", "07:30", "07:40"},
		{"", "02:20", "08:30", "08:20", "", "", "", ""},
	}, it.Lines)
}

func TestBuildItineraryKeepsBothSheddings(t *testing.T) {
	trips := fixtureTrips()[3:5]
	schema := NewSchema(fixtureTrips(), "CityDepot")

	it := BuildItinerary("3A", trips, schema, DefaultSignOffset)

	// Both trips fit on the first line; the closing times still get
	// their own line.
	assert.Equal(t, [][]string{
		{"3A", "", "17:50", "18:00", "18:30", "18:40", "", ""},
		{"", "01:10", "19:20", "19:10", "", "", "", ""},
	}, it.Lines)
}

func TestBuildItinerarySingleTrip(t *testing.T) {
	schema := NewSchema(fixtureTrips(), "CityDepot")

	it := BuildItinerary("5", fixtureTrips()[5:], schema, 5*time.Minute)

	assert.Equal(t, "10:20", it.ShedIn)
	assert.Equal(t, [][]string{
		{"5", "", "09:55", "10:00", "10:20", "", "", ""},
		{"", "00:20", "10:25", "10:20", "", "", "", ""},
	}, it.Lines)
}

func TestBuildItineraryBadTimes(t *testing.T) {
	schema := NewSchema(fixtureTrips(), "CityDepot")
	trips := []model.TripRecord{
		trip("9", "A", "B", "", "06:45"),
		trip("9", "B", "A", "07:00", "07:30"),
	}

	it := BuildItinerary("9", trips, schema, DefaultSignOffset)

	assert.Equal(t, "", it.SignIn)
	assert.Equal(t, "07:40", it.SignOut)
	assert.Equal(t, "", it.DutyHours)
	require.Len(t, it.Lines, 2)
	assert.Equal(t, "9", it.Lines[0][ColDutyNumber])
}

func TestBuildItineraryEmpty(t *testing.T) {
	it := BuildItinerary("9", nil, NewSchema(fixtureTrips(), ""), DefaultSignOffset)
	assert.Empty(t, it.Lines)
}

func TestGroupAndCohorts(t *testing.T) {
	groups := Group(fixtureTrips())
	require.Len(t, groups, 3)
	assert.Equal(t, "9", groups[0].Duty)
	assert.Len(t, groups[0].Trips, 3)
	assert.Equal(t, "3A", groups[1].Duty)
	assert.Equal(t, "5", groups[2].Duty)

	regular, evening := Cohorts(groups, "A")
	require.Len(t, regular, 2)
	require.Len(t, evening, 1)
	assert.Equal(t, "9", regular[0].Duty)
	assert.Equal(t, "5", regular[1].Duty)
	assert.Equal(t, "3A", evening[0].Duty)
}

func TestAssemble(t *testing.T) {
	layout, err := Assemble(fixtureTrips(), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, layout.Schema.Stops)
	assert.Len(t, layout.Header, 8)

	assert.Equal(t, []DutySpan{
		{Duty: "9", Row: 0, Lines: 2},
		{Duty: "5", Row: 2, Lines: 2},
		{Duty: "3A", Row: 5, Lines: 2},
	}, layout.Duties)

	require.Len(t, layout.Rows, 7)
	assert.Equal(t, []string{"Evening Shifts", "", "", "", "", "", "", ""}, layout.Rows[4])
	assert.Equal(t, "3A", layout.Rows[5][ColDutyNumber])
	for _, row := range layout.Rows {
		assert.Len(t, row, 8)
	}
}

func TestAssembleNoEvening(t *testing.T) {
	trips := fixtureTrips()[0:3]
	layout, err := Assemble(trips, DefaultOptions())
	require.NoError(t, err)

	assert.Len(t, layout.Rows, 2)
	for _, row := range layout.Rows {
		assert.NotEqual(t, DefaultSeparator, row[0])
	}
}

func TestAssembleErrors(t *testing.T) {
	_, err := Assemble(nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoTrips)

	_, err = Assemble([]model.TripRecord{
		trip("9", "CityDepot", "CityDepot Bay", "06:00", "06:10"),
	}, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoStopColumns)
}
