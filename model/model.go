package model

import (
	"strings"
	"time"
)

// Holds all external facing types and constants.

const UnknownStop = "UNKNOWN_STOP"

// The literal words a duty sheet is keyed on.
type Markers struct {
	DutyColumn    string
	Arrival       string
	Evening       string
	EveningSuffix string
}

func DefaultMarkers() Markers {
	return Markers{
		DutyColumn:    "Duty Number",
		Arrival:       "Arrival",
		Evening:       "Evening Duties",
		EveningSuffix: "A",
	}
}

// A single spreadsheet cell. Time is only meaningful when IsTime is
// set, i.e. when the source identified the cell as a time of day.
type Cell struct {
	Value  string
	Time   time.Time
	IsTime bool
}

// Text returns the normalized cell value: HH:MM for time cells,
// trimmed display value otherwise.
func (c Cell) Text() string {
	if c.IsTime {
		return c.Time.Format(ClockLayout)
	}
	return strings.TrimSpace(c.Value)
}

func TextCell(v string) Cell {
	return Cell{Value: v}
}

func TimeCell(t time.Time) Cell {
	return Cell{Value: t.Format(ClockLayout), Time: t, IsTime: true}
}

// One sheet of a workbook. Rows may be ragged; missing cells read as
// blank.
type Grid struct {
	Name string
	Rows [][]Cell
}

func (g *Grid) Text(row, col int) string {
	if row < 0 || row >= len(g.Rows) || col < 0 || col >= len(g.Rows[row]) {
		return ""
	}
	return g.Rows[row][col].Text()
}

// Location of a duty table header within a grid.
type HeaderSpec struct {
	Row    int
	Column int
	Width  int
}

// A rectangular region carved out of a grid. Rows[0] is the route
// label row, Rows[1] the stop name row and Rows[2] the header row
// (when the header is at least two rows down the sheet). Every row
// has exactly Header.Width cells.
type RawTable struct {
	Sheet  string
	Header HeaderSpec
	Rows   [][]string
}

type Direction int

const (
	Departure Direction = iota
	Arrival
)

func (d Direction) String() string {
	if d == Arrival {
		return "a"
	}
	return "d"
}

type CellTuple struct {
	Time      string
	Stop      string
	Direction Direction
}

// A directed movement between two stops, as recovered from a duty
// sheet or re-read from a trip table.
type TripRecord struct {
	Origin      string
	Destination string
	Departure   string
	Arrival     string
	TripNumber  int
	Depot       string
	DutyName    string
	Route       string
}

type StopPair struct {
	Origin      string
	Destination string
}

// A row of the trip table artifact.
type TripRow struct {
	SNo            int
	Depot          string
	TripNo         int
	DutyName       string
	DayType        string
	RouteNumber    string
	RouteDirection string
	Origin         string
	Destination    string
	StartTime      string
	EndTime        string
	TripType       string
	SchKms         *float64
	RunTime        *int
	Shift          string
	BusID          string
}

// Record converts a trip table row back into the trip it describes.
// DutyName is split back into its bare duty name.
func (r *TripRow) Record() TripRecord {
	duty := r.DutyName
	if _, after, found := strings.Cut(duty, "/"); found {
		duty = after
	}
	return TripRecord{
		Origin:      r.Origin,
		Destination: r.Destination,
		Departure:   TruncateClock(r.StartTime),
		Arrival:     TruncateClock(r.EndTime),
		TripNumber:  r.TripNo,
		Depot:       r.Depot,
		DutyName:    duty,
		Route:       r.RouteNumber,
	}
}

// Column names of the trip table, in order.
var TripTableColumns = []string{
	"S.No",
	"Depot",
	"Trip No",
	"Duty Name",
	"Duty Working Day Type",
	"Route Number",
	"Route Direction",
	"Origin",
	"Destination",
	"Start Time",
	"End Time",
	"Trip Type",
	"Sch kms",
	"Run Time",
	"Shift",
	"Bus Id",
}
