package sheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"transitops.dev/dutysheet/assemble"
	"transitops.dev/dutysheet/model"
	"transitops.dev/dutysheet/parse"
	"transitops.dev/dutysheet/testutil"
)

func TestReadWorkbookTimeCells(t *testing.T) {
	path := testutil.WriteWorkbook(t, map[string][][]interface{}{
		"Duties": {
			{"Duty Number", "Out", "Arrival"},
			{9, testutil.Clock(6, 0), "06:45"},
			{"2A", testutil.Clock(23, 59), 12.5},
		},
	})

	grids, err := OpenWorkbook(path)
	require.NoError(t, err)
	require.Len(t, grids, 1)

	g := grids[0]
	assert.Equal(t, "Duties", g.Name)
	assert.Equal(t, "Duty Number", g.Text(0, 0))
	assert.Equal(t, "9", g.Text(1, 0))
	assert.False(t, g.Rows[1][0].IsTime)

	assert.True(t, g.Rows[1][1].IsTime)
	assert.Equal(t, "06:00", g.Text(1, 1))
	assert.Equal(t, "23:59", g.Text(2, 1))

	// Text that looks like a time stays text.
	assert.False(t, g.Rows[1][2].IsTime)
	assert.Equal(t, "06:45", g.Text(1, 2))
	assert.Equal(t, "12.5", g.Text(2, 2))
}

func TestSerialClock(t *testing.T) {
	for _, tc := range []struct {
		raw  string
		want string
		ok   bool
	}{
		{"0.28125", "06:45", true},
		{"0", "00:00", true},
		{"1.5", "12:00", true},
		{"45000.75", "18:00", true},
		{"0.99999", "23:59", true},
		{"0.3539351851851852", "08:29", true}, // 08:29:40
		{"0.9998263888888889", "23:59", true}, // 23:59:45
		{"0.6666666666", "16:00", true},
		{"noon", "", false},
	} {
		ts, ok := serialClock(tc.raw)
		assert.Equal(t, tc.ok, ok, tc.raw)
		if ok {
			assert.Equal(t, tc.want, ts.Format(model.ClockLayout), tc.raw)
		}
	}
}

func TestIsTimeFormat(t *testing.T) {
	assert.True(t, isTimeFormat("hh:mm"))
	assert.True(t, isTimeFormat("[H]:MM:SS"))
	assert.True(t, isTimeFormat("yyyy-mm-dd hh:mm"))
	assert.False(t, isTimeFormat("yyyy-mm-dd"))
	assert.False(t, isTimeFormat("dd/mm/yyyy"))
	assert.False(t, timeNumFmts[14])
	assert.False(t, isTimeFormat(`0.00" hrs"`))
}

func float(v float64) *float64 { return &v }
func integer(v int) *int       { return &v }

func tripRows() []*model.TripRow {
	return []*model.TripRow{
		{
			SNo: 1, Depot: "CityDepot", TripNo: 1, DutyName: "101/9",
			DayType: parse.DayType, RouteNumber: "101",
			Origin: "CityDepot", Destination: "A",
			StartTime: "06:00:00", EndTime: "06:45:00",
			TripType: parse.TripType, SchKms: float(12.5), RunTime: integer(45),
			Shift: parse.ShiftDayOut1, BusID: "9",
		},
		{
			SNo: 2, Depot: "CityDepot", TripNo: 2, DutyName: "101/9",
			DayType: parse.DayType, RouteNumber: "101",
			Origin: "A", Destination: "CityDepot",
			StartTime: "07:00:00", EndTime: "07:40:00",
			TripType: parse.TripType, RunTime: integer(40),
			Shift: parse.ShiftDayOut1, BusID: "9",
		},
		{
			SNo: 3, Depot: "CityDepot", TripNo: 1, DutyName: "101/7B",
			DayType: parse.DayType, RouteNumber: "101",
			Origin: "A", Destination: "B",
			StartTime: "bad", EndTime: "08:00:00",
			TripType: parse.TripType,
		},
	}
}

func TestTripTableRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteTripTable(buf, tripRows()))

	header, rows, err := ReadTable(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, model.TripTableColumns, header)

	parsed, err := parse.ParseTripTable(header, rows)
	require.NoError(t, err)
	assert.Equal(t, tripRows(), parsed)
}

func TestTripTableLayout(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteTripTable(buf, tripRows()))

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{TripTableSheet}, f.GetSheetList())

	merges, err := f.GetMergeCells(TripTableSheet)
	require.NoError(t, err)
	require.Len(t, merges, 1)
	assert.Equal(t, "D2", merges[0].GetStartAxis())
	assert.Equal(t, "D3", merges[0].GetEndAxis())
	assert.Equal(t, "101/9", merges[0].GetCellValue())

	panes, err := f.GetPanes(TripTableSheet)
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
}

func TestTripTableCSVRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteTripTableCSV(buf, tripRows()))

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, strings.Join(model.TripTableColumns, ","), lines[0])

	// With a byte order mark, as spreadsheet tools tend to write.
	data := append([]byte("\xef\xbb\xbf"), buf.Bytes()...)
	header, rows, err := ReadTableCSV(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, model.TripTableColumns, header)
	require.Len(t, rows, 3)

	parsed, err := parse.ParseTripTable(header, rows)
	require.NoError(t, err)
	assert.Equal(t, tripRows(), parsed)
}

func TestReadTableCSVEmpty(t *testing.T) {
	_, _, err := ReadTableCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func trimRow(row []string) []string {
	for len(row) > 0 && row[len(row)-1] == "" {
		row = row[:len(row)-1]
	}
	return row
}

func TestWriteDutyGrid(t *testing.T) {
	trips := []model.TripRecord{
		{Origin: "CityDepot", Destination: "A", Departure: "06:00", Arrival: "06:45", Depot: "CityDepot", DutyName: "9", Route: "101"},
		{Origin: "A", Destination: "B", Departure: "07:00", Arrival: "07:30", Depot: "CityDepot", DutyName: "9", Route: "101"},
		{Origin: "B", Destination: "CityDepot", Departure: "07:40", Arrival: "08:20", Depot: "CityDepot", DutyName: "9", Route: "101"},
		{Origin: "A", Destination: "B", Departure: "18:00", Arrival: "18:30", Depot: "CityDepot", DutyName: "9A", Route: "101"},
	}
	layout, err := assemble.Assemble(trips, assemble.DefaultOptions())
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, WriteDutyGrid(buf, layout))

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(DutyGridSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2+2+1+2)

	assert.Equal(t, []string{"CityDepot", "", "", "", "A", "", "B"}, trimRow(rows[0]))
	assert.Equal(t, []string{
		"Duty Number", "Duty Hours", "Crew Sign In/Out Time", "Out/in Shedding",
		"Arrival", "Departure", "Arrival", "Departure",
	}, rows[1])
	assert.Equal(t, []string{"9", "", "05:50", "06:00", "06:45", "07:00", "07:30", "07:40"}, rows[2])
	assert.Equal(t, "Evening Shifts", rows[4][0])
	assert.Equal(t, "9A", rows[5][0])

	merges, err := f.GetMergeCells(DutyGridSheet)
	require.NoError(t, err)
	ranges := map[string]string{}
	for _, m := range merges {
		ranges[m.GetStartAxis()+":"+m.GetEndAxis()] = m.GetCellValue()
	}
	assert.Equal(t, map[string]string{
		"A1:D1": "CityDepot",
		"E1:F1": "A",
		"G1:H1": "B",
		"A3:A4": "9",
		"A5:H5": "Evening Shifts",
		"A6:A7": "9A",
	}, ranges)

	panes, err := f.GetPanes(DutyGridSheet)
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.XSplit)
	assert.Equal(t, 2, panes.YSplit)
}
