package sheet

import (
	"io"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spkg/bom"

	"transitops.dev/dutysheet/model"
)

// Trip table row as written to CSV. Optional numbers are blank when
// absent.
type TripRowCSV struct {
	SNo            int    `csv:"S.No"`
	Depot          string `csv:"Depot"`
	TripNo         int    `csv:"Trip No"`
	DutyName       string `csv:"Duty Name"`
	DayType        string `csv:"Duty Working Day Type"`
	RouteNumber    string `csv:"Route Number"`
	RouteDirection string `csv:"Route Direction"`
	Origin         string `csv:"Origin"`
	Destination    string `csv:"Destination"`
	StartTime      string `csv:"Start Time"`
	EndTime        string `csv:"End Time"`
	TripType       string `csv:"Trip Type"`
	SchKms         string `csv:"Sch kms"`
	RunTime        string `csv:"Run Time"`
	Shift          string `csv:"Shift"`
	BusID          string `csv:"Bus Id"`
}

func tripRowCSV(row *model.TripRow) *TripRowCSV {
	out := &TripRowCSV{
		SNo:            row.SNo,
		Depot:          row.Depot,
		TripNo:         row.TripNo,
		DutyName:       row.DutyName,
		DayType:        row.DayType,
		RouteNumber:    row.RouteNumber,
		RouteDirection: row.RouteDirection,
		Origin:         row.Origin,
		Destination:    row.Destination,
		StartTime:      row.StartTime,
		EndTime:        row.EndTime,
		TripType:       row.TripType,
		Shift:          row.Shift,
		BusID:          row.BusID,
	}
	if row.SchKms != nil {
		out.SchKms = strconv.FormatFloat(*row.SchKms, 'f', -1, 64)
	}
	if row.RunTime != nil {
		out.RunTime = strconv.Itoa(*row.RunTime)
	}
	return out
}

// WriteTripTableCSV writes the trip table with a header row.
func WriteTripTableCSV(out io.Writer, rows []*model.TripRow) error {
	records := make([]*TripRowCSV, 0, len(rows))
	for _, row := range rows {
		records = append(records, tripRowCSV(row))
	}
	if err := gocsv.Marshal(records, out); err != nil {
		return errors.Wrap(err, "writing csv")
	}
	return nil
}

// ReadTableCSV reads a CSV file as a header row and data rows. A
// leading byte order mark is ignored.
func ReadTableCSV(r io.Reader) ([]string, [][]string, error) {
	records, err := gocsv.LazyCSVReader(bom.NewReader(r)).ReadAll()
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading csv")
	}
	if len(records) == 0 {
		return nil, nil, errors.New("csv has no rows")
	}
	return records[0], records[1:], nil
}
