package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"transitops.dev/dutysheet/model"
)

// Columns the duty grid needs from a trip table.
var RequiredColumns = []string{
	"Origin",
	"Destination",
	"Start Time",
	"End Time",
	"Trip No",
	"Depot",
	"Duty Name",
	"Route Number",
}

type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing columns: %s", strings.Join(e.Columns, ", "))
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// ParseTripTable reads a trip table given as a header row and data
// rows of display values. Duty Name is filled down across blank
// cells, as merged cells read back empty. Fully blank rows are
// ignored.
func ParseTripTable(header []string, rows [][]string) ([]*model.TripRow, error) {
	index := map[string]int{}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, found := index[h]; !found {
			index[h] = i
		}
	}

	missing := []string{}
	for _, col := range RequiredColumns {
		if _, found := index[col]; !found {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Columns: missing}
	}

	get := func(row []string, col string) string {
		i, found := index[col]
		if !found || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := []*model.TripRow{}
	lastDuty := ""
	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}

		tripNo, err := parseInt(get(row, "Trip No"))
		if err != nil {
			return nil, errors.Wrapf(err, "parsing Trip No (row %d)", i+2)
		}

		duty := get(row, "Duty Name")
		if duty == "" {
			duty = lastDuty
		}
		lastDuty = duty

		tr := &model.TripRow{
			Depot:          get(row, "Depot"),
			TripNo:         tripNo,
			DutyName:       duty,
			DayType:        get(row, "Duty Working Day Type"),
			RouteNumber:    get(row, "Route Number"),
			RouteDirection: get(row, "Route Direction"),
			Origin:         get(row, "Origin"),
			Destination:    get(row, "Destination"),
			StartTime:      get(row, "Start Time"),
			EndTime:        get(row, "End Time"),
			TripType:       get(row, "Trip Type"),
			Shift:          get(row, "Shift"),
			BusID:          get(row, "Bus Id"),
		}
		if sno, err := parseInt(get(row, "S.No")); err == nil {
			tr.SNo = sno
		}
		if km, err := parseNumber(get(row, "Sch kms")); err == nil {
			tr.SchKms = &km
		}
		if rt, err := parseInt(get(row, "Run Time")); err == nil {
			tr.RunTime = &rt
		}

		out = append(out, tr)
	}

	return out, nil
}
