package sheet

import (
	"io"

	"github.com/pkg/errors"

	"transitops.dev/dutysheet/model"
)

const TripTableSheet = "Trips"

// Index of the Duty Name column in model.TripTableColumns.
const dutyNameColumn = 3

func tripRowValues(row *model.TripRow) []interface{} {
	var kms, runTime interface{} = "", ""
	if row.SchKms != nil {
		kms = *row.SchKms
	}
	if row.RunTime != nil {
		runTime = *row.RunTime
	}
	return []interface{}{
		row.SNo,
		row.Depot,
		row.TripNo,
		row.DutyName,
		row.DayType,
		row.RouteNumber,
		row.RouteDirection,
		row.Origin,
		row.Destination,
		row.StartTime,
		row.EndTime,
		row.TripType,
		kms,
		runTime,
		row.Shift,
		row.BusID,
	}
}

// WriteTripTable writes the trip table as a single sheet workbook.
// Consecutive rows of the same duty share a merged Duty Name cell.
func WriteTripTable(out io.Writer, rows []*model.TripRow) error {
	w, err := newWriter(TripTableSheet)
	if err != nil {
		return err
	}

	if err := w.writeTripTable(rows); err != nil {
		w.abort()
		return err
	}
	return w.finish(out)
}

func (w *writer) writeTripTable(rows []*model.TripRow) error {
	if err := w.setStringRow(1, model.TripTableColumns); err != nil {
		return errors.Wrap(err, "writing header")
	}
	if err := w.styleRows(1, 1, len(model.TripTableColumns)); err != nil {
		return errors.Wrap(err, "styling header")
	}

	for i, row := range rows {
		if err := w.setRow(i+2, tripRowValues(row)); err != nil {
			return errors.Wrapf(err, "writing row %d", row.SNo)
		}
	}

	// Runs of the same duty name, by 0-based index into rows
	start := 0
	for i := 1; i <= len(rows); i++ {
		if i < len(rows) && rows[i].DutyName == rows[start].DutyName {
			continue
		}
		if i-start > 1 {
			col := dutyNameColumn + 1
			if err := w.merge(col, start+2, col, i+1); err != nil {
				return errors.Wrap(err, "merging duty name")
			}
		}
		start = i
	}

	if err := w.freeze(0, 1); err != nil {
		return errors.Wrap(err, "freezing header")
	}
	return nil
}
