package sheet

import (
	"io"

	"github.com/pkg/errors"

	"transitops.dev/dutysheet/assemble"
)

const DutyGridSheet = "Schedule"

// Rows taken by the two level header.
const gridHeaderRows = 2

// WriteDutyGrid writes an assembled duty grid. The first header row
// holds the depot over the static columns and each stop over its
// arrival and departure columns.
func WriteDutyGrid(out io.Writer, layout *assemble.Layout) error {
	w, err := newWriter(DutyGridSheet)
	if err != nil {
		return err
	}

	if err := w.writeDutyGrid(layout); err != nil {
		w.abort()
		return err
	}
	return w.finish(out)
}

func (w *writer) writeDutyGrid(layout *assemble.Layout) error {
	width := len(layout.Header)

	groups := make([]string, width)
	labels := make([]string, width)
	for i, col := range layout.Header {
		// Only the first column of a group carries its name.
		if i == 0 || layout.Header[i-1].Group != col.Group {
			groups[i] = col.Group
		}
		labels[i] = col.Label
	}

	if err := w.setStringRow(1, groups); err != nil {
		return errors.Wrap(err, "writing header groups")
	}
	if err := w.setStringRow(2, labels); err != nil {
		return errors.Wrap(err, "writing header labels")
	}

	start := 0
	for i := 1; i <= width; i++ {
		if i < width && layout.Header[i].Group == layout.Header[start].Group {
			continue
		}
		if i-start > 1 {
			if err := w.merge(start+1, 1, i, 1); err != nil {
				return errors.Wrapf(err, "merging header %s", layout.Header[start].Group)
			}
		}
		start = i
	}

	if err := w.styleRows(1, gridHeaderRows, width); err != nil {
		return errors.Wrap(err, "styling header")
	}

	for r, row := range layout.Rows {
		if err := w.setStringRow(r+gridHeaderRows+1, row); err != nil {
			return errors.Wrapf(err, "writing row %d", r)
		}
	}

	spans := map[int]bool{}
	for _, span := range layout.Duties {
		spans[span.Row] = true
		if span.Lines < 2 {
			continue
		}
		first := span.Row + gridHeaderRows + 1
		last := first + span.Lines - 1
		col := assemble.ColDutyNumber + 1
		if err := w.merge(col, first, col, last); err != nil {
			return errors.Wrapf(err, "merging duty %s", span.Duty)
		}
	}

	// Separator rows are the non empty rows no duty starts on.
	for r, row := range layout.Rows {
		if spans[r] || len(row) == 0 || row[0] == "" {
			continue
		}
		line := r + gridHeaderRows + 1
		if err := w.merge(1, line, width, line); err != nil {
			return errors.Wrap(err, "merging separator")
		}
		if err := w.styleRows(line, line, width); err != nil {
			return errors.Wrap(err, "styling separator")
		}
	}

	if err := w.freeze(1, gridHeaderRows); err != nil {
		return errors.Wrap(err, "freezing header")
	}
	return nil
}
