package sheet

import (
	"io"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	minColumnWidth = 8
	maxColumnWidth = 60
)

type writer struct {
	f     *excelize.File
	sheet string
	bold  int
	// Widest text seen per column, in runes.
	widths []int
}

func newWriter(sheet string) (*writer, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "naming sheet")
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	})
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "creating header style")
	}

	return &writer{f: f, sheet: sheet, bold: bold}, nil
}

func (w *writer) track(col int, text string) {
	for len(w.widths) <= col {
		w.widths = append(w.widths, 0)
	}
	w.widths[col] = max(w.widths[col], utf8.RuneCountInString(text))
}

// setRow writes values starting at column A of the 1-based row.
func (w *writer) setRow(row int, values []interface{}) error {
	axis, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	for c, v := range values {
		if s, ok := v.(string); ok {
			w.track(c, s)
		}
	}
	return w.f.SetSheetRow(w.sheet, axis, &values)
}

func (w *writer) setStringRow(row int, values []string) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return w.setRow(row, cells)
}

// merge joins the 1-based inclusive cell range.
func (w *writer) merge(col1, row1, col2, row2 int) error {
	from, err := excelize.CoordinatesToCellName(col1, row1)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(col2, row2)
	if err != nil {
		return err
	}
	return w.f.MergeCell(w.sheet, from, to)
}

func (w *writer) styleRows(row1, row2, cols int) error {
	from, err := excelize.CoordinatesToCellName(1, row1)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(max(cols, 1), row2)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, from, to, w.bold)
}

// freeze keeps the top rows and left columns in view.
func (w *writer) freeze(cols, rows int) error {
	topLeft, err := excelize.CoordinatesToCellName(cols+1, rows+1)
	if err != nil {
		return err
	}
	pane := "bottomLeft"
	if cols > 0 {
		pane = "bottomRight"
	}
	return w.f.SetPanes(w.sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      cols,
		YSplit:      rows,
		TopLeftCell: topLeft,
		ActivePane:  pane,
	})
}

func (w *writer) fitColumns() error {
	for c, n := range w.widths {
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		width := float64(min(max(n+2, minColumnWidth), maxColumnWidth))
		if err := w.f.SetColWidth(w.sheet, name, name, width); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) finish(out io.Writer) error {
	defer w.f.Close()
	if err := w.fitColumns(); err != nil {
		return errors.Wrap(err, "sizing columns")
	}
	if _, err := w.f.WriteTo(out); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}

func (w *writer) abort() {
	w.f.Close()
}
