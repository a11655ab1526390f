package sheet

import (
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"transitops.dev/dutysheet/model"
)

// Built in number formats that render a time of day.
var timeNumFmts = map[int]bool{
	18: true, // h:mm AM/PM
	19: true, // h:mm:ss AM/PM
	20: true, // h:mm
	21: true, // h:mm:ss
	22: true, // m/d/yy h:mm
	45: true, // mm:ss
	46: true, // [h]:mm:ss
	47: true, // mmss.0
}

// Spreadsheet serial dates count days from this epoch.
var epoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// OpenWorkbook reads every sheet of the xlsx file at path.
func OpenWorkbook(path string) ([]*model.Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	return readGrids(f)
}

// ReadWorkbook reads every sheet of an xlsx workbook. Cells with a
// time of day number format become time cells, everything else is
// kept as its raw text.
func ReadWorkbook(r io.Reader) ([]*model.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening workbook")
	}
	defer f.Close()
	return readGrids(f)
}

type styleCache struct {
	f      *excelize.File
	isTime map[int]bool
}

func (s *styleCache) timeStyle(idx int) bool {
	if v, found := s.isTime[idx]; found {
		return v
	}

	v := false
	style, err := s.f.GetStyle(idx)
	if err == nil && style != nil {
		v = timeNumFmts[style.NumFmt]
		if style.CustomNumFmt != nil {
			v = isTimeFormat(*style.CustomNumFmt)
		}
	}
	s.isTime[idx] = v
	return v
}

// isTimeFormat reports whether a custom number format shows hours.
func isTimeFormat(format string) bool {
	format = strings.ToLower(format)
	// Strip quoted literals, e.g. "h"
	var b strings.Builder
	quoted := false
	for _, r := range format {
		if r == '"' {
			quoted = !quoted
			continue
		}
		if !quoted {
			b.WriteRune(r)
		}
	}
	return strings.Contains(b.String(), "h")
}

// serialClock converts a spreadsheet serial number into a time of
// day on the epoch. The fraction is rounded to whole seconds to absorb
// float error, then truncated to the minute.
func serialClock(raw string) (time.Time, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return time.Time{}, false
	}
	_, frac := math.Modf(v)
	if frac < 0 {
		frac += 1
	}
	secs := int(math.Round(frac*24*60*60)) % (24 * 60 * 60)
	minutes := secs / 60
	return epoch.Add(time.Duration(minutes) * time.Minute), true
}

func readGrids(f *excelize.File) ([]*model.Grid, error) {
	styles := &styleCache{f: f, isTime: map[int]bool{}}

	grids := []*model.Grid{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, errors.Wrapf(err, "reading sheet %s", name)
		}

		grid := &model.Grid{Name: name, Rows: make([][]model.Cell, len(rows))}
		for r, row := range rows {
			cells := make([]model.Cell, len(row))
			for c, value := range row {
				cells[c] = model.TextCell(value)
				if strings.TrimSpace(value) == "" {
					continue
				}

				axis, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return nil, errors.Wrap(err, "cell name")
				}
				idx, err := f.GetCellStyle(name, axis)
				if err != nil || !styles.timeStyle(idx) {
					continue
				}
				if t, ok := serialClock(value); ok {
					cells[c] = model.TimeCell(t)
				}
			}
			grid.Rows[r] = cells
		}

		log.Debug().Str("sheet", name).Int("rows", len(rows)).Msg("Read sheet")
		grids = append(grids, grid)
	}

	return grids, nil
}

// ReadTable reads the first sheet of a workbook as a header row and
// data rows of normalized cell text.
func ReadTable(r io.Reader) ([]string, [][]string, error) {
	grids, err := ReadWorkbook(r)
	if err != nil {
		return nil, nil, err
	}
	if len(grids) == 0 || len(grids[0].Rows) == 0 {
		return nil, nil, errors.New("workbook has no rows")
	}

	grid := grids[0]
	text := func(row int) []string {
		out := make([]string, len(grid.Rows[row]))
		for c := range out {
			out[c] = grid.Text(row, c)
		}
		return out
	}

	header := text(0)
	rows := make([][]string, 0, len(grid.Rows)-1)
	for r := 1; r < len(grid.Rows); r++ {
		rows = append(rows, text(r))
	}
	return header, rows, nil
}
