package parse

import (
	"github.com/rs/zerolog/log"

	"transitops.dev/dutysheet/model"
)

// Returns the cells of row r inside the header's column window,
// padded with blanks to the full width.
func window(grid *model.Grid, r int, header model.HeaderSpec) []string {
	row := make([]string, header.Width)
	for i := range row {
		row[i] = grid.Text(r, header.Column+i)
	}
	return row
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

// ExtractTable carves the table belonging to header out of grid. The
// two rows above the header and the header itself are always
// included. Subsequent non-blank rows are appended until more than
// blankLimit consecutive blank rows are seen; blank rows are never
// part of the table.
//
// Returns the table and the row at which to resume looking for the
// next header.
func ExtractTable(grid *model.Grid, header model.HeaderSpec, blankLimit int) (model.RawTable, int) {
	table := model.RawTable{
		Sheet:  grid.Name,
		Header: header,
	}

	for r := max(0, header.Row-preambleRows); r <= header.Row; r++ {
		table.Rows = append(table.Rows, window(grid, r, header))
	}

	blanks := 0
	r := header.Row + 1
	for ; r < len(grid.Rows); r++ {
		row := window(grid, r, header)
		if isBlankRow(row) {
			blanks++
			if blanks > blankLimit {
				break
			}
			continue
		}
		blanks = 0
		table.Rows = append(table.Rows, row)
	}

	return table, r
}

// ExtractTables returns every table found in grids, in sheet and row
// order.
func ExtractTables(grids []*model.Grid, opts Options) []model.RawTable {
	tables := []model.RawTable{}
	for _, grid := range grids {
		r := 0
		for {
			header, found := LocateHeader(grid, r, opts.Markers)
			if !found {
				break
			}
			table, next := ExtractTable(grid, header, opts.BlankLimit)
			log.Debug().
				Str("sheet", grid.Name).
				Int("row", header.Row).
				Int("column", header.Column).
				Int("width", header.Width).
				Int("rows", len(table.Rows)).
				Msg("Extracted table")
			tables = append(tables, table)
			r = next
		}
	}
	return tables
}
