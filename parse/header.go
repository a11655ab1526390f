package parse

import (
	"strings"

	"transitops.dev/dutysheet/model"
)

// LocateHeader finds the first row at or below from holding the duty
// column marker. The table width is derived from the number of
// arrival tags in that row. Returns false when no header remains in
// the grid.
func LocateHeader(grid *model.Grid, from int, markers model.Markers) (model.HeaderSpec, bool) {
	for r := max(from, 0); r < len(grid.Rows); r++ {
		column := -1
		arrivals := 0
		for c := range grid.Rows[r] {
			v := grid.Text(r, c)
			if column < 0 && v == markers.DutyColumn {
				column = c
			}
			if strings.Contains(v, markers.Arrival) {
				arrivals++
			}
		}
		if column >= 0 {
			return model.HeaderSpec{
				Row:    r,
				Column: column,
				Width:  4 + 2*arrivals,
			}, true
		}
	}
	return model.HeaderSpec{}, false
}
