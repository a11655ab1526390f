package parse

import (
	"strings"

	"transitops.dev/dutysheet/model"
)

// A run of table rows belonging to one duty. Start and End are
// inclusive row indices into the table.
type DutyBlock struct {
	Name  string
	Start int
	End   int
}

// Per-table state carried across the segmentation walk.
type segmentState struct {
	evening bool
}

func containsFold(row []string, marker string) bool {
	if marker == "" {
		return false
	}
	marker = strings.ToLower(marker)
	for _, v := range row {
		if strings.Contains(strings.ToLower(v), marker) {
			return true
		}
	}
	return false
}

// A boundary row has times in columns 2-4 (1-indexed) and nothing
// after them.
func isBoundary(row []string) bool {
	if len(row) < firstTimeColumn+1 {
		return false
	}
	for c := 1; c <= firstTimeColumn; c++ {
		if !model.IsClock(row[c]) {
			return false
		}
	}
	for c := firstTimeColumn + 1; c < len(row); c++ {
		if row[c] != "" {
			return false
		}
	}
	return true
}

func blockEnd(rows [][]string, start int) int {
	for j := start + 1; j < len(rows); j++ {
		if isBoundary(rows[j]) {
			return j
		}
	}
	return len(rows) - 1
}

// SegmentDuties splits the data rows of table into duty blocks.
//
// Once a row mentioning the evening marker has been walked, purely
// numeric duty names get the evening suffix.
func SegmentDuties(table model.RawTable, markers model.Markers) []DutyBlock {
	pattern := newDutyPattern(markers.EveningSuffix)

	// Route, stop and header rows never open a duty.
	dataStart := table.Header.Row - max(0, table.Header.Row-preambleRows) + 1

	state := segmentState{}
	blocks := []DutyBlock{}

	for i := 0; i < len(table.Rows); {
		row := table.Rows[i]
		if containsFold(row, markers.Evening) {
			state.evening = true
		}

		if i < dataStart || !pattern.IsDuty(row[0]) {
			i++
			continue
		}

		end := blockEnd(table.Rows, i)

		name := row[0]
		if state.evening {
			name = pattern.Evening(name)
		}

		blocks = append(blocks, DutyBlock{Name: name, Start: i, End: end})
		i = end + 1
	}

	return blocks
}
