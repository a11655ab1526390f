package assemble

// Position of the next dynamic cell of an itinerary.
type Cursor struct {
	Row int
	Col int
}

func StartCursor() Cursor {
	return Cursor{Row: 0, Col: StaticColumns}
}

// Advance moves one column to the right, wrapping to the first
// dynamic column of the next row once width is reached.
func (c Cursor) Advance(width int) Cursor {
	next := Cursor{Row: c.Row, Col: c.Col + 1}
	if next.Col >= width {
		next.Row++
		next.Col = StaticColumns
	}
	return next
}
