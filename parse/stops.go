package parse

import "transitops.dev/dutysheet/model"

// Maps a column to the stop it belongs to. Columns without a label of
// their own inherit the nearest label to their left.
type StopResolver struct {
	names []string
}

func NewStopResolver(stopRow []string) *StopResolver {
	names := make([]string, len(stopRow))
	last := model.UnknownStop
	for i, v := range stopRow {
		if v != "" {
			last = v
		}
		names[i] = last
	}
	return &StopResolver{names: names}
}

func (s *StopResolver) Resolve(column int) string {
	if column < 0 || column >= len(s.names) {
		return model.UnknownStop
	}
	return s.names[column]
}
