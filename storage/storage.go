package storage

import (
	"errors"

	"transitops.dev/dutysheet/model"
)

var ErrScheduleNotFound = errors.New("schedule not found")

// Stores trip tables under a schedule name, e.g. the name of the
// workbook they were extracted from.
type Storage interface {
	// Lists all stored schedules, ordered by name.
	ListSchedules() ([]ScheduleMetadata, error)

	// Gets a reader for the named schedule. Returns
	// ErrScheduleNotFound if nothing was written under the name.
	GetReader(schedule string) (ScheduleReader, error)

	// Gets a writer for the named schedule. Any trips previously
	// written under the same name are removed.
	GetWriter(schedule string) (ScheduleWriter, error)

	Close() error
}

type ScheduleMetadata struct {
	Name  string
	Trips int
}

// Writes the trip table of a single schedule.
//
// BeginTrips() and EndTrips() are called before and after all calls
// to WriteTrip(), allowing transactions/batching.
type ScheduleWriter interface {
	BeginTrips() error
	WriteTrip(row *model.TripRow) error
	EndTrips() error
	Close() error
}

type ScheduleReader interface {
	// Trip table rows, ordered by S.No.
	Trips() ([]*model.TripRow, error)
}

// WriteTrips writes a complete trip table with w.
func WriteTrips(w ScheduleWriter, rows []*model.TripRow) error {
	if err := w.BeginTrips(); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.WriteTrip(row); err != nil {
			return err
		}
	}
	return w.EndTrips()
}
