package storage

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"transitops.dev/dutysheet/model"
)

const PSQLTripBatchSize = 5000

type PSQLStorage struct {
	db *sql.DB
}

type PSQLScheduleWriter struct {
	schedule string
	db       *sql.DB
	tripBuf  []model.TripRow
}

type PSQLScheduleReader struct {
	schedule string
	db       *sql.DB
}

// Creates a new Postgres Storage using the provided connection string.
//
// If clearDB is true, the database will be cleared on startup. You
// probably only want this for testing.
func NewPSQLStorage(connStr string, clearDB bool) (*PSQLStorage, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	if clearDB {
		_, err = db.Exec(`DROP TABLE IF EXISTS trip_row;`)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("clearing db: %w", err)
		}
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS trip_row (
    schedule TEXT NOT NULL,
    s_no INTEGER NOT NULL,
    depot TEXT NOT NULL,
    trip_no INTEGER NOT NULL,
    duty_name TEXT NOT NULL,
    day_type TEXT NOT NULL,
    route_number TEXT NOT NULL,
    route_direction TEXT NOT NULL,
    origin TEXT NOT NULL,
    destination TEXT NOT NULL,
    start_time TEXT NOT NULL,
    end_time TEXT NOT NULL,
    trip_type TEXT NOT NULL,
    sch_kms DOUBLE PRECISION,
    run_time INTEGER,
    shift TEXT NOT NULL,
    bus_id TEXT NOT NULL,
    PRIMARY KEY (schedule, s_no)
);
CREATE INDEX IF NOT EXISTS trip_row_duty_name ON trip_row (duty_name);
`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating trip_row table: %w", err)
	}

	return &PSQLStorage{
		db: db,
	}, nil
}

func (s *PSQLStorage) Close() error {
	err := s.db.Close()
	if err != nil {
		return fmt.Errorf("failed to close db: %w", err)
	}
	return nil
}

func (s *PSQLStorage) ListSchedules() ([]ScheduleMetadata, error) {
	rows, err := s.db.Query(`
SELECT schedule, COUNT(*)
FROM trip_row
GROUP BY schedule
ORDER BY schedule`)
	if err != nil {
		return nil, fmt.Errorf("listing schedules: %w", err)
	}
	defer rows.Close()

	schedules := []ScheduleMetadata{}
	for rows.Next() {
		var md ScheduleMetadata
		if err := rows.Scan(&md.Name, &md.Trips); err != nil {
			return nil, fmt.Errorf("scanning schedule: %w", err)
		}
		schedules = append(schedules, md)
	}

	return schedules, rows.Err()
}

func (s *PSQLStorage) GetReader(schedule string) (ScheduleReader, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM trip_row WHERE schedule = $1)`,
		schedule,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("looking up schedule: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrScheduleNotFound, schedule)
	}

	return &PSQLScheduleReader{
		schedule: schedule,
		db:       s.db,
	}, nil
}

func (s *PSQLStorage) GetWriter(schedule string) (ScheduleWriter, error) {
	// In case schedule already exists, delete all records
	_, err := s.db.Exec(`DELETE FROM trip_row WHERE schedule = $1`, schedule)
	if err != nil {
		return nil, fmt.Errorf("deleting trip_row records: %w", err)
	}

	return &PSQLScheduleWriter{
		schedule: schedule,
		db:       s.db,
	}, nil
}

func (w *PSQLScheduleWriter) BeginTrips() error {
	return nil
}

func (w *PSQLScheduleWriter) WriteTrip(row *model.TripRow) error {
	w.tripBuf = append(w.tripBuf, *row)

	if len(w.tripBuf) >= PSQLTripBatchSize {
		err := w.flushTrips()
		if err != nil {
			return fmt.Errorf("flushing trips: %w", err)
		}
	}

	return nil
}

func (w *PSQLScheduleWriter) EndTrips() error {
	if len(w.tripBuf) > 0 {
		err := w.flushTrips()
		if err != nil {
			return fmt.Errorf("flushing trips: %w", err)
		}
	}
	return nil
}

func (w *PSQLScheduleWriter) flushTrips() error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(pq.CopyIn(
		"trip_row",
		"schedule", "s_no", "depot", "trip_no", "duty_name", "day_type",
		"route_number", "route_direction", "origin", "destination",
		"start_time", "end_time", "trip_type", "sch_kms", "run_time",
		"shift", "bus_id",
	))
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range w.tripBuf {
		_, err = stmt.Exec(
			w.schedule, t.SNo, t.Depot, t.TripNo, t.DutyName, t.DayType,
			t.RouteNumber, t.RouteDirection, t.Origin, t.Destination,
			t.StartTime, t.EndTime, t.TripType, t.SchKms, t.RunTime,
			t.Shift, t.BusID,
		)
		if err != nil {
			return fmt.Errorf("COPY trip: %w", err)
		}
	}

	_, err = stmt.Exec()
	if err != nil {
		return fmt.Errorf("executing statement: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	w.tripBuf = nil

	return nil
}

func (w *PSQLScheduleWriter) Close() error {
	return nil
}

func (r *PSQLScheduleReader) Trips() ([]*model.TripRow, error) {
	rows, err := r.db.Query(`
SELECT`+tripRowColumns+`
FROM trip_row
WHERE schedule = $1
ORDER BY s_no`, r.schedule)
	if err != nil {
		return nil, fmt.Errorf("querying trips: %w", err)
	}
	defer rows.Close()

	return scanTripRows(rows)
}
