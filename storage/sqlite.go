package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"transitops.dev/dutysheet/model"
)

type SQLiteConfig struct {
	OnDisk bool
	Path   string
}

type SQLiteStorage struct {
	SQLiteConfig

	db *sql.DB
}

type SQLiteScheduleWriter struct {
	schedule    string
	db          *sql.DB
	insertQuery *sql.Stmt
	insertTx    *sql.Tx
}

type SQLiteScheduleReader struct {
	schedule string
	db       *sql.DB
}

const tripRowColumns = `
    s_no,
    depot,
    trip_no,
    duty_name,
    day_type,
    route_number,
    route_direction,
    origin,
    destination,
    start_time,
    end_time,
    trip_type,
    sch_kms,
    run_time,
    shift,
    bus_id`

func NewSQLiteStorage(cfg ...SQLiteConfig) (*SQLiteStorage, error) {
	onDisk := false
	path := ""
	if len(cfg) > 0 {
		onDisk = cfg[0].OnDisk
		path = cfg[0].Path
	}

	sourceName := ":memory:"
	if onDisk {
		sourceName = path
	}

	db, err := sql.Open("sqlite3", sourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Each connection to :memory: is a separate database
	if !onDisk {
		db.SetMaxOpenConns(1)
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
    sch_kms REAL,
    run_time INTEGER,
    shift TEXT NOT NULL,
    bus_id TEXT NOT NULL,
PRIMARY KEY (schedule, s_no)
);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating trip_row table: %w", err)
	}

	return &SQLiteStorage{
		SQLiteConfig: SQLiteConfig{
			OnDisk: onDisk,
			Path:   path,
		},
		db: db,
	}, nil
}

func (s *SQLiteStorage) ListSchedules() ([]ScheduleMetadata, error) {
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

func (s *SQLiteStorage) GetReader(schedule string) (ScheduleReader, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM trip_row WHERE schedule = ?`,
		schedule,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("counting trips: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: %s", ErrScheduleNotFound, schedule)
	}

	return &SQLiteScheduleReader{
		schedule: schedule,
		db:       s.db,
	}, nil
}

func (s *SQLiteStorage) GetWriter(schedule string) (ScheduleWriter, error) {
	_, err := s.db.Exec(`DELETE FROM trip_row WHERE schedule = ?`, schedule)
	if err != nil {
		return nil, fmt.Errorf("deleting trip_row records: %w", err)
	}

	return &SQLiteScheduleWriter{
		schedule: schedule,
		db:       s.db,
	}, nil
}

func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing db: %w", err)
	}
	return nil
}

func (w *SQLiteScheduleWriter) BeginTrips() error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
INSERT INTO trip_row (schedule,` + tripRowColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing statement: %w", err)
	}

	w.insertTx = tx
	w.insertQuery = stmt

	return nil
}

func (w *SQLiteScheduleWriter) WriteTrip(row *model.TripRow) error {
	if w.insertQuery == nil {
		return fmt.Errorf("WriteTrip called before BeginTrips")
	}

	_, err := w.insertQuery.Exec(
		w.schedule,
		row.SNo,
		row.Depot,
		row.TripNo,
		row.DutyName,
		row.DayType,
		row.RouteNumber,
		row.RouteDirection,
		row.Origin,
		row.Destination,
		row.StartTime,
		row.EndTime,
		row.TripType,
		row.SchKms,
		row.RunTime,
		row.Shift,
		row.BusID,
	)
	if err != nil {
		return fmt.Errorf("inserting trip: %w", err)
	}
	return nil
}

func (w *SQLiteScheduleWriter) EndTrips() error {
	if w.insertTx == nil {
		return nil
	}
	defer func() {
		w.insertQuery = nil
		w.insertTx = nil
	}()

	w.insertQuery.Close()
	if err := w.insertTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (w *SQLiteScheduleWriter) Close() error {
	if w.insertTx != nil {
		w.insertQuery.Close()
		w.insertTx.Rollback()
		w.insertQuery = nil
		w.insertTx = nil
	}
	return nil
}

func (r *SQLiteScheduleReader) Trips() ([]*model.TripRow, error) {
	rows, err := r.db.Query(`
SELECT`+tripRowColumns+`
FROM trip_row
WHERE schedule = ?
ORDER BY s_no`, r.schedule)
	if err != nil {
		return nil, fmt.Errorf("querying trips: %w", err)
	}
	defer rows.Close()

	return scanTripRows(rows)
}

func scanTripRows(rows *sql.Rows) ([]*model.TripRow, error) {
	trips := []*model.TripRow{}
	for rows.Next() {
		var t model.TripRow
		var kms sql.NullFloat64
		var runTime sql.NullInt64
		err := rows.Scan(
			&t.SNo,
			&t.Depot,
			&t.TripNo,
			&t.DutyName,
			&t.DayType,
			&t.RouteNumber,
			&t.RouteDirection,
			&t.Origin,
			&t.Destination,
			&t.StartTime,
			&t.EndTime,
			&t.TripType,
			&kms,
			&runTime,
			&t.Shift,
			&t.BusID,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning trip: %w", err)
		}
		if kms.Valid {
			v := kms.Float64
			t.SchKms = &v
		}
		if runTime.Valid {
			v := int(runTime.Int64)
			t.RunTime = &v
		}
		trips = append(trips, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading trips: %w", err)
	}
	return trips, nil
}
