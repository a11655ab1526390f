package storage

import (
	"sort"
	"sync"

	"transitops.dev/dutysheet/model"
)

// In memory implementation of Storage below

type MemoryStorage struct {
	mu        sync.Mutex
	Schedules map[string][]*model.TripRow
}

type MemoryScheduleWriter struct {
	storage  *MemoryStorage
	schedule string
	buf      []*model.TripRow
}

type MemoryScheduleReader struct {
	rows []*model.TripRow
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		Schedules: map[string][]*model.TripRow{},
	}
}

func (s *MemoryStorage) ListSchedules() ([]ScheduleMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedules := []ScheduleMetadata{}
	for name, rows := range s.Schedules {
		schedules = append(schedules, ScheduleMetadata{Name: name, Trips: len(rows)})
	}
	sort.Slice(schedules, func(i, j int) bool {
		return schedules[i].Name < schedules[j].Name
	})
	return schedules, nil
}

func (s *MemoryStorage) GetReader(schedule string) (ScheduleReader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, found := s.Schedules[schedule]
	if !found {
		return nil, ErrScheduleNotFound
	}
	return &MemoryScheduleReader{rows: rows}, nil
}

func (s *MemoryStorage) GetWriter(schedule string) (ScheduleWriter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.Schedules, schedule)
	return &MemoryScheduleWriter{storage: s, schedule: schedule}, nil
}

func (s *MemoryStorage) Close() error {
	return nil
}

func (w *MemoryScheduleWriter) BeginTrips() error {
	w.buf = nil
	return nil
}

func (w *MemoryScheduleWriter) WriteTrip(row *model.TripRow) error {
	copied := *row
	w.buf = append(w.buf, &copied)
	return nil
}

func (w *MemoryScheduleWriter) EndTrips() error {
	w.storage.mu.Lock()
	defer w.storage.mu.Unlock()

	w.storage.Schedules[w.schedule] = append(w.storage.Schedules[w.schedule], w.buf...)
	w.buf = nil
	return nil
}

func (w *MemoryScheduleWriter) Close() error {
	return nil
}

func (r *MemoryScheduleReader) Trips() ([]*model.TripRow, error) {
	rows := make([]*model.TripRow, 0, len(r.rows))
	for _, row := range r.rows {
		copied := *row
		rows = append(rows, &copied)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].SNo < rows[j].SNo
	})
	return rows, nil
}
