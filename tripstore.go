package dutysheet

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"transitops.dev/dutysheet/assemble"
	"transitops.dev/dutysheet/downloader"
	"transitops.dev/dutysheet/model"
	"transitops.dev/dutysheet/parse"
	"transitops.dev/dutysheet/sheet"
	"transitops.dev/dutysheet/storage"
)

// Location of a trip table held in a database, written as
// sqlite://<path>#<schedule> or postgres://<dsn>#<schedule>.
type StoreLocation struct {
	Driver   string
	DSN      string
	Schedule string
}

// ParseStoreLocation recognizes sqlite and postgres trip store
// locations. ok is false for anything else.
func ParseStoreLocation(location string) (StoreLocation, bool) {
	base, schedule, _ := strings.Cut(location, "#")

	switch {
	case strings.HasPrefix(base, "sqlite://"):
		return StoreLocation{
			Driver:   "sqlite",
			DSN:      strings.TrimPrefix(base, "sqlite://"),
			Schedule: schedule,
		}, true
	case strings.HasPrefix(base, "postgres://"), strings.HasPrefix(base, "postgresql://"):
		if _, err := url.Parse(base); err != nil {
			return StoreLocation{}, false
		}
		return StoreLocation{
			Driver:   "postgres",
			DSN:      base,
			Schedule: schedule,
		}, true
	}

	return StoreLocation{}, false
}

// OpenStore opens the database behind a trip store location.
func (p *Pipeline) OpenStore(loc StoreLocation) (storage.Storage, error) {
	switch loc.Driver {
	case "sqlite":
		if loc.DSN == "" || loc.DSN == ":memory:" {
			return storage.NewSQLiteStorage()
		}
		return storage.NewSQLiteStorage(storage.SQLiteConfig{OnDisk: true, Path: loc.DSN})
	case "postgres":
		return storage.NewPSQLStorage(loc.DSN, p.ClearPostgres)
	}
	return nil, fmt.Errorf("unknown store driver %s", loc.Driver)
}

// selectSchedule picks the named schedule, or the only one stored
// when no name is given.
func selectSchedule(s storage.Storage, name string) (string, error) {
	if name != "" {
		return name, nil
	}

	schedules, err := s.ListSchedules()
	if err != nil {
		return "", err
	}
	if len(schedules) != 1 {
		return "", fmt.Errorf("%w: store holds %d schedules, name one with #<schedule>", ErrNoSourceSelected, len(schedules))
	}
	return schedules[0].Name, nil
}

// LoadTripTable reads a trip table from an xlsx or csv file (local
// or http(s)), or from a trip store.
func (p *Pipeline) LoadTripTable(ctx context.Context, location string) ([]*model.TripRow, error) {
	if location == "" {
		return nil, ErrNoSourceSelected
	}

	if loc, ok := ParseStoreLocation(location); ok {
		return p.loadFromStore(loc)
	}

	body, err := downloader.Fetch(ctx, p.Downloader, location, p.Headers, p.Download)
	if err != nil {
		return nil, err
	}

	var header []string
	var rows [][]string
	if strings.EqualFold(filepath.Ext(stripQuery(location)), ".csv") {
		header, rows, err = sheet.ReadTableCSV(bytes.NewReader(body))
	} else {
		header, rows, err = sheet.ReadTable(bytes.NewReader(body))
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", location, err)
	}

	trips, err := parse.ParseTripTable(header, rows)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return nil, ErrNoTripRecords
	}

	log.Info().Str("source", location).Int("rows", len(trips)).Msg("Loaded trip table")
	return trips, nil
}

func (p *Pipeline) loadFromStore(loc StoreLocation) ([]*model.TripRow, error) {
	s, err := p.OpenStore(loc)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	schedule, err := selectSchedule(s, loc.Schedule)
	if err != nil {
		return nil, err
	}

	reader, err := s.GetReader(schedule)
	if err != nil {
		return nil, err
	}

	trips, err := reader.Trips()
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return nil, ErrNoTripRecords
	}

	log.Info().Str("driver", loc.Driver).Str("schedule", schedule).Int("rows", len(trips)).Msg("Loaded trip table")
	return trips, nil
}

// SaveTripTable writes rows to an xlsx or csv file, or to a trip
// store. Store locations without a schedule name use schedule.
func (p *Pipeline) SaveTripTable(location string, schedule string, rows []*model.TripRow) error {
	if loc, ok := ParseStoreLocation(location); ok {
		if loc.Schedule == "" {
			loc.Schedule = schedule
		}
		return p.saveToStore(loc, rows)
	}

	buf := &bytes.Buffer{}
	var err error
	if strings.EqualFold(filepath.Ext(location), ".csv") {
		err = sheet.WriteTripTableCSV(buf, rows)
	} else {
		err = sheet.WriteTripTable(buf, rows)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(location, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", location, err)
	}

	log.Info().Str("output", location).Int("rows", len(rows)).Msg("Wrote trip table")
	return nil
}

func (p *Pipeline) saveToStore(loc StoreLocation, rows []*model.TripRow) error {
	s, err := p.OpenStore(loc)
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := s.GetWriter(loc.Schedule)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := storage.WriteTrips(w, rows); err != nil {
		return fmt.Errorf("storing trips: %w", err)
	}

	log.Info().Str("driver", loc.Driver).Str("schedule", loc.Schedule).Int("rows", len(rows)).Msg("Stored trip table")
	return nil
}

// SaveDutyGrid writes the assembled grid to an xlsx file.
func SaveDutyGrid(location string, layout *assemble.Layout) error {
	buf := &bytes.Buffer{}
	if err := sheet.WriteDutyGrid(buf, layout); err != nil {
		return err
	}
	if err := os.WriteFile(location, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", location, err)
	}

	log.Info().Str("output", location).Int("duties", len(layout.Duties)).Msg("Wrote duty grid")
	return nil
}

func stripQuery(location string) string {
	if downloader.IsURL(location) {
		if u, err := url.Parse(location); err == nil {
			return u.Path
		}
	}
	return location
}

// OutputPath names an output file derived from input. Local files
// get a sibling; URLs and stores are named in the working directory.
func OutputPath(input string, suffix string) string {
	if downloader.IsURL(input) {
		return downloader.BaseName(input) + suffix
	}
	if loc, ok := ParseStoreLocation(input); ok {
		name := loc.Schedule
		if name == "" {
			name = downloader.BaseName(loc.DSN)
		}
		return name + suffix
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}
