package dutysheet

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"transitops.dev/dutysheet/assemble"
	"transitops.dev/dutysheet/distance"
	"transitops.dev/dutysheet/downloader"
	"transitops.dev/dutysheet/model"
	"transitops.dev/dutysheet/parse"
	"transitops.dev/dutysheet/sheet"
)

const (
	DefaultDownloadTimeout = downloader.DefaultTimeout
	DefaultDownloadMaxSize = 100 << 20 // 100 MB
)

var (
	ErrNoSourceSelected = errors.New("no source selected")
	ErrNoTablesFound    = errors.New("no duty tables found")
	ErrNoTripsExtracted = errors.New("no trips extracted")
	ErrNoTripRecords    = errors.New("no trip records")
	ErrNoStopColumns    = assemble.ErrNoStopColumns
)

// Pipeline converts duty sheets into trip tables, and trip tables
// into duty grids.
type Pipeline struct {
	Parse      parse.Options
	Assemble   assemble.Options
	Download   downloader.GetOptions
	Downloader downloader.Downloader
	// HTTP headers sent when downloading workbooks.
	Headers map[string]string

	// Source of Sch kms. Left blank when nil.
	Distances distance.Source

	// Drop existing tables when opening a postgres trip store.
	ClearPostgres bool
}

func NewPipeline() *Pipeline {
	return &Pipeline{
		Parse:    parse.DefaultOptions(),
		Assemble: assemble.DefaultOptions(),
		Download: downloader.GetOptions{
			Timeout: DefaultDownloadTimeout,
			MaxSize: DefaultDownloadMaxSize,
		},
		Downloader: downloader.HTTP{},
	}
}

// LoadWorkbook reads every sheet of the xlsx workbook at location, a
// local path or an http(s) URL.
func (p *Pipeline) LoadWorkbook(ctx context.Context, location string) ([]*model.Grid, error) {
	if location == "" {
		return nil, ErrNoSourceSelected
	}

	body, err := downloader.Fetch(ctx, p.Downloader, location, p.Headers, p.Download)
	if err != nil {
		return nil, err
	}

	grids, err := sheet.ReadWorkbook(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", location, err)
	}

	log.Info().Str("workbook", location).Int("sheets", len(grids)).Msg("Loaded workbook")
	return grids, nil
}

// ExtractTrips locates every duty table in grids and recovers their
// trips.
func (p *Pipeline) ExtractTrips(grids []*model.Grid) ([]model.TripRecord, error) {
	tables := parse.ExtractTables(grids, p.Parse)
	if len(tables) == 0 {
		return nil, ErrNoTablesFound
	}

	trips := parse.BuildAll(tables, p.Parse)
	if len(trips) == 0 {
		return nil, ErrNoTripsExtracted
	}

	log.Info().Int("tables", len(tables)).Int("trips", len(trips)).Msg("Extracted trips")
	return trips, nil
}

// BuildTripTable numbers trips into trip table rows, looking up Sch
// kms for each origin and destination pair.
func (p *Pipeline) BuildTripTable(trips []model.TripRecord) ([]*model.TripRow, error) {
	if len(trips) == 0 {
		return nil, ErrNoTripsExtracted
	}

	kms := map[model.StopPair]float64{}
	if p.Distances != nil {
		var err error
		kms, err = distance.Collect(p.Distances, parse.ODPairs(trips))
		if err != nil {
			return nil, fmt.Errorf("collecting Sch kms: %w", err)
		}
	}

	rows := parse.BuildTripRows(trips, kms, p.Parse.Markers.EveningSuffix)
	log.Info().Int("rows", len(rows)).Int("distances", len(kms)).Msg("Built trip table")
	return rows, nil
}

// AssembleGrid lays the trip table out as a duty grid.
func (p *Pipeline) AssembleGrid(rows []*model.TripRow) (*assemble.Layout, error) {
	if len(rows) == 0 {
		return nil, ErrNoTripRecords
	}

	records := make([]model.TripRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Record())
	}

	layout, err := assemble.Assemble(records, p.Assemble)
	if errors.Is(err, assemble.ErrNoTrips) {
		return nil, ErrNoTripRecords
	}
	return layout, err
}
