package distance

import (
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spkg/bom"

	"transitops.dev/dutysheet/model"
)

type DistanceCSV struct {
	Origin      string `csv:"origin"`
	Destination string `csv:"destination"`
	Kms         string `csv:"kms"`
}

// A fixed lookup table of distances, typically loaded from CSV.
type Table map[model.StopPair]float64

// LoadTable reads a CSV file with origin, destination and kms
// columns.
func LoadTable(r io.Reader) (Table, error) {
	records := []*DistanceCSV{}
	if err := gocsv.UnmarshalCSV(gocsv.LazyCSVReader(bom.NewReader(r)), &records); err != nil {
		return nil, errors.Wrap(err, "unmarshaling distances")
	}

	table := Table{}
	for i, rec := range records {
		kms, err := ParseKms(rec.Kms)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", i+2)
		}
		pair := model.StopPair{
			Origin:      strings.TrimSpace(rec.Origin),
			Destination: strings.TrimSpace(rec.Destination),
		}
		table[pair] = kms
	}
	return table, nil
}

func OpenTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	return LoadTable(f)
}

func (t Table) Lookup(pair model.StopPair) (float64, bool, error) {
	kms, found := t[pair]
	return kms, found, nil
}
