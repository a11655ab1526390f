package distance

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"transitops.dev/dutysheet/model"
)

var ErrInvalidInput = errors.New("invalid input")

// Provides scheduled kilometres between an origin and a destination.
type Source interface {
	// Lookup returns the distance for pair. found is false when the
	// source has no value for it.
	Lookup(pair model.StopPair) (kms float64, found bool, err error)
}

// ParseKms parses a non-negative distance.
func ParseKms(s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, errors.Wrapf(ErrInvalidInput, "'%s' is not a distance", s)
	}
	return v, nil
}

// Chain consults each source in order. The first source with a value
// wins.
type Chain []Source

func (c Chain) Lookup(pair model.StopPair) (float64, bool, error) {
	for _, src := range c {
		kms, found, err := src.Lookup(pair)
		if err != nil {
			return 0, false, err
		}
		if found {
			return kms, true, nil
		}
	}
	return 0, false, nil
}

// Collect looks up every pair. Pairs without a value are left out of
// the result.
func Collect(src Source, pairs []model.StopPair) (map[model.StopPair]float64, error) {
	out := map[model.StopPair]float64{}
	for _, pair := range pairs {
		kms, found, err := src.Lookup(pair)
		if err != nil {
			return nil, errors.Wrapf(err, "looking up %s -> %s", pair.Origin, pair.Destination)
		}
		if !found {
			log.Debug().
				Str("origin", pair.Origin).
				Str("destination", pair.Destination).
				Msg("No Sch kms")
			continue
		}
		out[pair] = kms
	}
	return out, nil
}
