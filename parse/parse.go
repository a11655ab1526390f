package parse

import (
	"fmt"
	"regexp"

	"transitops.dev/dutysheet/model"
)

const (
	// Runs of blank rows longer than this end a table.
	DefaultBlankLimit = 3

	// Rows carried above the header row: route label and stop names.
	preambleRows = 2

	// Tables shorter than this are noise.
	minTableRows = 4

	// First column holding stop times.
	firstTimeColumn = 3
)

type Options struct {
	Markers    model.Markers
	BlankLimit int
	// Upper bound on tables processed concurrently. Zero means
	// GOMAXPROCS.
	Workers int
}

func DefaultOptions() Options {
	return Options{
		Markers:    model.DefaultMarkers(),
		BlankLimit: DefaultBlankLimit,
	}
}

// Duty identifiers are digits, optionally followed by the evening
// suffix.
type dutyPattern struct {
	suffix   string
	plain    *regexp.Regexp
	suffixed *regexp.Regexp
	any      *regexp.Regexp
}

func newDutyPattern(suffix string) *dutyPattern {
	q := regexp.QuoteMeta(suffix)
	return &dutyPattern{
		suffix:   suffix,
		plain:    regexp.MustCompile(`^\d+$`),
		suffixed: regexp.MustCompile(fmt.Sprintf(`^(\d+)%s$`, q)),
		any:      regexp.MustCompile(fmt.Sprintf(`^\d+(?:%s)?$`, q)),
	}
}

func (p *dutyPattern) IsDuty(s string) bool {
	return p.any.MatchString(s)
}

func (p *dutyPattern) IsPlain(s string) bool {
	return p.plain.MatchString(s)
}

// Evening returns the evening variant of a duty name. Only purely
// numeric names are suffixed.
func (p *dutyPattern) Evening(name string) string {
	if p.IsPlain(name) {
		return name + p.suffix
	}
	return name
}

// Base returns the digits of a plain or suffixed duty name, or "" if
// the name is neither.
func (p *dutyPattern) Base(s string) (string, bool) {
	if p.plain.MatchString(s) {
		return s, true
	}
	if m := p.suffixed.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	return "", false
}
