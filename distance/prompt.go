package distance

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"transitops.dev/dutysheet/model"
)

// Prompter asks for each distance interactively, repeating the
// question until a valid number is given.
type Prompter struct {
	// Printed once, ahead of the first question.
	Intro string

	in       *bufio.Scanner
	out      io.Writer
	eof      bool
	prompted bool
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

func (p *Prompter) Lookup(pair model.StopPair) (float64, bool, error) {
	if p.eof {
		return 0, false, nil
	}
	if !p.prompted && p.Intro != "" {
		fmt.Fprintln(p.out, p.Intro)
	}
	p.prompted = true

	for {
		fmt.Fprintf(p.out, "  %s -> %s: ", pair.Origin, pair.Destination)

		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return 0, false, fmt.Errorf("reading input: %w", err)
			}
			// Input closed, leave the remaining distances blank
			fmt.Fprintln(p.out)
			log.Warn().Msg("Input closed, remaining Sch kms left blank")
			p.eof = true
			return 0, false, nil
		}

		kms, err := ParseKms(p.in.Text())
		if err == nil {
			return kms, true, nil
		}
		fmt.Fprintln(p.out, "     Invalid input. Please enter a numeric value.")
	}
}
