package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"transitops.dev/dutysheet"
)

var schedulesCmd = &cobra.Command{
	Use:   "schedules <store>",
	Short: "Lists the trip tables held in a trip store",
	Args:  cobra.ExactArgs(1),
	RunE:  schedules,
}

func init() {
	rootCmd.AddCommand(schedulesCmd)
}

func schedules(cmd *cobra.Command, args []string) error {
	loc, ok := dutysheet.ParseStoreLocation(args[0])
	if !ok {
		return fmt.Errorf("'%s' is not a sqlite:// or postgres:// location", args[0])
	}

	p, err := newPipeline()
	if err != nil {
		return err
	}
	p.ClearPostgres = false

	s, err := p.OpenStore(loc)
	if err != nil {
		return err
	}
	defer s.Close()

	schedules, err := s.ListSchedules()
	if err != nil {
		return err
	}

	for _, md := range schedules {
		fmt.Printf("%s: %d trips\n", md.Name, md.Trips)
	}

	return nil
}
