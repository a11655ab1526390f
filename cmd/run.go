package main

import (
	"github.com/spf13/cobra"

	"transitops.dev/dutysheet"
	"transitops.dev/dutysheet/downloader"
	"transitops.dev/dutysheet/storage"
)

var runCmd = &cobra.Command{
	Use:   "run <workbook>",
	Short: "Extracts the trip table and lays it out as a duty grid",
	Long: `Extracts the trip table and lays it out as a duty grid.

Both outputs are written next to the workbook, unless overridden.
Nothing is written if either stage fails.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

var (
	runTripsOutput string
	runGridOutput  string
)

func init() {
	runCmd.Flags().StringVarP(&runTripsOutput, "trips-output", "", "", "Trip table destination (default <workbook>_final_schedule.xlsx)")
	runCmd.Flags().StringVarP(&runGridOutput, "grid-output", "", "", "Duty grid file (default <workbook>_schedule.xlsx)")
	runCmd.Flags().StringVarP(&distancesFile, "distances", "", "", "CSV with origin, destination and kms columns")
	runCmd.Flags().BoolVarP(&noPrompt, "no-prompt", "", false, "Don't ask for missing Sch kms")
	rootCmd.AddCommand(runCmd)
}

func run(cmd *cobra.Command, args []string) error {
	p, err := newPipeline()
	if err != nil {
		return err
	}

	workbook := args[0]
	schedule := downloader.BaseName(workbook)

	rows, err := extractTripTable(cmd, p, workbook)
	if err != nil {
		return err
	}

	// The grid is built from the trip table as stored, the same
	// way the grid command would read it back.
	store := storage.NewMemoryStorage()
	w, err := store.GetWriter(schedule)
	if err != nil {
		return err
	}
	if err := storage.WriteTrips(w, rows); err != nil {
		return err
	}
	reader, err := store.GetReader(schedule)
	if err != nil {
		return err
	}
	stored, err := reader.Trips()
	if err != nil {
		return err
	}

	layout, err := p.AssembleGrid(stored)
	if err != nil {
		return err
	}

	tripsOutput := runTripsOutput
	if tripsOutput == "" {
		tripsOutput = dutysheet.OutputPath(workbook, cfg.Output.TripTableSuffix)
	}
	gridOutput := runGridOutput
	if gridOutput == "" {
		gridOutput = dutysheet.OutputPath(workbook, cfg.Output.GridSuffix)
	}

	if err := p.SaveTripTable(tripsOutput, schedule, rows); err != nil {
		return err
	}
	return dutysheet.SaveDutyGrid(gridOutput, layout)
}
