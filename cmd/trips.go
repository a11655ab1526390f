package main

import (
	"github.com/spf13/cobra"

	"transitops.dev/dutysheet"
	"transitops.dev/dutysheet/downloader"
	"transitops.dev/dutysheet/model"
)

var tripsCmd = &cobra.Command{
	Use:   "trips <workbook>",
	Short: "Extracts the trip table from a duty sheet workbook",
	Long: `Extracts the trip table from a duty sheet workbook.

The workbook may be a local .xlsx file or an http(s) URL. The trip
table is written to an .xlsx or .csv file, or to a trip store given as
sqlite://<path>#<schedule> or postgres://<dsn>#<schedule>.`,
	Args: cobra.ExactArgs(1),
	RunE: trips,
}

var (
	tripsOutput   string
	distancesFile string
	noPrompt      bool
)

func init() {
	tripsCmd.Flags().StringVarP(&tripsOutput, "output", "o", "", "Trip table destination (default <workbook>_final_schedule.xlsx)")
	tripsCmd.Flags().StringVarP(&distancesFile, "distances", "", "", "CSV with origin, destination and kms columns")
	tripsCmd.Flags().BoolVarP(&noPrompt, "no-prompt", "", false, "Don't ask for missing Sch kms")
	rootCmd.AddCommand(tripsCmd)
}

// extractTripTable runs the first stage, leaving output to the caller.
func extractTripTable(cmd *cobra.Command, p *dutysheet.Pipeline, workbook string) ([]*model.TripRow, error) {
	grids, err := p.LoadWorkbook(cmd.Context(), workbook)
	if err != nil {
		return nil, err
	}

	extracted, err := p.ExtractTrips(grids)
	if err != nil {
		return nil, err
	}

	file := cfg.Distances.File
	if distancesFile != "" {
		file = distancesFile
	}
	p.Distances, err = distanceSource(file, cfg.Distances.Prompt && !noPrompt)
	if err != nil {
		return nil, err
	}

	return p.BuildTripTable(extracted)
}

func trips(cmd *cobra.Command, args []string) error {
	p, err := newPipeline()
	if err != nil {
		return err
	}

	workbook := args[0]
	rows, err := extractTripTable(cmd, p, workbook)
	if err != nil {
		return err
	}

	output := tripsOutput
	if output == "" {
		output = dutysheet.OutputPath(workbook, cfg.Output.TripTableSuffix)
	}

	return p.SaveTripTable(output, downloader.BaseName(workbook), rows)
}
