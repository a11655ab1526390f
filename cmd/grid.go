package main

import (
	"github.com/spf13/cobra"

	"transitops.dev/dutysheet"
)

var gridCmd = &cobra.Command{
	Use:   "grid <trip-table>",
	Short: "Lays a trip table out as a duty grid",
	Long: `Lays a trip table out as a duty grid.

The trip table may be an .xlsx or .csv file (local or http(s)), or a
trip store given as sqlite://<path>#<schedule> or
postgres://<dsn>#<schedule>. The schedule may be left out when the
store holds only one.`,
	Args: cobra.ExactArgs(1),
	RunE: grid,
}

var gridOutput string

func init() {
	gridCmd.Flags().StringVarP(&gridOutput, "output", "o", "", "Duty grid file (default <trip-table>_schedule.xlsx)")
	rootCmd.AddCommand(gridCmd)
}

func grid(cmd *cobra.Command, args []string) error {
	p, err := newPipeline()
	if err != nil {
		return err
	}

	source := args[0]
	rows, err := p.LoadTripTable(cmd.Context(), source)
	if err != nil {
		return err
	}

	layout, err := p.AssembleGrid(rows)
	if err != nil {
		return err
	}

	output := gridOutput
	if output == "" {
		output = dutysheet.OutputPath(source, cfg.Output.GridSuffix)
	}

	return dutysheet.SaveDutyGrid(output, layout)
}
