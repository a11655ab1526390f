package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"transitops.dev/dutysheet"
	"transitops.dev/dutysheet/config"
	"transitops.dev/dutysheet/distance"
)

var rootCmd = &cobra.Command{
	Use:               "dutysheet",
	Short:             "Duty schedule converter",
	Long:              "Turns duty sheet workbooks into trip tables, and trip tables into duty grids",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	configPath string
	logLevel   string
	headers    []string

	cfg *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (yaml or json)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringSliceVarP(
		&headers,
		"header",
		"",
		[]string{},
		"HTTP header sent when downloading, on form <key>:<value>",
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	return cfg.Log.SetupLogging(os.Stderr)
}

func parseHeaders(headers []string) (map[string]string, error) {
	parsed := map[string]string{}
	for _, header := range headers {
		parts := strings.SplitN(header, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("'%s' is not on form <key>:<value>", header)
		}
		parsed[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return parsed, nil
}

func newPipeline() (*dutysheet.Pipeline, error) {
	h, err := parseHeaders(headers)
	if err != nil {
		return nil, fmt.Errorf("invalid header: %w", err)
	}

	p := dutysheet.NewPipeline()
	p.Parse = cfg.ParseOptions()
	p.Assemble = cfg.AssembleOptions()
	p.Download = cfg.DownloadOptions()
	p.Headers = h
	p.ClearPostgres = cfg.Store.ClearPostgres
	return p, nil
}

// distanceSource chains the configured distance table with an
// interactive prompt for anything it lacks.
func distanceSource(file string, prompt bool) (distance.Source, error) {
	chain := distance.Chain{}

	if file != "" {
		table, err := distance.OpenTable(file)
		if err != nil {
			return nil, err
		}
		log.Info().Str("file", file).Int("pairs", len(table)).Msg("Loaded distances")
		chain = append(chain, table)
	}

	if prompt {
		p := distance.NewPrompter(os.Stdin, os.Stdout)
		p.Intro = "Enter Scheduled Kilometers (Sch kms) for each Origin -> Destination pair:"
		chain = append(chain, p)
	}

	if len(chain) == 0 {
		return nil, nil
	}
	return chain, nil
}
