package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"transitops.dev/dutysheet/assemble"
	"transitops.dev/dutysheet/downloader"
	"transitops.dev/dutysheet/model"
	"transitops.dev/dutysheet/parse"
)

const EnvPrefix = "DUTYSHEET_"

type Config struct {
	Markers   MarkersConfig   `koanf:"markers"`
	Parse     ParseConfig     `koanf:"parse"`
	Grid      GridConfig      `koanf:"grid"`
	Output    OutputConfig    `koanf:"output"`
	Store     StoreConfig     `koanf:"store"`
	Log       LogConfig       `koanf:"log"`
	Distances DistancesConfig `koanf:"distances"`
	Download  DownloadConfig  `koanf:"download"`
}

// Words the duty sheet parser keys on.
type MarkersConfig struct {
	DutyColumn    string `koanf:"duty_column" validate:"required"`
	Arrival       string `koanf:"arrival" validate:"required"`
	Evening       string `koanf:"evening" validate:"required"`
	EveningSuffix string `koanf:"evening_suffix" validate:"required,alphanum"`
}

type ParseConfig struct {
	BlankLimit int `koanf:"blank_limit" validate:"gte=0"`
	Workers    int `koanf:"workers" validate:"gte=1"`
}

type GridConfig struct {
	SignOffsetMinutes int    `koanf:"sign_offset_minutes" validate:"gte=0,lte=720"`
	Separator         string `koanf:"separator" validate:"required"`
}

// Suffixes appended to the input's base name to name outputs.
type OutputConfig struct {
	TripTableSuffix string `koanf:"trip_table_suffix" validate:"required"`
	GridSuffix      string `koanf:"grid_suffix" validate:"required"`
}

type StoreConfig struct {
	// Drop and recreate tables when opening postgres. For testing.
	ClearPostgres bool `koanf:"clear_postgres"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=auto console json"`
}

type DistancesConfig struct {
	// CSV file with origin, destination and kms columns.
	File string `koanf:"file"`
	// Ask for distances missing from File.
	Prompt bool `koanf:"prompt"`
}

type DownloadConfig struct {
	TimeoutSeconds int `koanf:"timeout_seconds" validate:"gte=1"`
	MaxSizeMB      int `koanf:"max_size_mb" validate:"gte=0"`
}

func Default() Config {
	markers := model.DefaultMarkers()
	return Config{
		Markers: MarkersConfig{
			DutyColumn:    markers.DutyColumn,
			Arrival:       markers.Arrival,
			Evening:       markers.Evening,
			EveningSuffix: markers.EveningSuffix,
		},
		Parse: ParseConfig{
			BlankLimit: parse.DefaultBlankLimit,
			Workers:    runtime.GOMAXPROCS(0),
		},
		Grid: GridConfig{
			SignOffsetMinutes: int(assemble.DefaultSignOffset / time.Minute),
			Separator:         assemble.DefaultSeparator,
		},
		Output: OutputConfig{
			TripTableSuffix: "_final_schedule.xlsx",
			GridSuffix:      "_schedule.xlsx",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		Distances: DistancesConfig{
			Prompt: true,
		},
		Download: DownloadConfig{
			TimeoutSeconds: int(downloader.DefaultTimeout / time.Second),
			MaxSizeMB:      100,
		},
	}
}

// Load reads the configuration file at path, if any, on top of the
// defaults. Environment variables prefixed DUTYSHEET_ override both,
// with __ separating nested keys, e.g. DUTYSHEET_PARSE__BLANK_LIMIT.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) MarkerSet() model.Markers {
	return model.Markers{
		DutyColumn:    c.Markers.DutyColumn,
		Arrival:       c.Markers.Arrival,
		Evening:       c.Markers.Evening,
		EveningSuffix: c.Markers.EveningSuffix,
	}
}

func (c *Config) ParseOptions() parse.Options {
	return parse.Options{
		Markers:    c.MarkerSet(),
		BlankLimit: c.Parse.BlankLimit,
		Workers:    c.Parse.Workers,
	}
}

func (c *Config) AssembleOptions() assemble.Options {
	return assemble.Options{
		EveningSuffix: c.Markers.EveningSuffix,
		SignOffset:    time.Duration(c.Grid.SignOffsetMinutes) * time.Minute,
		Separator:     c.Grid.Separator,
	}
}

func (c *Config) DownloadOptions() downloader.GetOptions {
	return downloader.GetOptions{
		Timeout: time.Duration(c.Download.TimeoutSeconds) * time.Second,
		MaxSize: c.Download.MaxSizeMB << 20,
	}
}
