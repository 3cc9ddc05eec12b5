package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "callcast/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	HistoricPath string `yaml:"historic_path" envconfig:"HISTORIC_PATH" validate:"required"`
	OutputDir    string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	OutputFormat string `yaml:"output_format" envconfig:"OUTPUT_FORMAT" validate:"oneof=parquet csv"`
	Workers      int    `yaml:"workers" envconfig:"WORKERS" validate:"min=1"`

	Features  FeaturesConfig  `yaml:"features" envconfig:"FEATURES"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Warehouse WarehouseConfig `yaml:"warehouse" envconfig:"WAREHOUSE"`
}

// FeaturesConfig controls the feature grid and window parameters
type FeaturesConfig struct {
	Freq           string `yaml:"freq" envconfig:"FREQ" validate:"required"`
	LagList        []int  `yaml:"lag_list" envconfig:"LAG_LIST" validate:"required,min=1,dive,min=1"`
	RollingWindows []int  `yaml:"rolling_windows" envconfig:"ROLLING_WINDOWS" validate:"required,min=1,dive,min=1"`
	EMASpans       []int  `yaml:"ema_spans" envconfig:"EMA_SPANS" validate:"dive,min=1"`
	PrevDayShift   int    `yaml:"prev_day_shift" envconfig:"PREV_DAY_SHIFT" validate:"min=0"`
	HolidayRegion  string `yaml:"holiday_region" envconfig:"HOLIDAY_REGION"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// ServerConfig contains HTTP server configuration for featuresd
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     Duration        `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    Duration        `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	ShutdownTimeout Duration        `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration for build triggers
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// WarehouseConfig selects the optional downstream executor
type WarehouseConfig struct {
	Driver    string `yaml:"driver" envconfig:"DRIVER"`
	DSN       string `yaml:"dsn" envconfig:"DSN"`
	Table     string `yaml:"table" envconfig:"TABLE"`
	BatchSize int    `yaml:"batch_size" envconfig:"BATCH_SIZE"`
}

// Duration wraps time.Duration so YAML documents can carry values like
// "15s"; yaml.v2 cannot decode those into time.Duration directly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := unmarshal(&n); err != nil {
		return fmt.Errorf("duration must be a string or integer nanoseconds")
	}
	*d = Duration(n)
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler for envconfig
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration defaults, mirroring the historic
// pipeline parameters.
func Default() *Config {
	return &Config{
		HistoricPath: "data/historic",
		OutputDir:    "data/output",
		OutputFormat: "parquet",
		Workers:      1,
		Features: FeaturesConfig{
			Freq:           "5m",
			LagList:        []int{1, 2, 3, 6, 12},
			RollingWindows: []int{12, 36, 288},
			EMASpans:       []int{},
			PrevDayShift:   0,
			HolidayRegion:  "CO",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/callcast.log",
		},
		Server: ServerConfig{
			Port:            8090,
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(10 * time.Minute),
			ShutdownTimeout: Duration(30 * time.Second),
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     1,
				Burst:   2,
			},
		},
		Warehouse: WarehouseConfig{
			Table:     "api_call_features",
			BatchSize: 500,
		},
	}
}

// Load loads configuration from the YAML file at path and CALLCAST_*
// environment variables. Environment values override file values; file
// values override defaults. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("cannot read config file %s", path), err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("cannot parse config file %s", path), err)
		}
	}

	if err := envconfig.Process("CALLCAST", cfg); err != nil {
		return nil, apperrors.NewConfigError("cannot apply environment overrides", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration against struct tags and cross-field
// rules that tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}

	if _, err := c.Features.FreqDuration(); err != nil {
		return apperrors.NewConfigError(fmt.Sprintf("invalid features.freq %q", c.Features.Freq), err)
	}

	if c.Warehouse.DSN != "" {
		switch c.Warehouse.Driver {
		case "postgres", "mysql":
		default:
			return apperrors.NewConfigError(
				fmt.Sprintf("warehouse.driver must be postgres or mysql, got %q", c.Warehouse.Driver), nil)
		}
	}

	return nil
}

// FreqDuration parses the grid frequency. Both Go duration strings ("5m")
// and the historic pandas aliases ("5min", "1H", "1D") are accepted.
func (f FeaturesConfig) FreqDuration() (time.Duration, error) {
	s := strings.TrimSpace(f.Freq)
	if s == "" {
		return 0, fmt.Errorf("empty frequency")
	}

	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("frequency must be positive, got %s", d)
		}
		return d, nil
	}

	// pandas offset aliases used by the historic configs
	d, err := parsePandasFreq(s)
	if err != nil {
		return 0, fmt.Errorf("unrecognized frequency %q", f.Freq)
	}
	if d <= 0 {
		return 0, fmt.Errorf("frequency must be positive, got %s", d)
	}
	return d, nil
}

func parsePandasFreq(s string) (time.Duration, error) {
	units := []struct {
		suffix string
		unit   time.Duration
	}{
		{"min", time.Minute},
		{"T", time.Minute},
		{"H", time.Hour},
		{"D", 24 * time.Hour},
		{"S", time.Second},
	}
	for _, u := range units {
		if !strings.HasSuffix(s, u.suffix) {
			continue
		}
		digits := strings.TrimSuffix(s, u.suffix)
		if digits == "" {
			return u.unit, nil
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return 0, fmt.Errorf("invalid frequency %q", s)
		}
		return time.Duration(n) * u.unit, nil
	}
	return 0, fmt.Errorf("invalid frequency %q", s)
}

// PeriodsPerDay returns how many grid periods one day spans, honoring the
// prev_day_shift override when set.
func (f FeaturesConfig) PeriodsPerDay() (int, error) {
	if f.PrevDayShift > 0 {
		return f.PrevDayShift, nil
	}
	freq, err := f.FreqDuration()
	if err != nil {
		return 0, err
	}
	periods := int(24 * time.Hour / freq)
	if periods < 1 {
		periods = 1
	}
	return periods, nil
}
