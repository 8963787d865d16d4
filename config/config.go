package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/uyouii/doy-percentiles/common"
	"github.com/uyouii/doy-percentiles/quantile"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWindowWidth = 5
	DefaultEnvPrefix   = "DOYPER"
)

// Config describes one percentile threshold computation.
type Config struct {
	Percentiles   []float64 `yaml:"percentiles" envconfig:"PERCENTILES"`
	WindowWidth   int       `yaml:"window_width" envconfig:"WINDOW_WIDTH"`
	OnlyLeapYears bool      `yaml:"only_leap_years" envconfig:"ONLY_LEAP_YEARS"`
	IgnoreFeb29th bool      `yaml:"ignore_feb29th" envconfig:"IGNORE_FEB29TH"`
	Interpolation string    `yaml:"interpolation" envconfig:"INTERPOLATION"`

	// Bootstrap is honoured only when the studied years overlap the reference
	// period on more than one year without being the reference period.
	Bootstrap    bool  `yaml:"bootstrap" envconfig:"BOOTSTRAP"`
	StudiedYears []int `yaml:"studied_years" envconfig:"STUDIED_YEARS"`

	// WetDayThreshold, when set, drops values below it (precipitation).
	WetDayThreshold *float64 `yaml:"wet_day_threshold,omitempty" envconfig:"WET_DAY_THRESHOLD"`

	// Workers bounds the calendar days computed in parallel, 0 means NumCPU.
	Workers int `yaml:"workers" envconfig:"WORKERS"`
}

func Default() *Config {
	return &Config{
		WindowWidth:   DefaultWindowWidth,
		Interpolation: quantile.DefaultInterpolationName,
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with the environment variables set under prefix,
// e.g. DOYPER_WINDOW_WIDTH. Unset variables leave cfg untouched.
func ApplyEnv(prefix string, cfg *Config) error {
	if err := envconfig.Process(prefix, cfg); err != nil {
		return fmt.Errorf("read environment %s: %w", prefix, err)
	}
	return nil
}

// Validate checks everything that does not depend on the calendar of the data.
func (c *Config) Validate() error {
	var errs error
	if c.WindowWidth < 1 || c.WindowWidth%2 == 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: %d must be a positive odd number",
			common.ErrorInvalidWindowWidth, c.WindowWidth))
	}
	if err := quantile.CheckPercentiles(c.Percentiles); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := quantile.Lookup(c.Interpolation); err != nil {
		errs = multierr.Append(errs, err)
	}
	if c.Workers < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: workers %d", common.ErrorInvalidValue, c.Workers))
	}
	if c.Bootstrap && len(c.StudiedYears) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: bootstrap needs the studied years",
			common.ErrorInvalidValue))
	}
	return errs
}
