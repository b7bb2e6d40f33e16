package racewatch

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// RaceMethod selects how S3 computes a race's horizon (§4.3.3, §6.5).
type RaceMethod string

const (
	RaceMethod_InfoHorizon  RaceMethod = "Info_Horizon"
	RaceMethod_FixedHorizon RaceMethod = "Fixed_Horizon"
)

// RaceParams holds the race-detector's run-level tuning knobs (§6.5).
type RaceParams struct {
	Method RaceMethod `mapstructure:"method"`

	MinReactionTime   time.Duration `mapstructure:"min_reaction_time"`
	InfoHorUpperBound time.Duration `mapstructure:"info_hor_upper_bound"`
	LenFixedHor       time.Duration `mapstructure:"len_fixed_hor"`

	MinNumParticipants int `mapstructure:"min_num_participants"`
	MinNumTakes        int `mapstructure:"min_num_takes"`
	MinNumCancels      int `mapstructure:"min_num_cancels"`

	StrictFail    bool `mapstructure:"strict_fail"`
	StrictSuccess bool `mapstructure:"strict_success"`
}

// Paths holds the filesystem roots a symbol-day's run reads from and
// writes to (§6.5). Every path is a directory; `internal/pipeline` derives
// the per-(date,symbol) filenames beneath them.
type Paths struct {
	DataRoot         string `mapstructure:"data_root"`
	ReferenceRoot    string `mapstructure:"reference_root"`
	LogRoot          string `mapstructure:"log_root"`
	IntermediateRoot string `mapstructure:"intermediate_root"`
	OutputRoot       string `mapstructure:"output_root"`
}

// Config is racewatch's run-level configuration (§6.5): one value, loaded
// once at startup and passed explicitly into `pipeline.Process` — there is
// no global mutable configuration state (DESIGN NOTES).
type Config struct {
	MaxDecScale int `mapstructure:"max_dec_scale"`
	NumWorkers  int `mapstructure:"num_workers"`

	Paths Paths      `mapstructure:"paths"`
	Race  RaceParams `mapstructure:"race"`
}

// PriceFactor derives the run's price factor from MaxDecScale (§3.1).
func (c Config) PriceFactor() PriceFactor {
	return NewPriceFactor(c.MaxDecScale)
}

// defaults applied before a config file or environment overrides are read,
// mirroring the teacher's pattern of package-level flag defaults.
func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("max_dec_scale", 4)
	v.SetDefault("num_workers", 4)
	v.SetDefault("race.method", string(RaceMethod_InfoHorizon))
	v.SetDefault("race.min_reaction_time", "1ms")
	v.SetDefault("race.info_hor_upper_bound", "5ms")
	v.SetDefault("race.len_fixed_hor", "2ms")
	v.SetDefault("race.min_num_participants", 2)
	v.SetDefault("race.min_num_takes", 1)
	v.SetDefault("race.min_num_cancels", 1)
	v.SetDefault("race.strict_fail", false)
	v.SetDefault("race.strict_success", false)
}

// LoadConfig reads run-level configuration the way 0xtitan6-polymarket-mm
// loads its bot config: viper binds a YAML file plus "RACEWATCH_"-prefixed
// environment overrides into a Config, validated once before use. An empty
// path loads defaults plus environment only (no file required).
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setConfigDefaults(v)
	v.SetEnvPrefix("RACEWATCH")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("racewatch: reading config %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("racewatch: decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants LoadConfig's caller needs before a run
// starts (§6.5's required-per-method fields).
func (c Config) Validate() error {
	if c.MaxDecScale < 0 {
		return fmt.Errorf("racewatch: max_dec_scale must be >= 0, got %d", c.MaxDecScale)
	}
	if c.NumWorkers < 1 {
		return fmt.Errorf("racewatch: num_workers must be >= 1, got %d", c.NumWorkers)
	}
	switch c.Race.Method {
	case RaceMethod_InfoHorizon:
		if c.Race.MinReactionTime <= 0 || c.Race.InfoHorUpperBound <= 0 {
			return fmt.Errorf("racewatch: Info_Horizon requires min_reaction_time and info_hor_upper_bound > 0")
		}
	case RaceMethod_FixedHorizon:
		if c.Race.LenFixedHor <= 0 {
			return fmt.Errorf("racewatch: Fixed_Horizon requires len_fixed_hor > 0")
		}
	default:
		return fmt.Errorf("racewatch: unknown race method %q", c.Race.Method)
	}
	if c.Race.MinNumParticipants < 1 || c.Race.MinNumTakes < 0 || c.Race.MinNumCancels < 0 {
		return fmt.Errorf("racewatch: race thresholds must be non-negative (participants >= 1)")
	}
	return nil
}
