// Package config loads AnalysisOptions from a YAML file, environment
// variables (prefix LIFETRACKER_), and flags, in that precedence order,
// falling back to the spec's defaults when none are set.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// AnalysisOptions configures one pipeline run.
type AnalysisOptions struct {
	NumBases     int     `mapstructure:"num_bases"`
	MaxIter      int     `mapstructure:"max_iter"`
	LearningRate float64 `mapstructure:"learning_rate"`
	Lambda1      float64 `mapstructure:"lambda1"`
	Lambda2      float64 `mapstructure:"lambda2"`
	MinStrength  float64 `mapstructure:"min_strength"`
	MaxInsights  int     `mapstructure:"max_insights"`

	LogLevel string `mapstructure:"log_level"`
}

// Default returns the spec's default AnalysisOptions.
func Default() AnalysisOptions {
	return AnalysisOptions{
		NumBases:     6,
		MaxIter:      150,
		LearningRate: 0.01,
		Lambda1:      0.01,
		Lambda2:      0.001,
		MinStrength:  0.1,
		MaxInsights:  20,
		LogLevel:     "info",
	}
}

// Load reads AnalysisOptions from an optional YAML file at path (ignored if
// empty or missing), the LIFETRACKER_ environment prefix, and flags, with
// that ascending precedence. It loads a local .env file first, if present,
// so environment overrides can be supplied in development without exporting
// shell variables.
func Load(path string, flags *pflag.FlagSet) (AnalysisOptions, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("LIFETRACKER")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return AnalysisOptions{}, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return AnalysisOptions{}, fmt.Errorf("binding flags: %w", err)
		}
	}

	var opts AnalysisOptions
	if err := v.Unmarshal(&opts); err != nil {
		return AnalysisOptions{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	return opts, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("num_bases", d.NumBases)
	v.SetDefault("max_iter", d.MaxIter)
	v.SetDefault("learning_rate", d.LearningRate)
	v.SetDefault("lambda1", d.Lambda1)
	v.SetDefault("lambda2", d.Lambda2)
	v.SetDefault("min_strength", d.MinStrength)
	v.SetDefault("max_insights", d.MaxInsights)
	v.SetDefault("log_level", d.LogLevel)
}

// Validate reports whether opts is usable, per spec.md's defaults and
// bounds: positive iteration/basis counts, a learning rate in (0, 1], and a
// non-negative regularization and strength threshold.
func (o AnalysisOptions) Validate() error {
	if o.NumBases < 1 || o.NumBases > 9 {
		return fmt.Errorf("num_bases must be in [1,9], got %d", o.NumBases)
	}
	if o.MaxIter < 1 {
		return fmt.Errorf("max_iter must be positive, got %d", o.MaxIter)
	}
	if o.LearningRate <= 0 || o.LearningRate > 1 {
		return fmt.Errorf("learning_rate must be in (0,1], got %f", o.LearningRate)
	}
	if o.Lambda1 < 0 || o.Lambda2 < 0 {
		return fmt.Errorf("lambda1/lambda2 must be non-negative")
	}
	if o.MinStrength < 0 {
		return fmt.Errorf("min_strength must be non-negative, got %f", o.MinStrength)
	}
	if o.MaxInsights < 0 {
		return fmt.Errorf("max_insights must be non-negative, got %d", o.MaxInsights)
	}
	return nil
}
