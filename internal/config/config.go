package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jorge-barreto/srcparam/internal/binder"
	"github.com/jorge-barreto/srcparam/internal/param"
)

type Limits struct {
	ToolSpeedMax         float64 `yaml:"tool-speed-max"`
	FeedRateMax          float64 `yaml:"feed-rate-max"`
	FeedRateConfirmAbove float64 `yaml:"feed-rate-confirm-above"`
	CoolingMax           int64   `yaml:"cooling-max"`
}

// Trigger is the condition written in front of inserted TOOL_RPM and ACT_DRIVE statements.
type Trigger struct {
	Distance float64 `yaml:"distance"`
	Delay    float64 `yaml:"delay"`
}

type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Config struct {
	Limits          Limits  `yaml:"limits"`
	Trigger         Trigger `yaml:"trigger"`
	OutputSuffix    string  `yaml:"output-suffix"`
	ChangelogSuffix string  `yaml:"changelog-suffix"`
	Log             Log     `yaml:"log"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	// Validate only fills defaults on an empty config.
	_ = Validate(cfg)
	return cfg
}

// Load reads a YAML config file and returns a validated Config. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParamLimits returns the value ceilings for the editing session.
func (c *Config) ParamLimits() param.Limits {
	return param.Limits{
		ToolSpeedMax:         c.Limits.ToolSpeedMax,
		FeedRateMax:          c.Limits.FeedRateMax,
		FeedRateConfirmAbove: c.Limits.FeedRateConfirmAbove,
		CoolingMax:           c.Limits.CoolingMax,
	}
}

// Template returns the trigger condition for inserted trigger statements.
func (c *Config) Template() binder.Template {
	return binder.Template{Distance: c.Trigger.Distance, Delay: c.Trigger.Delay}
}
