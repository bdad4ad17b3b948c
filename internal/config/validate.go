package config

import (
	"fmt"
	"strings"

	"github.com/jorge-barreto/srcparam/internal/param"
)

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

const (
	DefaultOutputSuffix    = "_modified"
	DefaultChangelogSuffix = "_changelog"
	DefaultLogLevel        = "warn"
)

// Validate checks the config for errors and sets defaults.
func Validate(cfg *Config) error {
	def := param.DefaultLimits()
	l := &cfg.Limits

	if l.ToolSpeedMax < 0 {
		return fmt.Errorf("config: limits: 'tool-speed-max' must be positive, got %g", l.ToolSpeedMax)
	}
	if l.ToolSpeedMax == 0 {
		l.ToolSpeedMax = def.ToolSpeedMax
	}
	if l.FeedRateMax < 0 {
		return fmt.Errorf("config: limits: 'feed-rate-max' must be positive, got %g", l.FeedRateMax)
	}
	if l.FeedRateMax == 0 {
		l.FeedRateMax = def.FeedRateMax
	}
	if l.FeedRateConfirmAbove < 0 {
		return fmt.Errorf("config: limits: 'feed-rate-confirm-above' must be positive, got %g", l.FeedRateConfirmAbove)
	}
	if l.FeedRateConfirmAbove == 0 {
		l.FeedRateConfirmAbove = def.FeedRateConfirmAbove
	}
	if l.FeedRateConfirmAbove > l.FeedRateMax {
		return fmt.Errorf("config: limits: 'feed-rate-confirm-above' (%g) exceeds 'feed-rate-max' (%g)", l.FeedRateConfirmAbove, l.FeedRateMax)
	}
	if l.CoolingMax < 0 {
		return fmt.Errorf("config: limits: 'cooling-max' must be positive, got %d", l.CoolingMax)
	}
	if l.CoolingMax == 0 {
		l.CoolingMax = def.CoolingMax
	}

	if cfg.Trigger.Distance < 0 {
		return fmt.Errorf("config: trigger: 'distance' must not be negative, got %g", cfg.Trigger.Distance)
	}

	if cfg.OutputSuffix == "" {
		cfg.OutputSuffix = DefaultOutputSuffix
	}
	if cfg.ChangelogSuffix == "" {
		cfg.ChangelogSuffix = DefaultChangelogSuffix
	}
	for name, v := range map[string]string{"output-suffix": cfg.OutputSuffix, "changelog-suffix": cfg.ChangelogSuffix} {
		if strings.ContainsAny(v, `/\`) {
			return fmt.Errorf("config: '%s' must not contain a path separator, got %q", name, v)
		}
	}
	if cfg.OutputSuffix == cfg.ChangelogSuffix {
		return fmt.Errorf("config: 'output-suffix' and 'changelog-suffix' must differ")
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("config: log: unknown level %q (must be debug, info, warn, or error)", cfg.Log.Level)
	}
	return nil
}
