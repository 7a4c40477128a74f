// Package config loads service configuration from defaults, an optional
// YAML file, and SWINGCOACH_* environment overrides, in that precedence
// order.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	ListenAddr string `mapstructure:"listen_addr"`
	LogLevel   string `mapstructure:"log_level"`

	Detector DetectorConfig `mapstructure:"detector"`
	Session  SessionConfig  `mapstructure:"session"`
	Coach    CoachConfig    `mapstructure:"coach"`
}

// DetectorConfig mirrors the detector trigger tunables.
type DetectorConfig struct {
	VisibilityMin   float64 `mapstructure:"visibility_min"`
	WindowHorizonMs int64   `mapstructure:"window_horizon_ms"`
	MinWindowFrames int     `mapstructure:"min_window_frames"`
	MinPeakSpeed    float64 `mapstructure:"min_peak_speed"`
	RiseTimeMinMs   int64   `mapstructure:"rise_time_min_ms"`
	RiseTimeMaxMs   int64   `mapstructure:"rise_time_max_ms"`
	MinRotationDeg  float64 `mapstructure:"min_rotation_deg"`
	CooldownMs      int64   `mapstructure:"cooldown_ms"`
}

// SessionConfig mirrors the session controller tunables.
type SessionConfig struct {
	FeedbackLockoutMs int64         `mapstructure:"feedback_lockout_ms"`
	CommentaryTimeout time.Duration `mapstructure:"commentary_timeout"`
}

// CoachConfig configures the commentary provider. An empty API key selects
// the static template provider.
type CoachConfig struct {
	OpenAIKey string `mapstructure:"openai_key"`
}

// Load reads configuration. configFile may be empty, in which case only
// defaults and environment variables apply.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", ":8090")
	v.SetDefault("log_level", "info")

	v.SetDefault("detector.visibility_min", 0.3)
	v.SetDefault("detector.window_horizon_ms", 400)
	v.SetDefault("detector.min_window_frames", 4)
	v.SetDefault("detector.min_peak_speed", 0.75)
	v.SetDefault("detector.rise_time_min_ms", 60)
	v.SetDefault("detector.rise_time_max_ms", 250)
	v.SetDefault("detector.min_rotation_deg", 40.0)
	v.SetDefault("detector.cooldown_ms", 2000)

	v.SetDefault("session.feedback_lockout_ms", 4000)
	v.SetDefault("session.commentary_timeout", 15*time.Second)

	v.SetDefault("coach.openai_key", "")

	v.SetEnvPrefix("SWINGCOACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
