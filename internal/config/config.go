package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full simulator configuration.
type Config struct {
	Seed       int64            `mapstructure:"seed"`
	Player     PlayerConfig     `mapstructure:"player"`
	Opponent   OpponentConfig   `mapstructure:"opponent"`
	Tensorizer TensorizerConfig `mapstructure:"tensorizer"`
	Replay     ReplayConfig     `mapstructure:"replay"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// PlayerConfig sets up the player side of the encounter.
type PlayerConfig struct {
	MaxHealth int `mapstructure:"max_health"`
	Energy    int `mapstructure:"energy"`
	HandSize  int `mapstructure:"hand_size"`
}

// OpponentConfig sets up the opposing side.
type OpponentConfig struct {
	// FixedHealth pins the opponent's max health; zero rolls it randomly.
	FixedHealth int `mapstructure:"fixed_health"`
	Count       int `mapstructure:"count"`
}

// TensorizerConfig controls state recording.
type TensorizerConfig struct {
	ContextSize          int  `mapstructure:"context_size"`
	IncludeTurnMarker    bool `mapstructure:"include_turn_marker"`
	IncludeActionHistory bool `mapstructure:"include_action_history"`
	ActionHistoryLen     int  `mapstructure:"action_history_len"`
}

// ReplayConfig controls where playthroughs are persisted.
type ReplayConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load reads configuration from the given YAML file, falling back to
// defaults for anything unset. Environment variables prefixed BATTLESIM_
// override file values (e.g. BATTLESIM_REPLAY_DIR). An empty path loads
// defaults only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BATTLESIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the simulator cannot run with.
func (c *Config) Validate() error {
	if c.Player.MaxHealth <= 0 {
		return fmt.Errorf("config: player.max_health must be positive, got %d", c.Player.MaxHealth)
	}
	if c.Player.Energy < 0 {
		return fmt.Errorf("config: player.energy must be non-negative, got %d", c.Player.Energy)
	}
	if c.Opponent.Count <= 0 {
		return fmt.Errorf("config: opponent.count must be positive, got %d", c.Opponent.Count)
	}
	if c.Tensorizer.ContextSize <= 0 {
		return fmt.Errorf("config: tensorizer.context_size must be positive, got %d", c.Tensorizer.ContextSize)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("seed", 42)
	v.SetDefault("player.max_health", 80)
	v.SetDefault("player.energy", 3)
	v.SetDefault("player.hand_size", 5)
	v.SetDefault("opponent.fixed_health", 45)
	v.SetDefault("opponent.count", 1)
	v.SetDefault("tensorizer.context_size", 128)
	v.SetDefault("tensorizer.include_turn_marker", true)
	v.SetDefault("tensorizer.include_action_history", false)
	v.SetDefault("tensorizer.action_history_len", 8)
	v.SetDefault("replay.dir", "playthrough_data")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
}
