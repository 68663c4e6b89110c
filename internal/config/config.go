// Package config loads the application configuration from a YAML file and
// GEOCONSENSUS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/danielpatrickdp/geometric-consensus/internal/consensus"
	"github.com/danielpatrickdp/geometric-consensus/internal/forms"
	"github.com/danielpatrickdp/geometric-consensus/internal/partition"
)

// StrategyAuto selects the full escalation chain.
const StrategyAuto = "AUTO"

var validate = validator.New()

// #region types
// Config holds application configuration.
type Config struct {
	Consensus ConsensusConfig `mapstructure:"consensus"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Replay    ReplayConfig    `mapstructure:"replay"`
	Partition PartitionConfig `mapstructure:"partition"`
	Log       LogConfig       `mapstructure:"log"`
}

// ConsensusConfig holds engine settings.
type ConsensusConfig struct {
	Type      string        `mapstructure:"type" validate:"required,oneof=TETRAHEDRON CUBE OCTAHEDRON"`
	MaxSteps  int           `mapstructure:"max_steps" validate:"gte=1,lte=14"`
	Threshold *float64      `mapstructure:"threshold" validate:"omitempty,gte=0,lte=1"` // nil means canonical
	Timeout   time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// LedgerConfig holds sqlite settings. An empty path disables the ledger.
type LedgerConfig struct {
	Path string `mapstructure:"path"`
}

// MetricsConfig holds the Prometheus textfile target. Empty disables it.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// ReplayConfig holds batch settings.
type ReplayConfig struct {
	Workers int `mapstructure:"workers" validate:"gte=1,lte=256"`
}

// PartitionConfig holds the recovery strategy, or AUTO for escalation.
type PartitionConfig struct {
	Strategy string `mapstructure:"strategy" validate:"required,oneof=AUTO DUALITY GEOMETRIC_DECOMPOSITION MANUAL"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}
// #endregion types

// #region load
// Load reads path (or, when empty, geoconsensus.yaml from the working
// directory or ~/.config/geoconsensus) and applies env overrides such as
// GEOCONSENSUS_CONSENSUS_TYPE. A missing default file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("consensus.type", string(consensus.Cube))
	v.SetDefault("consensus.max_steps", forms.MaxSteps)
	v.SetDefault("consensus.timeout", "30s")
	v.SetDefault("ledger.path", "")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("replay.workers", 4)
	v.SetDefault("partition.strategy", StrategyAuto)
	v.SetDefault("log.level", "info")

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("geoconsensus")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "geoconsensus"))
		}
	}

	v.SetEnvPrefix("GEOCONSENSUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// threshold has no default, so AutomaticEnv alone would not surface it
	_ = v.BindEnv("consensus.threshold")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) normalize() {
	c.Consensus.Type = strings.ToUpper(strings.TrimSpace(c.Consensus.Type))
	c.Partition.Strategy = strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(c.Partition.Strategy)), "-", "_")
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
}

// Validate checks the struct tags.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
// #endregion load

// #region accessors
// EngineConfig builds a consensus.Config, using the canonical threshold for
// the type when none is configured.
func (c Config) EngineConfig() (consensus.Config, error) {
	t, err := consensus.ParseType(c.Consensus.Type)
	if err != nil {
		return consensus.Config{}, err
	}
	cfg := consensus.DefaultConfig(t)
	cfg.MaxSteps = c.Consensus.MaxSteps
	cfg.Timeout = c.Consensus.Timeout
	if c.Consensus.Threshold != nil {
		cfg.Threshold = *c.Consensus.Threshold
	}
	return cfg, cfg.Validate()
}

// RecoveryChain returns the strategies to try, in order.
func (c Config) RecoveryChain() ([]partition.Strategy, error) {
	if c.Partition.Strategy == StrategyAuto {
		return partition.Strategies(), nil
	}
	s, err := partition.ParseStrategy(c.Partition.Strategy)
	if err != nil {
		return nil, err
	}
	return []partition.Strategy{s}, nil
}

// SlogLevel maps log.level onto slog.
func (c Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
// #endregion accessors
