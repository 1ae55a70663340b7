package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	Offline OfflineConfig `mapstructure:"offline"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// EnvPrefix is the prefix of environment overrides (DYSON_GAME_TICK_RATE, ...)
const EnvPrefix = "DYSON"

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (dyson.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()
	registerDefaults(v, Default())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("dyson")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.dyson")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// registerDefaults makes every key known to viper so env overrides bind
func registerDefaults(v *viper.Viper, d Config) {
	v.SetDefault("game.tick_rate", d.Game.TickRate)
	v.SetDefault("game.starting_resources.energy", d.Game.StartingResources.Energy)
	v.SetDefault("game.starting_resources.materials", d.Game.StartingResources.Materials)
	v.SetDefault("game.starting_resources.research", d.Game.StartingResources.Research)
	v.SetDefault("game.base_production.energy", d.Game.BaseProduction.Energy)
	v.SetDefault("game.base_production.materials", d.Game.BaseProduction.Materials)
	v.SetDefault("game.base_production.research", d.Game.BaseProduction.Research)
	v.SetDefault("game.base_queue_size", d.Game.BaseQueueSize)
	v.SetDefault("game.launch_build_speed_factor", d.Game.LaunchBuildSpeedFactor)
	v.SetDefault("game.starting_research_slots", d.Game.StartingResearchSlots)
	v.SetDefault("game.auto_research", d.Game.AutoResearch)
	v.SetDefault("game.catalog_path", d.Game.CatalogPath)

	v.SetDefault("offline.min_seconds", d.Offline.MinSeconds)
	v.SetDefault("offline.max_seconds", d.Offline.MaxSeconds)
	v.SetDefault("offline.efficiency", d.Offline.Efficiency)

	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.codec", d.Storage.Codec)
	v.SetDefault("storage.autosave_interval", d.Storage.AutosaveInterval)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.address", d.Metrics.Address)
	v.SetDefault("metrics.path", d.Metrics.Path)
}
