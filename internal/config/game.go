package config

import "github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"

// GameConfig holds the tuning of the progression engine
type GameConfig struct {
	// Simulation steps per second when driven by the CLI
	TickRate float64 `mapstructure:"tick_rate" validate:"gt=0,lte=240"`

	StartingResources models.Resources `mapstructure:"starting_resources"`

	// Production granted even with no structures
	BaseProduction models.Resources `mapstructure:"base_production"`

	// Construction queue capacity before launch capacity is added
	BaseQueueSize int `mapstructure:"base_queue_size" validate:"min=1"`

	// Build speed gained per unit of launch capacity
	LaunchBuildSpeedFactor float64 `mapstructure:"launch_build_speed_factor" validate:"min=0"`

	StartingResearchSlots int  `mapstructure:"starting_research_slots" validate:"min=1"`
	AutoResearch          bool `mapstructure:"auto_research"`

	// Optional catalog override; empty uses the embedded catalog
	CatalogPath string `mapstructure:"catalog_path"`
}

// OfflineConfig holds offline progress reconciliation settings
type OfflineConfig struct {
	// Gaps shorter than this are ignored
	MinSeconds float64 `mapstructure:"min_seconds" validate:"gt=0"`

	// Gaps are clamped to this many seconds
	MaxSeconds float64 `mapstructure:"max_seconds" validate:"gtfield=MinSeconds"`

	// Fraction of normal production credited while offline
	Efficiency float64 `mapstructure:"efficiency" validate:"gt=0,lte=1"`
}
