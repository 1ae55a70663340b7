package config

import (
	"time"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/models"
)

// Default returns the configuration used when no file or environment is set
func Default() Config {
	return Config{
		Game: GameConfig{
			TickRate:               10,
			StartingResources:      models.Resources{Energy: 100, Materials: 50, Research: 0},
			BaseProduction:         models.Resources{Energy: 1, Materials: 0.5, Research: 0.2},
			BaseQueueSize:          10,
			LaunchBuildSpeedFactor: 0.02,
			StartingResearchSlots:  1,
			AutoResearch:           false,
		},
		Offline: OfflineConfig{
			MinSeconds: 60,
			MaxSeconds: 24 * 60 * 60,
			Efficiency: 0.5,
		},
		Storage: StorageConfig{
			Driver:           "file",
			Path:             "dyson.save",
			Codec:            "json",
			AutosaveInterval: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: "localhost:9464",
			Path:    "/metrics",
		},
	}
}
