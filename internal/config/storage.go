package config

import "time"

// StorageConfig holds snapshot persistence configuration
type StorageConfig struct {
	// Backend: "file", "sqlite" or "memory"
	Driver string `mapstructure:"driver" validate:"required,oneof=file sqlite memory"`

	// File path for the file backend, database path for sqlite (":memory:" allowed)
	Path string `mapstructure:"path"`

	// Snapshot encoding: "json" or "proto"
	Codec string `mapstructure:"codec" validate:"required,oneof=json proto"`

	// Minimum interval between automatic saves
	AutosaveInterval time.Duration `mapstructure:"autosave_interval" validate:"min=0"`
}
