package snapshot

import (
	"fmt"

	"github.com/cristy-the-one/solar-k2-bootstrapper/internal/config"
)

// Open builds the store selected by the storage configuration
func Open(cfg config.StorageConfig) (Store, error) {
	codec, err := NewCodec(cfg.Codec)
	if err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case "file":
		return NewFileStore(cfg.Path, codec), nil
	case "sqlite":
		db, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db, "default", codec), nil
	case "memory":
		return NewMemoryStore(codec), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
