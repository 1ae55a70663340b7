package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SnapshotModel represents the snapshots table
type SnapshotModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	Slot      string    `gorm:"column:slot;index;not null"`
	Codec     string    `gorm:"column:codec;not null"`
	Data      []byte    `gorm:"column:data;not null"`
	SavedAt   time.Time `gorm:"column:saved_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SnapshotModel) TableName() string {
	return "snapshots"
}

// keep is the number of rows retained per slot: the save and its backup
const keep = 2

// GormStore keeps snapshots as rows of a SQL table, one slot per save
type GormStore struct {
	db    *gorm.DB
	slot  string
	codec Codec
}

// OpenSQLite opens (or creates) a SQLite database and migrates the snapshot table
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across queries
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&SnapshotModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// NewGormStore creates a new GORM snapshot store
func NewGormStore(db *gorm.DB, slot string, codec Codec) *GormStore {
	if slot == "" {
		slot = "default"
	}
	return &GormStore{db: db, slot: slot, codec: codec}
}

func (g *GormStore) Save(ctx context.Context, s *Snapshot) error {
	data, err := g.codec.Encode(s)
	if err != nil {
		return err
	}
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := &SnapshotModel{
			Slot:    g.slot,
			Codec:   g.codec.Name(),
			Data:    data,
			SavedAt: s.LastSaved,
		}
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}

		var ids []int
		if err := tx.Model(&SnapshotModel{}).
			Where("slot = ?", g.slot).
			Order("id DESC").
			Pluck("id", &ids).Error; err != nil {
			return fmt.Errorf("failed to prune snapshots: %w", err)
		}
		if len(ids) > keep {
			if err := tx.Delete(&SnapshotModel{}, ids[keep:]).Error; err != nil {
				return fmt.Errorf("failed to prune snapshots: %w", err)
			}
		}
		return nil
	})
}

func (g *GormStore) Load(ctx context.Context, base *Snapshot) (*Snapshot, Source, error) {
	var rows []SnapshotModel
	if err := g.db.WithContext(ctx).
		Where("slot = ?", g.slot).
		Order("id DESC").
		Limit(keep).
		Find(&rows).Error; err != nil {
		return base.Clone(), SourceDefaults, fmt.Errorf("failed to load snapshot: %w", err)
	}

	row := func(i int) func() ([]byte, error) {
		return func() ([]byte, error) {
			if i >= len(rows) {
				return nil, ErrNotFound
			}
			if rows[i].Codec != g.codec.Name() {
				return nil, fmt.Errorf("snapshot %d written with codec %s", rows[i].ID, rows[i].Codec)
			}
			return rows[i].Data, nil
		}
	}
	return loadWithFallback(g.codec, base, row(0), row(1))
}

func (g *GormStore) Delete(ctx context.Context) error {
	err := g.db.WithContext(ctx).Where("slot = ?", g.slot).Delete(&SnapshotModel{}).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
