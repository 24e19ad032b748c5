package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Blob is one key of the record store persisted in PostgreSQL.
type Blob struct {
	Key       string    `gorm:"primaryKey;size:191"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"index"`
}

// PostgresBackend implements Backend on a single "blobs" table via GORM
type PostgresBackend struct {
	db *gorm.DB
}

// NewPostgresBackend migrates the blobs table and returns the backend.
func NewPostgresBackend(db *gorm.DB) (*PostgresBackend, error) {
	if err := db.AutoMigrate(&Blob{}); err != nil {
		return nil, fmt.Errorf("migrate blobs: %w", err)
	}
	return &PostgresBackend{db: db}, nil
}

func (b *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var blob Blob
	if err := b.db.WithContext(ctx).Where("key = ?", key).First(&blob).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("key %q: %w", key, ErrNotFound)
		}
		return nil, err
	}
	return blob.Value, nil
}

func (b *PostgresBackend) Set(ctx context.Context, key string, value []byte) error {
	blob := Blob{Key: key, Value: value, UpdatedAt: time.Now()}
	return b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&blob).Error
}

func (b *PostgresBackend) Remove(ctx context.Context, key string) error {
	return b.db.WithContext(ctx).Where("key = ?", key).Delete(&Blob{}).Error
}

func (b *PostgresBackend) Close(context.Context) error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
