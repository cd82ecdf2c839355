package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/otel"
)

type entry struct {
	Key       string `gorm:"column:entry_key;primaryKey"`
	Value     string `gorm:"column:entry_value;not null"`
	UpdatedAt time.Time
}

func (entry) TableName() string {
	return "kv_entries"
}

// SQLiteStore keeps entries in a single sqlite table.
type SQLiteStore struct {
	db *gorm.DB
}

func NewSQLiteStore(c context.Context, path string) (*SQLiteStore, error) {
	c, span := otel.Tracer.Start(c, "storage NewSQLiteStore")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "storage NewSQLiteStore").
		Str("path", path).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "opening sqlite").Logger()
	logger.Info().Msg("opening sqlite")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		err = fmt.Errorf("failed opening sqlite with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("opened sqlite")

	logger = logger.With().Str(constants.KEY_PROCESS, "migrating kv_entries").Logger()
	logger.Info().Msg("migrating kv_entries")
	if err := db.WithContext(c).AutoMigrate(&entry{}); err != nil {
		err = fmt.Errorf("failed migrating kv_entries with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("migrated kv_entries")

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(c context.Context, key string) (string, bool, error) {
	e := entry{}
	err := s.db.WithContext(c).Where("entry_key = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed getting key=%s with error=%w", key, err)
	}
	return e.Value, true, nil
}

func (s *SQLiteStore) Set(c context.Context, key string, value string) error {
	err := s.db.WithContext(c).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entry_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"entry_value", "updated_at"}),
		}).
		Create(&entry{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("failed setting key=%s with error=%w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(c context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := s.db.WithContext(c).Where("entry_key IN ?", keys).Delete(&entry{}).Error
	if err != nil {
		return fmt.Errorf("failed deleting keys=%v with error=%w", keys, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
