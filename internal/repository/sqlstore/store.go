package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/repository"
)

// AppState is the row holding one serialized state blob.
type AppState struct {
	Key       string `gorm:"primaryKey;size:64"`
	Blob      string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// Store persists the state blob in a SQL database through gorm.
type Store struct {
	db *gorm.DB
}

// Open connects to sqlite or postgres and migrates the state table.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	return New(db)
}

// New wraps an existing connection, migrating the state table.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&AppState{}); err != nil {
		return nil, fmt.Errorf("failed to migrate app_states: %w", err)
	}
	return &Store{db: db}, nil
}

// Load returns repository.ErrStateNotFound when no row exists for the storage key.
func (s *Store) Load(ctx context.Context) (*models.AppData, error) {
	var row AppState
	err := s.db.WithContext(ctx).Where(&AppState{Key: repository.StorageKey}).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query app state: %w", err)
	}
	return repository.Decode([]byte(row.Blob))
}

// Save upserts the row for the storage key.
func (s *Store) Save(ctx context.Context, data *models.AppData) error {
	blob, err := repository.Encode(data)
	if err != nil {
		return err
	}

	row := AppState{Key: repository.StorageKey, Blob: string(blob), UpdatedAt: time.Now().UTC()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"blob", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert app state: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
