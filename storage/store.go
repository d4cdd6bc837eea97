package storage

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"taxiflow/domain/entities/trip"
)

const insertBatchSize = 500

// Store persists clean trips in an embedded SQLite database. The processor
// writes it, the dashboard server reads it
type Store struct {
	db *gorm.DB
}

func NewStore(databasePath string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database %s: %w", databasePath, err)
	}

	return &Store{db: db}, nil
}

// Init drops any previous dataset and recreates the trips table with its
// indexes. Each pipeline run starts from a fresh table
func (s *Store) Init() error {
	if err := s.db.Migrator().DropTable(&trip.Trip{}); err != nil {
		return fmt.Errorf("error dropping previous trips table: %w", err)
	}

	if err := s.db.AutoMigrate(&trip.Trip{}); err != nil {
		return fmt.Errorf("error creating trips table: %w", err)
	}

	log.Info("[storage] trips table initialized with its indexes")
	return nil
}

// StoreTrips inserts the given trips preserving their order. trip_id is a
// uniqueness constraint: inserting a duplicate is silently ignored, not an
// error, so re-running the pipeline over the same dataset is harmless
func (s *Store) StoreTrips(ctx context.Context, trips []*trip.Trip) error {
	if len(trips) == 0 {
		return nil
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "trip_id"}},
			DoNothing: true,
		}).
		CreateInBatches(trips, insertBatchSize)
	if result.Error != nil {
		return fmt.Errorf("error storing trips: %w", result.Error)
	}

	log.Infof("[storage] stored %v trips (%v duplicates ignored)", result.RowsAffected, int64(len(trips))-result.RowsAffected)
	return nil
}
