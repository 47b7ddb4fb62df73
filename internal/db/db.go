package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alumniport/internal/models"
)

var DB *gorm.DB

// ErrNoDSN is returned by Init when no connection string is configured.
var ErrNoDSN = errors.New("DATABASE_URL is not set")

// Init opens the staging database and migrates the import table.
func Init(dsn string) error {
	if dsn == "" {
		return ErrNoDSN
	}
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return fmt.Errorf("db: connection failed: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("db: failed to get db from GORM: %w", err)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := conn.AutoMigrate(&models.ImportRow{}); err != nil {
		return fmt.Errorf("db: AutoMigration failed for ImportRow: %w", err)
	}
	DB = conn
	return nil
}

// Close releases the connection pool opened by Init.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	DB = nil
	return sqlDB.Close()
}

// ReplaceBatch deletes every staged row of batchID and inserts rows in their
// place, in one transaction.
func ReplaceBatch(ctx context.Context, batchID string, rows []models.AlumniOutputRow) (int, error) {
	if DB == nil {
		return 0, errors.New("db: not initialised")
	}
	if batchID == "" {
		return 0, errors.New("db: batch id is required")
	}

	staged := make([]models.ImportRow, len(rows))
	for i, r := range rows {
		staged[i] = models.NewImportRow(batchID, i+1, r)
	}

	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("batch_id = ?", batchID).Delete(&models.ImportRow{}).Error; err != nil {
			return fmt.Errorf("delete previous rows: %w", err)
		}
		if len(staged) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&staged, 100).Error; err != nil {
			return fmt.Errorf("insert rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("db: stage batch %s: %w", batchID, err)
	}
	return len(staged), nil
}
