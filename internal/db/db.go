package db

import (
	"fmt"
	"time"

	"forumweb/internal/models"
	"forumweb/internal/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the session database and migrates the session table.
// Only the "postgres" session backend needs it.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the postgres session backend")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	utils.Logger.Info("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	utils.Logger.Info("Database migration completed")
	return db, nil
}

// Migrate creates or updates the session table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.SessionEntry{}); err != nil {
		return fmt.Errorf("migrate session table: %w", err)
	}
	return nil
}

// PurgeSessions removes session entries untouched since before cutoff.
func PurgeSessions(db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.Where("updated_at < ?", cutoff).Delete(&models.SessionEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// StartSessionCleanup purges stale sessions every interval until stop is
// closed.
func StartSessionCleanup(db *gorm.DB, maxAge, interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				n, err := PurgeSessions(db, time.Now().Add(-maxAge))
				if err != nil {
					utils.Sugar.Errorw("session cleanup failed", "err", err)
					continue
				}
				if n > 0 {
					utils.Sugar.Infow("stale sessions removed", "count", n)
				}
			}
		}
	}()
}
