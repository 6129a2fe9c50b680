package database

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Ananth-NQI/loadboard-backend/internal/config"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
)

// For Cloud Run with Cloud SQL
const socketDir = "/cloudsql"

// DSN builds the postgres connection string. A Cloud SQL instance name
// switches to the unix socket; otherwise TCP is used.
func DSN(cfg config.DatabaseConfig) string {
	if cfg.InstanceConnectionName != "" {
		return fmt.Sprintf("host=%s/%s user=%s password=%s dbname=%s sslmode=disable",
			socketDir, cfg.InstanceConnectionName, cfg.User, cfg.Password, cfg.Name)
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode)
}

// Connect opens the pool and verifies it with a ping
func Connect(cfg config.DatabaseConfig, logger *logrus.Logger) (*gorm.DB, error) {
	if cfg.InstanceConnectionName != "" {
		logger.WithField("instance", cfg.InstanceConnectionName).Info("Connecting to Cloud SQL via socket")
	} else {
		logger.WithField("host", cfg.Host).Info("Connecting to PostgreSQL")
	}

	db, err := gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "database handle")
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping database")
	}

	logger.Info("Database connected successfully")
	return db, nil
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.Load{},
		&models.Bid{},
		&models.TrackingUpdate{},
		&models.TruckAvailability{},
		&models.LaneRate{},
		&models.Review{},
		&models.Message{},
		&models.Notification{},
		&models.Document{},
		&models.Settings{},
		&models.SavedSearch{},
	)
	return errors.Wrap(err, "migrate database")
}

// Close releases the pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
