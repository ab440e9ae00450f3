package database

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/PhilipFalla/pokecollect-gui/internal/models"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Open connects to the SQLite database at dbPath, migrates the schema and
// seeds the lookup tables.
func Open(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == MemoryPath {
		// Every pooled connection would otherwise get its own empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	slog.Info("Database connected", slog.String("path", dbPath))

	err = db.AutoMigrate(
		&models.User{},
		&models.Collection{},
		&models.ConditionRecord{},
		&models.LanguageRecord{},
		&models.CollectionCard{},
		&models.CardPrice{},
		&models.CollectionValueSnapshot{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("Database migration completed")
	return db, nil
}
