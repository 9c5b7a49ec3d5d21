package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/ember/internal/config"
)

// Models lists every persisted entity for migration.
func Models() []any {
	return []any{
		&User{}, &Swipe{}, &Match{}, &Message{},
		&Post{}, &Like{}, &Comment{},
		&Block{}, &Report{},
	}
}

// NewDB initializes the database connection using DSN from config.
//
// TranslateError is required: duplicate-swipe and duplicate-like detection
// rely on gorm.ErrDuplicatedKey coming back from unique-constraint
// violations instead of driver-specific errors.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	database, err := gorm.Open(mysql.Open(cfg.DB.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	// AutoMigrate ensures schema is in sync with models.
	if err := database.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return database, nil
}
