package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/ember/internal/cache"
	"github.com/oggyb/ember/internal/events"
)

// AppContext holds shared dependencies (DB, Redis, event publisher, Logger).
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Publisher  events.Publisher
	Logger     *slog.Logger
}

// New creates a new AppContext
func New(db *gorm.DB, rdb *cache.RedisCache, pub events.Publisher, logger *slog.Logger) *AppContext {
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Publisher:  pub,
		Logger:     logger,
	}
}
