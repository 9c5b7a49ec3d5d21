package main

import (
	"context"

	"github.com/oggyb/ember/internal/app"
	"github.com/oggyb/ember/internal/cache"
	"github.com/oggyb/ember/internal/config"
	"github.com/oggyb/ember/internal/db"
	"github.com/oggyb/ember/internal/events"
	"github.com/oggyb/ember/internal/logger"
	"github.com/oggyb/ember/internal/policy"
	"github.com/oggyb/ember/internal/repository"
	"github.com/oggyb/ember/internal/server"
	"github.com/oggyb/ember/internal/service/chat"
	"github.com/oggyb/ember/internal/service/community"
	"github.com/oggyb/ember/internal/service/matching"
	"github.com/oggyb/ember/internal/service/profile"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	// Init event publisher (noop when AMQP is unconfigured)
	publisher := events.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
	defer publisher.Close()

	appCtx := app.New(database, redisCache, publisher, log)

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	registrars := []server.Registrar{
		profile.NewRegistrar(appCtx),
		matching.NewRegistrar(appCtx),
		chat.NewRegistrar(appCtx),
		community.NewRegistrar(appCtx),
	}

	identity := policy.Identity(repository.NewUserRepository(database))
	router := server.NewRouter(cfg, identity, registrars...)

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, router); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
