package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tenantkit/identity-service/internal/api"
	"github.com/tenantkit/identity-service/internal/core/service"
	mongodb "github.com/tenantkit/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/tenantkit/identity-service/internal/infrastructure/db/redis"
	"github.com/tenantkit/identity-service/internal/infrastructure/queue"
	"github.com/tenantkit/identity-service/internal/pkg/config"
	"github.com/tenantkit/identity-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Fails closed: a missing JWT_SECRET never reaches serving state.
		logger.Init(logger.Options{})
		fallback := logger.Get()
		fallback.Fatal().Err(err).Msg("configuration error")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}
	if err := roleRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create role indexes")
	}

	seeder := service.NewSeeder(userRepo, roleRepo, service.NewPasswordHasher(), log)
	if err := seeder.Seed(ctx, cfg.DefaultTenant(), cfg.Seed.AdminUsername, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	publisher := queue.NewRedisPublisher(rdb, cfg.Publisher.Stream)
	dispatcher := queue.NewDispatcher(cfg.Publisher.Workers, cfg.Publisher.Buffer, publisher, log)
	dispatcher.Start(ctx)

	e, err := api.NewRouter(cfg, db, rdb, dispatcher, log)
	if err != nil {
		log.Fatal().Err(err).Msg("router setup failed")
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("identity service started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
