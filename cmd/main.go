package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"chatwire/internal/app/registry"
	"chatwire/internal/app/server"
	"chatwire/internal/app/worker"
	"chatwire/internal/config"
	"chatwire/internal/core/services"
	"chatwire/internal/platform/logger"
	"chatwire/internal/platform/telemetry"
	"chatwire/internal/plugins/postgres"
	redisPlugin "chatwire/internal/plugins/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	log := logger.NewLogger(*cfg)
	log.Info("starting application")

	otelShutdown, err := telemetry.InitTelemetry(ctx, *cfg)
	if err != nil {
		log.Error("failed to initialize telemetry", "err", err)
	}
	defer func() {
		log.Info("flushing telemetry...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Error("telemetry shutdown failed", "err", err)
		}
	}()

	// Infra
	var pdb *sql.DB
	if pdb, err = postgres.New(ctx, *cfg.Postgres); err != nil {
		log.Error("postgres connection failed", "err", err)
		return
	}
	log.Info("postgres connected")
	var rdb *redis.Client
	if rdb, err = redisPlugin.NewRedisClient(ctx, *cfg.Redis); err != nil {
		log.Error("redis connection failed", "url", cfg.Redis.URL, "err", err)
		return
	}
	log.Info("redis connected")

	// Adapters
	msgRepo := postgres.NewMessageRepo(pdb)
	userRepo := postgres.NewUserRepository(pdb)
	txManager := postgres.NewTxManager(pdb)
	mirror := redisPlugin.NewRedisPresenceMirror(rdb)

	// Core services
	hub := registry.NewRegistry()
	tokenSvc := services.NewTokenService(cfg.SecretToken, cfg.Service.Name, cfg.TokenTTL)
	presenceSvc := services.NewPresenceService(log, hub, mirror, cfg.Presence.MirrorTTL)
	relaySvc := services.NewRelayService(log, hub, presenceSvc)
	deliverySvc := services.NewDeliveryService(log, msgRepo, txManager, hub, relaySvc, presenceSvc)

	// Background presence mirror refresh
	syncWorker := worker.NewPresenceSyncWorker(log, presenceSvc, cfg.Presence.SyncInterval)
	go syncWorker.Run(ctx)

	// Server
	srv := server.NewServer(log, cfg.Service.Name, cfg.Service.Addr,
		tokenSvc, deliverySvc, presenceSvc, msgRepo, userRepo)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "err", err)
		}
		// Everyone is offline now; drop the mirrored set instead of
		// letting it linger for the TTL window.
		if err := mirror.Clear(shutdownCtx); err != nil {
			log.Error("presence mirror clear failed", "err", err)
		}
	}()
	if err := srv.Start(); err != nil {
		log.Error("server stopped", "err", err)
	}
}
