package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/devleo10/dishly/config"
	"github.com/devleo10/dishly/database"
	"github.com/devleo10/dishly/kds"
	"github.com/devleo10/dishly/router"
	"github.com/devleo10/dishly/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate: %v", err)
	}
	if cfg.Seed {
		if err := database.SeedCatalog(db); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed catalog: %v", err)
		}
	}
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := database.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed admin: %v", err)
		}
	}

	hub := kds.NewHub()
	events := kds.Multi{hub}
	if cfg.RabbitMQURL != "" {
		amqpPub, err := kds.NewAMQPPublisher(cfg.RabbitMQURL)
		if err != nil {
			// the websocket hub still works without a broker
			utils.ErrorLogger.WithError(err).Error("rabbitmq unavailable, order events stay in-process")
		} else {
			defer amqpPub.Close()
			events = append(events, amqpPub)
		}
	}

	r := router.SetupRouter(router.Dependencies{
		Config: cfg,
		DB:     db,
		Tokens: utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer),
		Hub:    hub,
		Events: events,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.WithError(err).Error("graceful shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	utils.InfoLogger.Info("server stopped")
}
