package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"whatsdesk-go/internal/auth"
	"whatsdesk-go/internal/autolabel"
	"whatsdesk-go/internal/config"
	"whatsdesk-go/internal/database"
	"whatsdesk-go/internal/handler"
	"whatsdesk-go/internal/metrics"
	"whatsdesk-go/internal/pipeline"
	"whatsdesk-go/internal/provider"
	"whatsdesk-go/internal/repository"
	"whatsdesk-go/internal/router"
	"whatsdesk-go/internal/scheduler"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	logrus.Info("Starting WhatsDesk service")

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Configuration validation failed: %v", err)
	}

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	m := metrics.NewMetrics()
	repo := repository.New(db)
	labels := autolabel.NewService(repo)
	sender := provider.NewClient(&cfg.Provider)
	pl := pipeline.New(repo, labels, sender, m)
	sched := scheduler.NewScheduler(&cfg.Scheduler, repo, labels)
	jwt := auth.NewJWT(cfg.Auth.JWTSecret)

	handlers := handler.NewHandlers(repo, pl, labels, sender, sched, m, cfg)
	engine := router.SetupRouter(cfg, handlers, jwt)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if err := sched.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}

	go func() {
		logrus.Infof("Starting HTTP server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sched.Stop(); err != nil {
		logrus.Errorf("Failed to stop scheduler: %v", err)
	}
	sched.Wait()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}

	logrus.Info("Server stopped gracefully")
}
