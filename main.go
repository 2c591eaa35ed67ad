package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/taskboard-be/internal/api"
	"github.com/isdelr/taskboard-be/internal/api/response"
	"github.com/isdelr/taskboard-be/internal/auth"
	"github.com/isdelr/taskboard-be/internal/config"
	"github.com/isdelr/taskboard-be/internal/logger"
	"github.com/isdelr/taskboard-be/internal/models"
	"github.com/isdelr/taskboard-be/internal/monitoring"
	"github.com/isdelr/taskboard-be/internal/services"
	"github.com/isdelr/taskboard-be/internal/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.IsProduction())
	response.ExposeInternalDetail(!cfg.IsProduction())

	if cfg.InsecureSecret {
		log.Warn().Msg("JWT_SECRET is not set; using a random per-process secret, tokens will not survive a restart")
	}

	// Set up services
	userService := services.NewUserService(services.WithBcryptCost(cfg.BcryptCost))
	if err := userService.Seed(models.NewUser{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
		Role:     models.RoleAdmin,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admin user")
	}
	userService.DecoyHash() // build before the first login
	taskService := services.NewTaskService(services.SeedTasks())
	milestoneService := services.NewMilestoneService(services.SeedMilestones())
	starService := services.NewStarService(services.SeedStars())

	// Set up WebSocket Hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := websocket.NewHub()
	go hub.Run(hubCtx)

	// Set up metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(registry)

	// Set up auth
	codec := auth.NewTokenCodec(cfg)
	guard := auth.NewGuard(codec, userService, metrics)
	loginService := auth.NewLoginService(userService, codec, metrics)

	// Set up router
	router := api.NewRouter(api.Dependencies{
		Config:     cfg,
		Codec:      codec,
		Guard:      guard,
		Login:      loginService,
		Metrics:    metrics,
		Users:      userService,
		Tasks:      taskService,
		Milestones: milestoneService,
		Stars:      starService,
		Hub:        hub,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.Env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	stopHub() // Close event feed connections

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
