package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dappforge/dappforge-backend/config"
	"github.com/dappforge/dappforge-backend/internal/api/http/middleware"
	"github.com/dappforge/dappforge-backend/internal/bootstrap"
	"github.com/dappforge/dappforge-backend/internal/deployments/composer"
	cronjob "github.com/dappforge/dappforge-backend/internal/deployments/cron"
	"github.com/dappforge/dappforge-backend/internal/deployments/events"
	"github.com/dappforge/dappforge-backend/internal/deployments/frontend"
	deployhttp "github.com/dappforge/dappforge-backend/internal/deployments/http"
	"github.com/dappforge/dappforge-backend/internal/deployments/scratch"
	"github.com/dappforge/dappforge-backend/internal/deployments/service"
	"github.com/dappforge/dappforge-backend/internal/deployments/toolchain"
)

const serviceName = "dappforge-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := bootstrap.NewLogger(bootstrap.LoggerOptions{
		Environment: cfg.App.Environment,
		Level:       cfg.App.LogLevel,
		File:        cfg.App.LogFile,
		Service:     serviceName,
		Version:     cfg.App.Version,
	})
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()
	db, ledger, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{Config: &cfg.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	var bus events.Bus = events.NewNoopBus()
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient := redis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without deployment events")
		} else {
			bus = events.NewRedisBus(redisClient)
		}
	}

	fsys, cat, err := bootstrap.LoadTemplates(cfg.Toolchain.TemplatesDir)
	if err != nil {
		log.Fatal().Err(err).Msg("load templates")
	}

	space, err := scratch.NewSpace(cfg.Scratch.Root)
	if err != nil {
		log.Fatal().Err(err).Msg("create scratch root")
	}

	invoker := toolchain.NewInvoker(
		toolchain.NewExecRunner(cfg.Toolchain.Binary),
		cfg.Toolchain.CompileTimeout,
		cfg.Toolchain.PublishTimeout,
	)
	deployService := service.NewDeploymentService(cat, composer.New(fsys, cat), invoker, ledger, space, bus)
	projectService := service.NewProjectService(ledger, frontend.NewExporter(fsys, cat), bus)

	sweeper := cronjob.NewSweeper(space, cfg.Scratch.SweepSchedule, cfg.Scratch.SweepMaxAge, log)
	if err := sweeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("start scratch sweeper")
	}
	defer sweeper.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:     serviceName,
		Version:         cfg.App.Version,
		DB:              db,
		ToolchainBinary: cfg.Toolchain.Binary,
		ScratchRoot:     space.Root(),
		Logger:          log,
		CORSOrigins:     cfg.Server.CORSOrigins,
		DeployLimiter:   middleware.NewDeployLimiter(cfg.Server.DeployRatePerMin, cfg.Server.DeployBurst),
		Deployments:     deployhttp.New(deployService, projectService),
	})

	// No write timeout: publishes run for minutes and event streams stay open.
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("templates", templatesSource(cfg)).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Toolchain.PublishTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}

func templatesSource(cfg *config.Config) string {
	if cfg.Toolchain.TemplatesDir != "" {
		return cfg.Toolchain.TemplatesDir
	}
	return "embedded"
}
