package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/robtee24/tee24-winterleague-sub000/config"
	"github.com/robtee24/tee24-winterleague-sub000/db"
	"github.com/robtee24/tee24-winterleague-sub000/handlers"
	"github.com/robtee24/tee24-winterleague-sub000/live"
	"github.com/robtee24/tee24-winterleague-sub000/repositories"
	"github.com/robtee24/tee24-winterleague-sub000/routes"
	"github.com/robtee24/tee24-winterleague-sub000/services"
	"github.com/robtee24/tee24-winterleague-sub000/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	database, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize file storage: %w", err)
	}

	hub := live.NewHub(logger)
	go hub.Run()

	leagueRepo := repositories.NewPostgresLeagueRepository(database)
	userRepo := repositories.NewPostgresUserRepository(database)
	playerRepo := repositories.NewPostgresPlayerRepository(database)
	weekRepo := repositories.NewPostgresWeekRepository(database)
	scoreRepo := repositories.NewPostgresScoreRepository(database)
	handicapRepo := repositories.NewPostgresHandicapRepository(database)
	teamRepo := repositories.NewPostgresTeamRepository(database)
	matchRepo := repositories.NewPostgresMatchRepository(database)

	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey, cfg.AdminEmail)
	leagueService := services.NewLeagueService(leagueRepo, weekRepo, logger)
	handicapService := services.NewHandicapService(database, playerRepo, weekRepo, scoreRepo, handicapRepo, hub, logger)
	matchService := services.NewMatchService(database, matchRepo, teamRepo, scoreRepo, playerRepo, leagueRepo, hub, logger)
	teamService := services.NewTeamService(teamRepo, playerRepo, logger)
	leaderboardService := services.NewLeaderboardService(playerRepo, scoreRepo, handicapRepo, teamRepo, matchRepo)

	recomputer := services.NewRecomputer(handicapService, matchService, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go recomputer.Run(ctx)

	playerService := services.NewPlayerService(database, playerRepo, leagueRepo, recomputer, logger)
	scoreService := services.NewScoreService(database, scoreRepo, playerRepo, weekRepo, leagueRepo, uploader, hub, recomputer, logger)

	scheduler, err := startNightlySweep(ctx, cfg.NightlySweepCron, leagueService, recomputer, logger)
	if err != nil {
		return fmt.Errorf("failed to start nightly sweep: %w", err)
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logger.Error("scheduler shutdown failed", slog.Any("error", err))
		}
	}()

	router := routes.SetupRoutes(routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		League:      handlers.NewLeagueHandler(leagueService),
		Player:      handlers.NewPlayerHandler(playerService),
		Team:        handlers.NewTeamHandler(teamService),
		Score:       handlers.NewScoreHandler(scoreService),
		Match:       handlers.NewMatchHandler(matchService),
		Handicap:    handlers.NewHandicapHandler(handicapService),
		Leaderboard: handlers.NewLeaderboardHandler(leaderboardService),
		WebSocket:   handlers.NewWebSocketHandler(hub, leagueService, logger),
	}, cfg.JWTSecretKey)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.Int("port", cfg.ServerPort))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// startNightlySweep schedules a full recompute of every active league.
// The per-submission cascade drops tasks when its queue is full; the
// sweep repairs anything that left stale.
func startNightlySweep(
	ctx context.Context,
	cronExpr string,
	leagues services.LeagueService,
	recomputer *services.Recomputer,
	logger *slog.Logger,
) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			active, err := leagues.ListActive(ctx)
			if err != nil {
				logger.Error("nightly sweep failed to list leagues", slog.Any("error", err))
				return
			}
			for _, league := range active {
				if err := recomputer.RecomputeLeague(ctx, league.ID); err != nil {
					logger.Error("nightly sweep failed for league",
						slog.Int("league_id", league.ID), slog.Any("error", err))
				}
			}
			logger.Info("nightly sweep finished", slog.Int("leagues", len(active)))
		}),
	)
	if err != nil {
		return nil, err
	}

	scheduler.Start()
	return scheduler, nil
}
