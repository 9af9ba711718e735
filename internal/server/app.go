// Package server initializes and runs the RecruitIQ API server: database
// and migrations, the OTP challenge store (Redis or in-memory), the service
// layer, and the HTTP endpoint, with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/rashid4567/recruitiq/internal/logging"
	"github.com/rashid4567/recruitiq/internal/server/config"
	"github.com/rashid4567/recruitiq/internal/server/httpapi"
	"github.com/rashid4567/recruitiq/internal/server/repositories/otpchallenges"
	"github.com/rashid4567/recruitiq/internal/server/repositories/repomanager"
	"github.com/rashid4567/recruitiq/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	// Redis when configured, in-memory otherwise. The store only holds
	// 60-second challenges, so losing it on restart is acceptable in dev.
	var otpRepo otpchallenges.Repository
	if c.RedisAddr != "" {
		otpRepo = otpchallenges.NewRedisRepository(redis.NewClient(&redis.Options{Addr: c.RedisAddr}))
	} else {
		otpRepo = otpchallenges.NewMemoryRepository()
	}

	authService := services.NewAuthService(db, rm, c)
	otpService := services.NewOtpService(db, otpRepo, rm, services.NewLogOtpSender(logger))
	oauthService := services.NewOAuthService(db, rm, authService)
	profileService := services.NewProfileService(db, rm)
	storageService := services.NewStorageService(c)

	server := httpapi.NewServer(c, logger, httpapi.Services{
		Auth:     authService,
		Otp:      otpService,
		OAuth:    oauthService,
		Google:   services.NewGoogleBridge(c),
		LinkedIn: services.NewLinkedInBridge(c),
		Profiles: profileService,
		Storage:  storageService,
	})

	return &App{config: c, logger: logger, db: db, server: server}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
