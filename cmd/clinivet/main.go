package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinivet/clinivet/internal/app"
	"github.com/clinivet/clinivet/internal/auth"
	"github.com/clinivet/clinivet/internal/consultations"
	"github.com/clinivet/clinivet/internal/identity"
	"github.com/clinivet/clinivet/internal/owners"
	"github.com/clinivet/clinivet/internal/pets"
	"github.com/clinivet/clinivet/internal/platform/cache"
	"github.com/clinivet/clinivet/internal/platform/db"
	"github.com/clinivet/clinivet/internal/profile"
	"github.com/clinivet/clinivet/internal/receptionists"
	"github.com/clinivet/clinivet/internal/roles"
	"github.com/clinivet/clinivet/internal/veterinarians"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if cfg.MigrateOnStart {
		if err := db.Migrate(cfg.PGDSN); err != nil {
			logger.Error("run migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, availability cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	identityRepo := identity.NewRepository(pool)
	identityService := identity.NewService(identityRepo)

	resolver := roles.NewResolver(roles.NewLookup(pool))
	rolesMW := roles.Middleware{Gate: roles.Gate{}, Logger: logger}

	issuer := auth.NewIssuer(cfg.TokenSecret, cfg.TokenTTL)
	authService := auth.NewService(identityRepo, auth.NewTokenRepository(pool), issuer)
	authHandler := auth.NewHandler(logger, authService, rolesMW)
	authn := auth.Middleware(authService, resolver, logger)

	availabilityCache := veterinarians.NewAvailabilityCache(redisClient, cfg.AvailabilityCacheTTL)
	txRunner := db.NewTxRunner(pool)

	receptionistService := receptionists.NewService(receptionists.NewRepository(pool), identityService, txRunner)
	receptionistHandler := receptionists.NewHandler(logger, receptionistService, rolesMW)

	vetService := veterinarians.NewService(veterinarians.NewRepository(pool), identityService, availabilityCache, txRunner)
	vetHandler := veterinarians.NewHandler(logger, vetService, rolesMW)

	ownerService := owners.NewService(owners.NewRepository(pool), identityService, txRunner)
	ownerHandler := owners.NewHandler(logger, ownerService, rolesMW)

	petService := pets.NewService(pets.NewRepository(pool))
	petHandler := pets.NewHandler(logger, petService, rolesMW)

	consultationService := consultations.NewService(consultations.NewRepository(pool), availabilityCache)
	consultationHandler := consultations.NewHandler(logger, consultationService, rolesMW)

	profileHandler := profile.NewHandler(logger, identityService, receptionistService, vetService, rolesMW)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		Authn:                authn,
		AuthHandler:          authHandler,
		OwnersHandler:        ownerHandler,
		ReceptionistsHandler: receptionistHandler,
		VeterinariansHandler: vetHandler,
		PetsHandler:          petHandler,
		ConsultationsHandler: consultationHandler,
		ProfileHandler:       profileHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
