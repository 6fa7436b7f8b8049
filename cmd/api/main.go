package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/api/routes"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/identity"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/notifications"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/projects"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/syslog"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/valuations"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/config"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/db"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/logger"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/metrics"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/migrate"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/redis"
)

// emailResolver backs the SMTP sink with user record lookups.
type emailResolver struct {
	users identity.Service
}

func (r emailResolver) EmailFor(ctx context.Context, notice notifications.Notice) (string, error) {
	user, err := r.users.FindUser(ctx, notice.UserID)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	chainMetrics := metrics.NewChainMetrics(registry)

	auditService, err := syslog.NewService(syslog.NewRepository(dbClient.DB()), dbClient, logg, chainMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create audit chain service", err)
		os.Exit(1)
	}
	recorder := syslog.NewRecorder(auditService, logg)

	identityService, err := identity.NewService(identity.NewRepository(dbClient.DB()), dbClient, recorder, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity service", err)
		os.Exit(1)
	}

	var sinks []notifications.Sink
	if sink := notifications.NewEmailSink(cfg.Email, emailResolver{users: identityService}); sink != nil {
		sinks = append(sinks, sink)
	}
	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()), logg, sinks...)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	projectsService, err := projects.NewService(projects.NewRepository(dbClient.DB()), dbClient, recorder, notificationsService)
	if err != nil {
		logg.Error(context.Background(), "failed to create projects service", err)
		os.Exit(1)
	}

	valuationsService, err := valuations.NewService(valuations.NewRepository(dbClient.DB()), projectsService, dbClient, recorder, notificationsService, cfg.Valuations)
	if err != nil {
		logg.Error(context.Background(), "failed to create valuations service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			redisClient,
			identityService,
			auditService,
			recorder,
			notificationsService,
			projectsService,
			valuationsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
