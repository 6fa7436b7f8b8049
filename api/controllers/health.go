package controllers

import (
	"context"
	"net/http"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/api/responses"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/config"
	pkgerrors "github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/errors"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Auditra-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports whether the backing stores answer. Redis is
// optional; the database is not.
func HealthReady(cfg *config.Config, database, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Auditra-Env", cfg.App.Env)

		checks := map[string]string{"database": "ok", "redis": "ok"}

		if database == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database unavailable"))
			return
		}
		if err := database.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database ping"))
			return
		}

		if cache == nil {
			checks["redis"] = "disabled"
		} else if err := cache.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis ping"))
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
