package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/olist-dashboard/api/responses"
	"github.com/angelmondragon/olist-dashboard/internal/analytics"
	"github.com/angelmondragon/olist-dashboard/pkg/config"
	pkgerrors "github.com/angelmondragon/olist-dashboard/pkg/errors"
	"github.com/angelmondragon/olist-dashboard/pkg/logger"
	"github.com/angelmondragon/olist-dashboard/pkg/redis"
)

const (
	envHeader           = "X-Olist-Env"
	readyCheckTimeout   = 2 * time.Second
	statusReady         = "ready"
	statusNotReady      = "not_ready"
	statusNotConfigured = "not_configured"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready once a fact table is published and, when a Redis
// cache is configured, Redis answers a ping. redisClient may be nil.
func HealthReady(cfg *config.Config, logg *logger.Logger, tables analytics.TableProvider, redisClient redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := map[string]string{
			"fact_table": statusReady,
			"redis":      statusNotConfigured,
		}
		ready := true

		if tables.Current() == nil {
			checks["fact_table"] = statusNotReady
			ready = false
		}
		if redisClient != nil {
			checks["redis"] = statusReady
			if err := redisClient.Ping(ctx); err != nil {
				logg.Warn(logg.WithField(ctx, "error", err.Error()), "health.redis_unreachable")
				checks["redis"] = statusNotReady
				ready = false
			}
		}

		if !ready {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "service not ready").WithDetails(map[string]any{"checks": checks}))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": statusReady, "checks": checks})
	}
}
