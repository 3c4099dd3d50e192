package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/angelmondragon/olist-dashboard/pkg/logger"
)

// Loader is the part of Store the refresher drives.
type Loader interface {
	Load(ctx context.Context) (*FactTable, error)
	Reload(ctx context.Context) (*FactTable, error)
}

// Refresher reloads the sources on a fixed cadence.
type Refresher struct {
	loader   Loader
	logg     *logger.Logger
	interval time.Duration
}

func NewRefresher(loader Loader, logg *logger.Logger, interval time.Duration) (*Refresher, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive")
	}
	return &Refresher{loader: loader, logg: logg, interval: interval}, nil
}

// Run reloads on every tick until the context is canceled. A failed reload
// keeps the previously published table.
func (r *Refresher) Run(ctx context.Context) error {
	ctx = r.logg.WithFields(ctx, map[string]any{
		"event":    "pipeline.refresh",
		"interval": r.interval.String(),
	})
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logg.Info(ctx, "refresher stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.loader.Load(ctx); err != nil {
				r.logg.Error(ctx, "refresh failed; keeping current fact table", err)
			}
		}
	}
}

// WatchReloads forces a full rebuild each time a signal arrives, until the
// context is canceled. A failed rebuild keeps the previously published table.
func WatchReloads(ctx context.Context, loader Loader, logg *logger.Logger, signals <-chan os.Signal) error {
	ctx = logg.WithField(ctx, "event", "pipeline.reload")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig := <-signals:
			table, err := loader.Reload(logg.WithField(ctx, "signal", sig.String()))
			if err != nil {
				logg.Error(ctx, "forced reload failed; keeping current fact table", err)
				continue
			}
			logg.Info(logg.WithField(ctx, "fingerprint", table.FingerprintHex()), "fact table rebuilt on signal")
		}
	}
}
