// Package bootstrap assembles the dataset source and fact table store shared
// by the cmd entrypoints.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/olist-dashboard/internal/dataset"
	"github.com/angelmondragon/olist-dashboard/internal/pipeline"
	"github.com/angelmondragon/olist-dashboard/pkg/config"
	"github.com/angelmondragon/olist-dashboard/pkg/db"
	"github.com/angelmondragon/olist-dashboard/pkg/logger"
	"github.com/angelmondragon/olist-dashboard/pkg/metrics"
	"github.com/angelmondragon/olist-dashboard/pkg/migrate"
)

// Source builds the configured dataset source. The returned close func
// releases the database connection for SQL sources and is a no-op otherwise.
func Source(ctx context.Context, cfg *config.Config, logg *logger.Logger) (dataset.Source, func() error, error) {
	switch strings.ToLower(cfg.Data.Source) {
	case config.DataSourceDB:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrapping database: %w", err)
		}
		if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return dataset.NewDBSource(client, dataset.TableNames{
			Orders:    cfg.DB.OrdersTable,
			Items:     cfg.DB.ItemsTable,
			Products:  cfg.DB.ProductsTable,
			Customers: cfg.DB.CustomersTable,
		}), client.Close, nil
	default:
		return dataset.NewFileSource(cfg.Data.Dir, dataset.FileNames{
			Orders:    cfg.Data.OrdersFile,
			Items:     cfg.Data.ItemsFile,
			Products:  cfg.Data.ProductsFile,
			Customers: cfg.Data.CustomersFile,
		}, cfg.Data.Comma()), func() error { return nil }, nil
	}
}

// Store wraps source in a fact table store using the configured timezone.
func Store(cfg *config.Config, source dataset.Source, logg *logger.Logger, m *metrics.PipelineMetrics) (*pipeline.Store, error) {
	loc, err := cfg.Data.Location()
	if err != nil {
		return nil, err
	}
	return pipeline.NewStore(pipeline.StoreParams{
		Source:  source,
		Options: pipeline.Options{Location: loc},
		Logger:  logg,
		Metrics: m,
	})
}
