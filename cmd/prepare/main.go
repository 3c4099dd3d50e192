package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"

	"github.com/angelmondragon/olist-dashboard/internal/analytics"
	"github.com/angelmondragon/olist-dashboard/internal/analytics/types"
	"github.com/angelmondragon/olist-dashboard/internal/bootstrap"
	"github.com/angelmondragon/olist-dashboard/pkg/config"
	"github.com/angelmondragon/olist-dashboard/pkg/enums"
	pkgerrors "github.com/angelmondragon/olist-dashboard/pkg/errors"
	"github.com/angelmondragon/olist-dashboard/pkg/logger"
)

// report is what the prepare command prints after a successful build.
type report struct {
	Summary   *types.Summary        `json:"summary"`
	TopCities []string              `json:"top_cities"`
	Demand    *types.DemandResponse `json:"demand,omitempty"`
	GMV       *types.GMVResponse    `json:"gmv,omitempty"`
}

func main() {
	dimension := flag.String("dimension", "", "optional dimension to preview: overall|category|state|city")
	value := flag.String("value", "", "value for -dimension (ignored for overall)")
	top := flag.Int("top", 10, "number of top cities to list")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "prepare", Output: os.Stderr})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "prepare",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      os.Stderr,
	})

	if err := run(context.Background(), cfg, logg, os.Stdout, *dimension, *value, *top); err != nil {
		ctx := context.Background()
		if dump := pkgerrors.Dump(err); len(dump.Causes) > 0 {
			ctx = logg.WithField(ctx, "causes", dump.Causes)
		}
		logg.Error(ctx, "prepare failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, out io.Writer, dimension, value string, top int) error {
	source, closeSource, err := bootstrap.Source(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSource(); err != nil {
			logg.Error(ctx, "error closing dataset source", err)
		}
	}()

	store, err := bootstrap.Store(cfg, source, logg, nil)
	if err != nil {
		return err
	}
	if _, err := store.Load(ctx); err != nil {
		return err
	}

	svc, err := analytics.NewService(analytics.ServiceParams{Tables: store, Logger: logg})
	if err != nil {
		return err
	}

	var rep report
	if rep.Summary, err = svc.Summary(ctx); err != nil {
		return err
	}
	if rep.TopCities, err = svc.TopCities(ctx, top); err != nil {
		return err
	}
	if dimension != "" {
		dim, err := enums.ParseDimension(dimension)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid -dimension")
		}
		sel := types.Selection{Dimension: dim, Value: value}
		if !dim.RequiresValue() {
			sel.Value = ""
		}
		if rep.Demand, err = svc.Demand(ctx, sel); err != nil {
			return err
		}
		if rep.GMV, err = svc.GMV(ctx, sel); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
