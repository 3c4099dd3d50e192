package analytics

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/olist-dashboard/api/responses"
	"github.com/angelmondragon/olist-dashboard/api/validators"
	"github.com/angelmondragon/olist-dashboard/internal/analytics"
	"github.com/angelmondragon/olist-dashboard/internal/analytics/query"
	"github.com/angelmondragon/olist-dashboard/pkg/enums"
	"github.com/angelmondragon/olist-dashboard/pkg/logger"
)

const maxTopCities = 100

func DashboardOptions(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		result, err := service.Options(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func DashboardDemand(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sel, err := validators.ParseSelection(r, enums.ViewDemand)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		result, err := service.Demand(ctx, sel)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func DashboardGMV(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sel, err := validators.ParseSelection(r, enums.ViewGMV)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		result, err := service.GMV(ctx, sel)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func DashboardShare(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		dimension, err := validators.ParseDimension(r.URL.Query().Get("dimension"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		result, err := service.Share(ctx, dimension)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func DashboardTopCities(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		n, err := validators.ParseQueryInt(r, "n", query.DefaultTopCities, 1, maxTopCities)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		cities, err := service.TopCities(ctx, n)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, cities)
	}
}

func DashboardValues(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		dimension, err := validators.ParseDimension(chi.URLParam(r, "dimension"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		values, err := service.DistinctValues(ctx, dimension)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, values)
	}
}

func DashboardSummary(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		summary, err := service.Summary(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
