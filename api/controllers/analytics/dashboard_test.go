package analytics

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/olist-dashboard/internal/analytics/types"
	"github.com/angelmondragon/olist-dashboard/pkg/enums"
	pkgerrors "github.com/angelmondragon/olist-dashboard/pkg/errors"
	"github.com/angelmondragon/olist-dashboard/pkg/logger"
	json "github.com/goccy/go-json"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})
}

func TestDashboardDemandParsesSelection(t *testing.T) {
	stub := &testDashboardService{}
	handler := DashboardDemand(stub, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/demand?dimension=state&value=SP", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	want := types.Selection{View: enums.ViewDemand, Dimension: enums.DimensionState, Value: "SP"}
	if stub.lastSelection != want {
		t.Fatalf("unexpected selection %+v", stub.lastSelection)
	}

	var envelope struct {
		Data types.DemandResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Series) != 1 || envelope.Data.Series[0].Value != 1147 {
		t.Fatalf("unexpected series %+v", envelope.Data.Series)
	}
}

func TestDashboardDemandRejectsUnknownDimension(t *testing.T) {
	stub := &testDashboardService{}
	handler := DashboardDemand(stub, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/demand?dimension=planet", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if stub.calls != 0 {
		t.Fatal("service should not be invoked for an invalid dimension")
	}
}

func TestDashboardGMVForwardsServiceErrors(t *testing.T) {
	stub := &testDashboardService{err: pkgerrors.New(pkgerrors.CodeDependency, "fact table not ready")}
	handler := DashboardGMV(stub, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/gmv", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
	if stub.lastSelection.View != enums.ViewGMV || stub.lastSelection.Dimension != enums.DimensionOverall {
		t.Fatalf("unexpected selection %+v", stub.lastSelection)
	}
}

func TestDashboardTopCitiesBounds(t *testing.T) {
	stub := &testDashboardService{}
	handler := DashboardTopCities(stub, testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/top-cities", nil))
	if resp.Code != http.StatusOK || stub.lastN != 10 {
		t.Fatalf("expected default n=10, got status %d n=%d", resp.Code, stub.lastN)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/top-cities?n=500", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for n out of range, got %d", resp.Code)
	}
}

func TestDashboardValuesUsesPathParam(t *testing.T) {
	stub := &testDashboardService{}
	r := chi.NewRouter()
	r.Get("/values/{dimension}", DashboardValues(stub, testLogger()))

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/values/state", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if stub.lastDimension != enums.DimensionState {
		t.Fatalf("unexpected dimension %s", stub.lastDimension)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/values/region", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown dimension, got %d", resp.Code)
	}
}

func TestDashboardShareAndSummary(t *testing.T) {
	stub := &testDashboardService{}

	resp := httptest.NewRecorder()
	DashboardShare(stub, testLogger()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/share?dimension=city", nil))
	if resp.Code != http.StatusOK || stub.lastDimension != enums.DimensionCity {
		t.Fatalf("unexpected share call: status %d dimension %s", resp.Code, stub.lastDimension)
	}

	resp = httptest.NewRecorder()
	DashboardSummary(stub, testLogger()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/summary", nil))
	var envelope struct {
		Data types.Summary `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Fingerprint != "00000000000000ff" {
		t.Fatalf("unexpected summary %+v", envelope.Data)
	}

	resp = httptest.NewRecorder()
	DashboardOptions(stub, testLogger()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/options", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected options status %d", resp.Code)
	}
}
