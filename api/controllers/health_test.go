package controllers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/olist-dashboard/internal/dataset"
	"github.com/angelmondragon/olist-dashboard/internal/pipeline"
	"github.com/angelmondragon/olist-dashboard/pkg/config"
	"github.com/angelmondragon/olist-dashboard/pkg/logger"
)

type stubTables struct {
	table *pipeline.FactTable
}

func (s stubTables) Current() *pipeline.FactTable { return s.table }

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error { return s.err }

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: config.AppEnvDev}}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})
}

func TestHealthLive(t *testing.T) {
	resp := httptest.NewRecorder()
	HealthLive(testConfig()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if resp.Header().Get(envHeader) != config.AppEnvDev {
		t.Fatalf("expected env header, got %q", resp.Header().Get(envHeader))
	}
}

func TestHealthReady(t *testing.T) {
	published := pipeline.Prepare(dataset.Tables{}, pipeline.Options{})

	cases := []struct {
		name   string
		tables stubTables
		redis  *stubPinger
		status int
		body   string
	}{
		{name: "no table yet", tables: stubTables{}, status: http.StatusServiceUnavailable, body: `"fact_table":"not_ready"`},
		{name: "table without redis", tables: stubTables{table: published}, status: http.StatusOK, body: `"redis":"not_configured"`},
		{name: "table with redis", tables: stubTables{table: published}, redis: &stubPinger{}, status: http.StatusOK, body: `"redis":"ready"`},
		{name: "redis down", tables: stubTables{table: published}, redis: &stubPinger{err: errors.New("dial tcp")}, status: http.StatusServiceUnavailable, body: `"redis":"not_ready"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := HealthReady(testConfig(), testLogger(), tc.tables, nil)
			if tc.redis != nil {
				handler = HealthReady(testConfig(), testLogger(), tc.tables, tc.redis)
			}
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, resp.Code, resp.Body.String())
			}
			if !strings.Contains(resp.Body.String(), tc.body) {
				t.Fatalf("expected %s in %s", tc.body, resp.Body.String())
			}
		})
	}
}
