package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/radiocov/internal/coverage"
	"github.com/RMahshie/radiocov/pkg/models"
)

func TestObserveCalculation(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	require.NoError(t, err)

	collector.ObserveCalculation(models.ModelHata, coverage.OutcomeOK, 20*time.Millisecond, 120)
	collector.ObserveCalculation(models.ModelHata, coverage.OutcomeInvalid, time.Millisecond, 0)
	collector.ObserveCalculation("bogus", coverage.OutcomeInvalid, time.Millisecond, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Calculations.WithLabelValues("hata", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Calculations.WithLabelValues("hata", "invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Calculations.WithLabelValues("unknown", "invalid")))

	assert.Equal(t, uint64(1), histogramSampleCount(t, reg, "coverage_grid_cells", nil))
	assert.Equal(t, uint64(2), histogramSampleCount(t, reg, "coverage_calculation_duration_seconds", map[string]string{"model": "hata"}))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Use(collector.Middleware)
	router.Post("/coverage/calc", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/coverage/calc", nil),
		httptest.NewRequest(http.MethodGet, "/health", nil),
		httptest.NewRequest(http.MethodGet, "/health", nil),
	} {
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("POST", "/coverage/calc", "400")))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("GET", "/health", "200")))
}

func TestMetricsHandlerExposesCoverageSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	require.NoError(t, err)
	collector.ObserveCalculation(models.ModelLongleyRice, coverage.OutcomeOK, 5*time.Millisecond, 10)

	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	text := string(body)
	for _, want := range []string{
		`coverage_calculations_total{model="longley_rice",outcome="ok"} 1`,
		"coverage_grid_cells_count 1",
		"coverage_calculation_duration_seconds_bucket",
	} {
		assert.True(t, strings.Contains(text, want), "metrics output missing %q", want)
	}
}

func TestNewCollectorReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	require.NoError(t, err)
	second, err := NewCollector(reg)
	require.NoError(t, err)

	assert.Same(t, first.Calculations, second.Calculations)
}

func histogramSampleCount(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) uint64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelsMatch(m, labels) {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	t.Fatalf("histogram %s with labels %v not found", name, labels)
	return 0
}

func labelsMatch(m *dto.Metric, want map[string]string) bool {
	got := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}
