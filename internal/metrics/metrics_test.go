package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_Conversions(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordConversion()
	c.RecordConversion()
	c.RecordConversionFallback()

	if got := testutil.ToFloat64(c.conversions); got != 2 {
		t.Errorf("conversions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.fallbacks); got != 1 {
		t.Errorf("fallbacks = %v, want 1", got)
	}
}

func TestCollector_HTTPRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest("/api/v1/days/{date}", http.MethodGet, 200, 5*time.Millisecond)
	c.RecordHTTPRequest("/api/v1/days/{date}", http.MethodGet, 400, time.Millisecond)

	got := testutil.ToFloat64(c.httpRequests.WithLabelValues("/api/v1/days/{date}", "GET", "200"))
	if got != 1 {
		t.Errorf("requests{status=200} = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(c.httpDuration); n != 1 {
		t.Errorf("duration series = %d, want 1", n)
	}
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordConversion()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "amlich_conversions_total 1") {
		t.Errorf("response should contain amlich_conversions_total, got:\n%s", body)
	}
}
