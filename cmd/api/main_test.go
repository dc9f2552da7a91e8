package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mwork/points-api/internal/config"
	"github.com/mwork/points-api/internal/domain/points"
	"github.com/mwork/points-api/internal/pkg/metrics"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := points.NewService(points.NewLedger(), m)
	cfg := &config.Config{
		Env:            "test",
		RequestTimeout: 5 * time.Second,
		AllowedOrigins: []string{"*"},
	}

	return newRouter(cfg, points.NewHandler(svc), m, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}

func TestRouter_RootAndHealth(t *testing.T) {
	r := newTestRouter(t)

	t.Run("root usage message", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		if rr.Body.String() != usageMessage {
			t.Fatalf("unexpected body %q", rr.Body.String())
		}
	})

	t.Run("health", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
	})

	t.Run("request id echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if got := rr.Header().Get("X-Request-ID"); got != "req-123" {
			t.Fatalf("expected request id req-123, got %q", got)
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rr.Code)
		}
	})
}

func TestRouter_PointsFlowAndMetrics(t *testing.T) {
	r := newTestRouter(t)

	post := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	if rr := post("/points/transaction", `{"payer":"DANNON","points":300,"timestamp":"2020-10-31T10:00:00Z"}`); rr.Code != http.StatusOK {
		t.Fatalf("add transaction: expected 200, got %d", rr.Code)
	}

	rr := post("/points/spend", `{"points":100}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("spend: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var deltas []points.PayerDelta
	if err := json.NewDecoder(rr.Body).Decode(&deltas); err != nil {
		t.Fatalf("decode spend: %v", err)
	}
	if len(deltas) != 1 || deltas[0].Payer != "DANNON" || deltas[0].Points != -100 {
		t.Fatalf("unexpected deltas %+v", deltas)
	}

	mr := httptest.NewRecorder()
	r.ServeHTTP(mr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if mr.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", mr.Code)
	}
	body := mr.Body.String()
	for _, want := range []string{
		"points_ledger_points_spent_total 100",
		`points_http_requests_total{method="POST",route="/points/spend",status="200"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected metrics output to contain %q", want)
		}
	}
}
