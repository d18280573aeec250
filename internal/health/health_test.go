package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandlerReportsHealthy(t *testing.T) {
	h := NewHandler("test")
	h.Register("storage", func(context.Context) error { return nil })

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != StatusHealthy {
		t.Errorf("overall = %q, want healthy", resp.Status)
	}
	if len(resp.Checks) != 1 || resp.Checks[0].Name != "storage" {
		t.Errorf("unexpected checks: %+v", resp.Checks)
	}
}

func TestHandlerReportsUnhealthy(t *testing.T) {
	h := NewHandler("test")
	h.Register("storage", func(context.Context) error { return nil })
	h.Register("redis", func(context.Context) error { return errors.New("connection refused") })

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != StatusUnhealthy {
		t.Errorf("overall = %q, want unhealthy", resp.Status)
	}
}

func TestReadiness(t *testing.T) {
	h := NewHandler("test")

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("empty handler: status = %d, want 200", rec.Code)
	}

	h.Register("storage", func(context.Context) error { return errors.New("down") })
	rec = httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("failing check: status = %d, want 503", rec.Code)
	}
}
