package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAllow_BurstThenReject(t *testing.T) {
	l := New(1, 3)

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d rejected within burst", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("request beyond burst allowed")
	}
}

func TestAllow_PerClientBuckets(t *testing.T) {
	l := New(1, 1)

	if !l.Allow("10.0.0.1") {
		t.Fatal("first client rejected")
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("first client not throttled")
	}
	if !l.Allow("10.0.0.2") {
		t.Fatal("second client throttled by first client's bucket")
	}
}

func TestMiddleware(t *testing.T) {
	l := New(1, 1)
	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:54321"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:54321"
	if got := ClientIP(req); got != "10.0.0.1" {
		t.Errorf("ClientIP = %q, want 10.0.0.1", got)
	}

	req.Header.Set("X-Real-IP", "203.0.113.9")
	if got := ClientIP(req); got != "203.0.113.9" {
		t.Errorf("ClientIP = %q, want header value", got)
	}
}
