package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestLimiter_Allow(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("request over the limit should be refused")
	}

	// Other keys have their own window.
	if !l.Allow("5.6.7.8") {
		t.Error("a different key should not be limited")
	}

	if got := l.Remaining("1.2.3.4"); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}

	l.Reset("1.2.3.4")
	if !l.Allow("1.2.3.4") {
		t.Error("request after Reset should be allowed")
	}
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name       string
		remoteAddr string
		xff        string
		realIP     string
		want       string
	}{
		{"remote addr with port", "10.0.0.1:54321", "", "", "10.0.0.1"},
		{"remote addr without port", "10.0.0.1", "", "", "10.0.0.1"},
		{"x-forwarded-for single", "10.0.0.1:54321", "203.0.113.7", "", "203.0.113.7"},
		{"x-forwarded-for chain", "10.0.0.1:54321", "203.0.113.7, 198.51.100.2", "", "203.0.113.7"},
		{"x-forwarded-for padded", "10.0.0.1:54321", "  203.0.113.7  ", "", "203.0.113.7"},
		{"x-real-ip fallback", "10.0.0.1:54321", "", "203.0.113.9", "203.0.113.9"},
		{"x-forwarded-for wins over x-real-ip", "10.0.0.1:54321", "203.0.113.7", "203.0.113.9", "203.0.113.7"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.realIP != "" {
				r.Header.Set("X-Real-IP", tc.realIP)
			}
			if got := ClientIP(r); got != tc.want {
				t.Errorf("ClientIP = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPerIP(t *testing.T) {
	l := New(1, time.Minute)
	handler := PerIP(l, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/users/search?q=a", nil)
	req.RemoteAddr = "10.0.0.1:54321"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: status %d, want %d", rec.Code, http.StatusOK)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status %d, want %d", rec.Code, http.StatusTooManyRequests)
	}

	// A different client is unaffected.
	other := httptest.NewRequest(http.MethodGet, "/users/search?q=a", nil)
	other.RemoteAddr = "10.0.0.2:54321"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Fatalf("other client: status %d, want %d", rec.Code, http.StatusOK)
	}
}
