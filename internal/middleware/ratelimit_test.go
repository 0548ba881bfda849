// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestIPRateLimiterAllowsWithinLimit(t *testing.T) {
	rl := NewIPRateLimiter(3, time.Minute)
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}
}

func TestIPRateLimiterBlocksOverLimit(t *testing.T) {
	rl := NewIPRateLimiter(2, time.Minute)
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	send("10.0.0.1:1234")
	send("10.0.0.1:1234")

	rec := send("10.0.0.1:1234")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}
	if !strings.Contains(rec.Body.String(), "rate_limited") {
		t.Errorf("body = %s", rec.Body.String())
	}

	// A different address has its own allowance.
	if rec := send("10.0.0.2:1234"); rec.Code != http.StatusNoContent {
		t.Errorf("other address blocked: status = %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"remote addr with port", "192.168.1.10:5555", "", "", "192.168.1.10"},
		{"x-forwarded-for single", "10.0.0.1:80", "203.0.113.7", "", "203.0.113.7"},
		{"x-forwarded-for chain takes leftmost", "10.0.0.1:80", "203.0.113.7, 10.0.0.2", "", "203.0.113.7"},
		{"x-real-ip", "10.0.0.1:80", "", "203.0.113.9", "203.0.113.9"},
		{"x-forwarded-for beats x-real-ip", "10.0.0.1:80", "203.0.113.7", "203.0.113.9", "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
