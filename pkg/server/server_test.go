// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestNew(t *testing.T) {
	s := New(WithHandler(map[string]http.HandlerFunc{"/test": okHandler}))
	if s == nil {
		t.Fatal("expected server instance, got nil")
		return
	}

	if s.config == nil {
		t.Error("expected config to be initialized")
	}

	if s.httpServer == nil {
		t.Error("expected httpServer to be initialized")
	}

	if s.rateLimiter == nil {
		t.Error("expected rateLimiter to be initialized")
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", w.Header().Get("Content-Type"))
	}
}

func TestHealthEndpointMethodNotAllowed(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	w := httptest.NewRecorder()

	s.handleHealth(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}
}

func TestReadyEndpoint(t *testing.T) {
	s := New()

	tests := []struct {
		name           string
		ready          bool
		expectedStatus int
	}{
		{
			name:           "ready state",
			ready:          true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not ready state",
			ready:          false,
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.setReady(tt.ready)

			req := httptest.NewRequest(http.MethodGet, "/ready", nil)
			w := httptest.NewRecorder()

			s.handleReady(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := New(WithHandler(map[string]http.HandlerFunc{"/test": okHandler}))

	// generate at least one instrumented request
	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if !strings.Contains(w.Body.String(), "nodediag_http_requests_total") {
		t.Error("expected nodediag_http_requests_total in metrics output")
	}
}

func TestRateLimiting(t *testing.T) {
	cfg := NewConfig()
	cfg.CollectInterval = time.Minute
	cfg.CollectBurst = 1
	cfg.Handlers = map[string]http.HandlerFunc{"/test": okHandler}

	s := New(WithConfig(cfg))

	handler := s.withMiddleware(s.config.Handlers["/test"])

	// First collection should succeed
	w1 := httptest.NewRecorder()
	handler(w1, httptest.NewRequest(http.MethodPost, "/test", nil))

	if w1.Code != http.StatusOK {
		t.Errorf("expected first collection to succeed with status 200, got %d", w1.Code)
	}

	// Second collection within the interval should be throttled
	w2 := httptest.NewRecorder()
	handler(w2, httptest.NewRequest(http.MethodPost, "/test", nil))

	if w2.Code != http.StatusTooManyRequests {
		t.Errorf("expected rate limit error with status 429, got %d", w2.Code)
	}

	retry, err := strconv.Atoi(w2.Header().Get("Retry-After"))
	if err != nil {
		t.Fatalf("expected numeric Retry-After header, got %q", w2.Header().Get("Retry-After"))
	}
	if retry < 50 || retry > 60 {
		t.Errorf("expected Retry-After close to the collect interval, got %d", retry)
	}

	// Reads are never throttled
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		if w.Code != http.StatusOK {
			t.Errorf("expected GET %d to succeed, got %d", i, w.Code)
		}
	}
}

func TestRateLimiting_Disabled(t *testing.T) {
	s := New(
		WithCollectLimit(0, 0),
		WithHandler(map[string]http.HandlerFunc{"/test": okHandler}),
	)
	handler := s.withMiddleware(s.config.Handlers["/test"])

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodPost, "/test", nil))
		if w.Code != http.StatusOK {
			t.Errorf("expected POST %d to succeed without throttling, got %d", i, w.Code)
		}
	}
}

func TestPanicRecovery(t *testing.T) {
	panicHandler := func(_ http.ResponseWriter, _ *http.Request) {
		panic("test panic")
	}

	s := New(WithHandler(map[string]http.HandlerFunc{"/panic": panicHandler}))

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()

	// Should not panic, should return 500
	s.panicRecoveryMiddleware(panicHandler)(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d after panic recovery, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestGracefulShutdown(t *testing.T) {
	cfg := NewConfig()
	cfg.Address = "127.0.0.1"
	cfg.Port = 0 // any free port
	cfg.ShutdownTimeout = 100 * time.Millisecond
	cfg.Handlers = map[string]http.HandlerFunc{"/test": okHandler}

	s := New(WithConfig(cfg))

	ctx, cancel := context.WithCancel(context.TODO())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start(ctx)
	}()

	// Wait for server to start
	time.Sleep(50 * time.Millisecond)

	cancel()

	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("expected clean shutdown, got error: %v", err)
		}
	case <-time.After(time.Second):
		t.Error("shutdown timed out")
	}

	if s.isReady() {
		t.Error("expected server to be not ready after shutdown")
	}
}

func TestDefaultRootHandler(t *testing.T) {
	s := New(WithHandler(map[string]http.HandlerFunc{"/v1/collect": okHandler}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler := s.config.Handlers["/"]
	if handler == nil {
		t.Fatal("expected default root handler to be created")
	}

	handler(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	body := w.Body.String()
	for _, route := range []string{"/v1/collect", "/health", "/metrics"} {
		if !strings.Contains(body, route) {
			t.Errorf("expected response to contain %s route", route)
		}
	}
}

func TestDefaultRootHandlerUnknownPath(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()

	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestDefaultRootHandlerMethodNotAllowed(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	w := httptest.NewRecorder()

	s.config.Handlers["/"](w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}
}

func TestCustomRootHandlerNotOverridden(t *testing.T) {
	customCalled := false
	routes := map[string]http.HandlerFunc{
		"/": func(w http.ResponseWriter, _ *http.Request) {
			customCalled = true
			w.WriteHeader(http.StatusOK)
		},
	}

	s := New(WithHandler(routes))

	s.config.Handlers["/"](httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !customCalled {
		t.Error("expected custom root handler to be called, not default")
	}
}

func TestOptions(t *testing.T) {
	s := New(
		WithName("custom"),
		WithVersion("1.2.3"),
		WithAddress("127.0.0.1", 9191),
	)

	if s.config.Name != "custom" {
		t.Errorf("expected server name custom, got %s", s.config.Name)
	}
	if s.config.Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", s.config.Version)
	}
	if s.httpServer.Addr != "127.0.0.1:9191" {
		t.Errorf("expected address 127.0.0.1:9191, got %s", s.httpServer.Addr)
	}
}

func TestWithConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.Name = "test-server"
	cfg.Port = 9090
	cfg.CollectBurst = 5

	s := New(WithConfig(cfg))

	if s.config.Name != "test-server" {
		t.Errorf("expected name test-server, got %s", s.config.Name)
	}

	if s.config.Port != 9090 {
		t.Errorf("expected port 9090, got %d", s.config.Port)
	}

	if s.config.CollectBurst != 5 {
		t.Errorf("expected collect burst 5, got %d", s.config.CollectBurst)
	}
}
