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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Server is the HTTP front end of the collector.
type Server struct {
	config      *Config
	httpServer  *http.Server
	rateLimiter *rate.Limiter
	mu          sync.RWMutex
	ready       bool
}

// Option configures a Server.
type Option func(*Server)

// WithName sets the server name reported by the root handler.
func WithName(name string) Option {
	return func(s *Server) {
		s.config.Name = name
	}
}

// WithVersion sets the server version reported by the root handler.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.config.Version = version
	}
}

// WithHandler adds API routes. They are served behind the middleware chain.
func WithHandler(handlers map[string]http.HandlerFunc) Option {
	return func(s *Server) {
		if s.config.Handlers == nil {
			s.config.Handlers = make(map[string]http.HandlerFunc)
		}
		for path, h := range handlers {
			s.config.Handlers[path] = h
		}
	}
}

// WithAddress sets the listen address and port.
func WithAddress(address string, port int) Option {
	return func(s *Server) {
		s.config.Address = address
		s.config.Port = port
	}
}

// WithCollectLimit admits one collection per interval with up to burst
// back to back. A zero interval disables throttling.
func WithCollectLimit(interval time.Duration, burst int) Option {
	return func(s *Server) {
		s.config.CollectInterval = interval
		s.config.CollectBurst = burst
	}
}

// WithConfig replaces the configuration.
func WithConfig(cfg *Config) Option {
	return func(s *Server) {
		s.config = cfg
	}
}

// New creates a server. The root route lists the registered routes unless
// a handler for "/" is supplied.
func New(opts ...Option) *Server {
	s := &Server{
		config: NewConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.config.Handlers == nil {
		s.config.Handlers = make(map[string]http.HandlerFunc)
	}
	if _, ok := s.config.Handlers["/"]; !ok {
		s.config.Handlers["/"] = s.handleDefault
	}

	s.rateLimiter = rate.NewLimiter(rate.Every(s.config.CollectInterval), s.config.CollectBurst)
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Address, s.config.Port),
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) setReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

func (s *Server) isReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()
	s.setReady(true)

	slog.Info("server listening", "address", s.httpServer.Addr)

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.setReady(false)
		return err
	}
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.setReady(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down server")
	return s.httpServer.Shutdown(shutdownCtx)
}

// Run starts the server and blocks until ctx is canceled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	slog.Info("server config",
		slog.String("name", s.config.Name),
		slog.String("version", s.config.Version),
		slog.String("address", s.httpServer.Addr),
		slog.Duration("collectInterval", s.config.CollectInterval),
		slog.Int("collectBurst", s.config.CollectBurst),
		slog.Duration("readTimeout", s.config.ReadTimeout),
		slog.Duration("writeTimeout", s.config.WriteTimeout),
		slog.Duration("idleTimeout", s.config.IdleTimeout),
		slog.Duration("shutdownTimeout", s.config.ShutdownTimeout),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Start(gctx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
