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
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/node-diagnostics/pkg/errors"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	contextKeyRequestID  contextKey = "requestID"
	contextKeyAPIVersion contextKey = "apiVersion"
)

// RequestID returns the request ID assigned by the middleware, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}

// withMiddleware wraps handlers with common middleware
func (s *Server) withMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	return s.metricsMiddleware(
		s.versionMiddleware(
			s.requestIDMiddleware(
				s.panicRecoveryMiddleware( // Recover first to prevent token waste on panics
					s.rateLimitMiddleware(
						s.loggingMiddleware(handler),
					),
				),
			),
		),
	)
}

// versionMiddleware handles API version negotiation and sets version header
func (s *Server) versionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := negotiateAPIVersion(r)
		SetAPIVersionHeader(w, version)

		ctx := context.WithValue(r.Context(), contextKeyAPIVersion, version)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// requestIDMiddleware extracts or generates request IDs
func (s *Server) requestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		w.Header().Set("X-Request-Id", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// rateLimitMiddleware throttles requests that may start a collection. Reads
// are never throttled.
func (s *Server) rateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		now := time.Now()
		res := s.rateLimiter.ReserveN(now, 1)
		if delay := res.DelayFrom(now); !res.OK() || delay > 0 {
			res.CancelAt(now)
			collectThrottled.WithLabelValues(r.URL.Path).Inc()
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(res.OK(), delay, s.config.CollectInterval)))
			WriteError(w, r, http.StatusTooManyRequests, errors.ErrCodeRateLimitExceeded,
				"Collection rate limit exceeded", true, map[string]any{
					"interval": s.config.CollectInterval.String(),
					"burst":    s.config.CollectBurst,
				})
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(s.config.CollectBurst))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, int(s.rateLimiter.TokensAt(now)))))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(now.Add(s.config.CollectInterval).Unix(), 10))

		next.ServeHTTP(w, r)
	}
}

// retryAfterSeconds rounds the wait for the next admission up to whole
// seconds. A limiter that can never admit reports one interval.
func retryAfterSeconds(ok bool, delay, interval time.Duration) int {
	if !ok {
		delay = interval
	}
	secs := int((delay + time.Second - 1) / time.Second)
	return max(1, secs)
}

// panicRecoveryMiddleware recovers from panics
func (s *Server) panicRecoveryMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				panicRecoveries.Inc()
				var errMsg string
				switch v := err.(type) {
				case error:
					errMsg = v.Error()
				default:
					errMsg = fmt.Sprintf("%v", v)
				}
				slog.Error("panic recovered",
					"error", errMsg,
					"requestID", RequestID(r.Context()),
					"path", r.URL.Path,
					"method", r.Method,
				)
				WriteError(w, r, http.StatusInternalServerError, errors.ErrCodeInternal,
					"Internal server error", true, nil)
			}
		}()
		next.ServeHTTP(w, r)
	}
}

// loggingMiddleware logs requests
func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := RequestID(r.Context())

		rw := newResponseWriter(w)

		slog.Debug("request started",
			"requestID", requestID,
			"method", r.Method,
			"path", r.URL.Path,
		)

		next.ServeHTTP(rw, r)

		slog.Debug("request completed",
			"requestID", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
