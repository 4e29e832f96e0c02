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

// Package server is the HTTP front end used by "nodediag serve".
//
// The server wraps API routes supplied by the caller in a fixed middleware
// chain and adds system endpoints that bypass it.
//
// # Middleware
//
// Requests to API routes pass, outermost first, through:
//
//   - Prometheus instrumentation (nodediag_http_* metrics)
//   - API version negotiation from the Accept header
//   - Request ID assignment (X-Request-Id, UUID)
//   - Panic recovery
//   - Token bucket rate limiting (golang.org/x/time/rate)
//   - Debug request logging
//
// # Usage
//
//	s := server.New(
//	    server.WithName("nodediag"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/collect": h.HandleCollect,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// # System Endpoints
//
// GET /health - liveness, always 200 while the process serves.
//
// GET /ready - readiness, 503 until the listener is up and after shutdown begins.
//
// GET /metrics - Prometheus exposition of the process registry, including
// the engine and collector metrics.
//
// # Errors
//
// Every error response is an ErrorResponse. WriteErrorFromErr maps the
// code of a structured error to an HTTP status:
//
//	INVALID_REQUEST, FILTER_REQUIRED  400
//	BLACKLISTED                       403
//	NOT_FOUND                         404
//	METHOD_NOT_ALLOWED                405
//	RATE_LIMIT_EXCEEDED               429
//	UNAVAILABLE                       503
//	TIMEOUT                           504
//	anything else                     500
//
// # Configuration
//
// PORT and SHUTDOWN_TIMEOUT_SECONDS override the defaults of NewConfig.
package server
