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
	"bytes"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/node-diagnostics/pkg/errors"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// WriteError writes an ErrorResponse with the given status.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code errors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID := RequestID(r.Context())
	if requestID == "" {
		requestID = uuid.New().String()
	}

	RespondJSON(w, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// WriteErrorFromErr derives status, code and retryability from err.
// Context attached to a StructuredError is merged into details.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, message string, details map[string]any) {
	code := errors.CodeOf(err)

	var se *errors.StructuredError
	if stderrors.As(err, &se) {
		details = mergeDetails(details, se.Context)
	}
	details = mergeDetails(details, map[string]any{"error": err.Error()})

	WriteError(w, r, HTTPStatusFromCode(code), code, message, retryableFromCode(code), details)
}

// HTTPStatusFromCode maps an error code to an HTTP status.
func HTTPStatusFromCode(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeInvalidRequest, errors.ErrCodeFilterRequired:
		return http.StatusBadRequest
	case errors.ErrCodeBlacklisted:
		return http.StatusForbidden
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case errors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case errors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func retryableFromCode(code errors.ErrorCode) bool {
	switch code {
	case errors.ErrCodeTimeout, errors.ErrCodeUnavailable,
		errors.ErrCodeRateLimitExceeded, errors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

// mergeDetails returns a new map with b's entries overriding a's, or nil if both are empty.
func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// RespondJSON writes a JSON response with the given status code and data.
// It buffers the JSON encoding before writing headers to prevent partial responses.
func RespondJSON(w http.ResponseWriter, statusCode int, data any) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		slog.Error("json encoding failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(buf.Bytes()); err != nil {
		// Connection is broken, log but can't recover
		slog.Warn("response write failed", "error", err)
	}
}

// responseWriter records the status code written through it.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader writes the status code once; later calls are ignored.
func (rw *responseWriter) WriteHeader(statusCode int) {
	if rw.written {
		return
	}
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
	rw.written = true
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Status returns the HTTP status code that was written.
func (rw *responseWriter) Status() int {
	return rw.statusCode
}
