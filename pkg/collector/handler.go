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

package collector

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/NVIDIA/node-diagnostics/pkg/defaults"
	"github.com/NVIDIA/node-diagnostics/pkg/errors"
	"github.com/NVIDIA/node-diagnostics/pkg/server"
)

// Handler serves collections over HTTP.
type Handler struct {
	// New builds a fresh Collector for each request.
	New func() (*Collector, error)

	// Timeout bounds a collection. Zero means defaults.ServerCollectTimeout.
	Timeout time.Duration
}

// HandleCollect runs one collection and responds with its Result.
//
// POST /v1/collect?only=a,b&compress=true
func (h *Handler) HandleCollect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		server.WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{
				"method":  r.Method,
				"allowed": []string{http.MethodPost},
			})
		return
	}

	c, err := h.collector(r)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid collection request", nil)
		return
	}

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = defaults.ServerCollectTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	slog.Debug("collection requested",
		"requestID", server.RequestID(r.Context()),
		"only", c.Only,
		"compress", c.Compress)

	res, err := c.Collect(ctx)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Collection failed", nil)
		return
	}

	server.RespondJSON(w, http.StatusOK, res)
}

// HandleGraph responds with the names of the components a collection would
// resolve, in resolution order.
//
// GET /v1/graph?only=a,b
func (h *Handler) HandleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		server.WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, nil)
		return
	}

	c, err := h.collector(r)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid graph request", nil)
		return
	}
	g, err := c.Graph()
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to build graph", nil)
		return
	}

	order := g.Order()
	names := make([]string, len(order))
	for i, comp := range order {
		names[i] = comp.Name
	}
	server.RespondJSON(w, http.StatusOK, map[string]any{"components": names})
}

// collector builds the per-request Collector and applies query overrides.
func (h *Handler) collector(r *http.Request) (*Collector, error) {
	if h.New == nil {
		return nil, errors.New(errors.ErrCodeUnavailable, "collector not configured")
	}
	c, err := h.New()
	if err != nil {
		return nil, err
	}

	q := r.URL.Query()
	for _, v := range q["only"] {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.Only = append(c.Only, name)
			}
		}
	}
	if v := q.Get("compress"); v != "" {
		compress, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"compress must be a boolean", map[string]any{"compress": v})
		}
		c.Compress = compress
	}
	return c, nil
}
