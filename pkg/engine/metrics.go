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

package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nodediag_run_duration_seconds",
			Help:    "Time taken to resolve a complete component graph",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	componentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nodediag_component_duration_seconds",
			Help:    "Time taken by individual component bodies",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"kind"}, // datasource, parser, combiner
	)

	componentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodediag_component_total",
			Help: "Total number of components reaching each terminal state",
		},
		[]string{"state"}, // ran-ok, ran-failed, skipped
	)
)
