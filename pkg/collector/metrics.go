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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	collectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nodediag_collection_duration_seconds",
			Help:    "Time taken by a complete collection including persistence",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	collectionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodediag_collection_total",
			Help: "Total number of collection attempts",
		},
		[]string{"status"}, // success or error
	)

	persistedFiles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nodediag_persisted_files",
			Help: "Number of data files written by the last collection",
		},
	)
)
