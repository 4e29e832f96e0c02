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
	"time"

	"github.com/NVIDIA/node-diagnostics/pkg/cleaner"
	"github.com/NVIDIA/node-diagnostics/pkg/engine"
)

// Record is the metadata persisted for one datasource component.
type Record struct {
	Name       string         `json:"name" yaml:"name"`
	State      engine.State   `json:"state" yaml:"state"`
	Results    []ResultRecord `json:"results" yaml:"results"`
	Errors     []string       `json:"errors" yaml:"errors"`
	SkipReason string         `json:"skip_reason,omitempty" yaml:"skip_reason,omitempty"`
	ExecTime   float64        `json:"exec_time" yaml:"exec_time"`
}

// ResultRecord describes one persisted content result.
type ResultRecord struct {
	Type      string          `json:"type" yaml:"type"`
	Object    ObjectRecord    `json:"object" yaml:"object"`
	Redaction *cleaner.Report `json:"redaction,omitempty" yaml:"redaction,omitempty"`
}

// ObjectRecord locates the content of a result.
type ObjectRecord struct {
	RelativePath string `json:"relative_path" yaml:"relative_path"`
	Source       string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Result is the outcome of a collection.
type Result struct {
	// Archive is the directory holding meta_data and data.
	Archive string `json:"archive" yaml:"archive"`
	// Tarball is the compressed archive, when requested.
	Tarball string `json:"tarball,omitempty" yaml:"tarball,omitempty"`
	// Persisted is the number of data files written.
	Persisted int `json:"persisted" yaml:"persisted"`
	// Redaction totals what the cleaner changed.
	Redaction cleaner.Report `json:"redaction" yaml:"redaction"`
	// Duration covers resolution and persistence.
	Duration time.Duration `json:"duration" yaml:"duration"`
	// Summary is the scheduler summary of the run.
	Summary *engine.Summary `json:"summary" yaml:"summary"`
}

// TableHeader implements the table layout of the component summary.
func (r *Result) TableHeader() []string {
	return r.Summary.TableHeader()
}

// TableRows returns the summary rows followed by the archive location.
func (r *Result) TableRows() [][]string {
	rows := r.Summary.TableRows()
	rows = append(rows, []string{"archive", "", "", r.Duration.Round(time.Millisecond).String(), r.Archive})
	if r.Tarball != "" {
		rows = append(rows, []string{"tarball", "", "", "", r.Tarball})
	}
	return rows
}
