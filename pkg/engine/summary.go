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
	"time"

	"github.com/NVIDIA/node-diagnostics/pkg/errors"
)

// ComponentStatus is the terminal state of one component after a run.
type ComponentStatus struct {
	Name     string           `json:"name" yaml:"name"`
	Kind     Kind             `json:"kind" yaml:"kind"`
	State    State            `json:"state" yaml:"state"`
	Code     errors.ErrorCode `json:"code,omitempty" yaml:"code,omitempty"`
	Error    string           `json:"error,omitempty" yaml:"error,omitempty"`
	Reason   string           `json:"reason,omitempty" yaml:"reason,omitempty"`
	Duration time.Duration    `json:"duration" yaml:"duration"`
}

// Summary describes a completed run.
type Summary struct {
	RunID     string        `json:"runId" yaml:"runId"`
	Mode      Mode          `json:"mode" yaml:"mode"`
	Executed  int           `json:"executed" yaml:"executed"`
	Succeeded int           `json:"succeeded" yaml:"succeeded"`
	Failed    int           `json:"failed" yaml:"failed"`
	Skipped   int           `json:"skipped" yaml:"skipped"`
	Duration  time.Duration `json:"duration" yaml:"duration"`

	Components []ComponentStatus `json:"components" yaml:"components"`
}

// Status returns the status of the named component.
func (s *Summary) Status(name string) (ComponentStatus, bool) {
	for _, c := range s.Components {
		if c.Name == name {
			return c, true
		}
	}
	return ComponentStatus{}, false
}

func newSummary(id string, mode Mode, g *Graph, b *Broker, elapsed time.Duration) *Summary {
	s := &Summary{
		RunID:      id,
		Mode:       mode,
		Duration:   elapsed,
		Components: make([]ComponentStatus, 0, g.Len()),
	}
	for _, c := range g.Order() {
		st := ComponentStatus{
			Name:     c.Name,
			Kind:     c.Kind,
			State:    b.State(c),
			Duration: b.Duration(c),
		}
		if b.Invoked(c) {
			s.Executed++
		}
		switch st.State {
		case StateOK:
			s.Succeeded++
		case StateFailed:
			s.Failed++
			if fs := b.Failures(c); len(fs) > 0 {
				last := fs[len(fs)-1]
				st.Error = last.Error()
				st.Code = errors.CodeOf(last.Err)
			}
		case StateSkipped:
			s.Skipped++
			if r, ok := b.Skipped(c); ok {
				st.Reason = r.String()
			}
		}
		s.Components = append(s.Components, st)
	}
	return s
}

// TableHeader returns the column names of TableRows.
func (s *Summary) TableHeader() []string {
	return []string{"COMPONENT", "KIND", "STATE", "DURATION", "DETAIL"}
}

// TableRows returns one row per component in resolution order.
func (s *Summary) TableRows() [][]string {
	rows := make([][]string, 0, len(s.Components))
	for _, c := range s.Components {
		detail := c.Error
		if detail == "" {
			detail = c.Reason
		}
		rows = append(rows, []string{
			c.Name, string(c.Kind), string(c.State), c.Duration.Round(time.Millisecond).String(), detail,
		})
	}
	return rows
}
