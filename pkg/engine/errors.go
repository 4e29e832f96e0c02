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
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/NVIDIA/node-diagnostics/pkg/errors"
)

var (
	// ErrInvalidGraph is the root of all structural errors.
	ErrInvalidGraph = stderrors.New("invalid component graph")
	// ErrCycle reports a dependency cycle.
	ErrCycle = fmt.Errorf("%w: cycle detected", ErrInvalidGraph)
)

// MsgFilterRequired is recorded against filterable components collected
// without registered filters.
const MsgFilterRequired = "component requires at least one filter, none registered"

func invalidf(format string, args ...any) error {
	return errors.Wrap(errors.ErrCodeInvalidGraph, fmt.Sprintf(format, args...), ErrInvalidGraph)
}

func cycleError(path []string) error {
	return errors.Wrap(errors.ErrCodeInvalidGraph, "cycle: "+strings.Join(path, " -> "), ErrCycle)
}

// SkipError is returned by a component body that decides it does not apply
// to the host. The component is recorded as skipped, not failed.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return "skipped: " + e.Reason
}

// Skip returns an error requesting that the calling component be skipped.
func Skip(reason string) error {
	return &SkipError{Reason: reason}
}

// IsSkip reports whether err requests a skip.
func IsSkip(err error) bool {
	var se *SkipError
	return stderrors.As(err, &se)
}

func asSkip(err error, target **SkipError) bool {
	return stderrors.As(err, target)
}
