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

package datasource

import (
	"context"
	"path"

	"github.com/NVIDIA/node-diagnostics/pkg/engine"
	"github.com/NVIDIA/node-diagnostics/pkg/errors"
)

// GenerateFunc produces content lines in-process.
type GenerateFunc func(ctx context.Context, hc *HostContext) ([]string, error)

type generated struct {
	rel    string
	source string
	fn     GenerateFunc
}

// Generated wraps fn as a provider. The lines it returns are stored under
// rel and go through the same filter and redaction steps as file content.
func Generated(rel, source string, fn GenerateFunc) Provider {
	return &generated{rel: path.Clean(rel), source: source, fn: fn}
}

func (p *generated) Deps() []*engine.Component { return nil }

func (p *generated) Invoke(ctx context.Context, hc *HostContext, call *engine.Call) (any, error) {
	lines, err := p.fn(ctx, hc)
	if err != nil {
		if errors.CodeOf(err) == errors.ErrCodeInternal {
			return nil, errors.Wrap(errors.ErrCodeUnreadable, "Failed to read "+p.source, err)
		}
		return nil, err
	}
	if len(lines) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyContent, "Empty content")
	}

	var b []byte
	for _, l := range lines {
		b = append(b, l...)
		b = append(b, '\n')
	}
	c, err := newContent(call, p.rel, b)
	if err != nil {
		return nil, err
	}
	return &GeneratedResult{content: *c, Source: p.source}, nil
}
