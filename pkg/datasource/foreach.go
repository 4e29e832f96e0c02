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
	"log/slog"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/NVIDIA/node-diagnostics/pkg/engine"
	"github.com/NVIDIA/node-diagnostics/pkg/errors"
)

type foreachExecute struct {
	dep  *engine.Component
	tmpl string
}

// ForeachExecute runs tmpl once per item produced by dep. Each item replaces
// "%s" as a single argument. The value holds one result per item, in item
// order; failed items are FailedResult entries.
func ForeachExecute(dep *engine.Component, tmpl string) Provider {
	return &foreachExecute{dep: dep, tmpl: tmpl}
}

func (*foreachExecute) multiOutput() {}

func (p *foreachExecute) Deps() []*engine.Component { return []*engine.Component{p.dep} }

func (p *foreachExecute) Invoke(ctx context.Context, hc *HostContext, call *engine.Call) (any, error) {
	tokens, err := splitCommand(p.tmpl)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(p.tmpl, "%s") {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "command template has no %s placeholder")
	}
	return foreach(call, p.dep, func(item string) (string, ContentResult, error) {
		argv := make([]string, len(tokens))
		for i, t := range tokens {
			argv[i] = strings.ReplaceAll(t, "%s", item)
		}
		r, err := runCommand(ctx, hc, call, argv)
		if err != nil {
			return strings.Join(argv, " "), nil, err
		}
		return r.Cmd, r, nil
	})
}

type foreachCollect struct {
	dep  *engine.Component
	tmpl string
}

// ForeachCollect reads the file named by tmpl once per item produced by dep,
// with the same result contract as ForeachExecute.
func ForeachCollect(dep *engine.Component, tmpl string) Provider {
	return &foreachCollect{dep: dep, tmpl: tmpl}
}

func (*foreachCollect) multiOutput() {}

func (p *foreachCollect) Deps() []*engine.Component { return []*engine.Component{p.dep} }

func (p *foreachCollect) Invoke(_ context.Context, hc *HostContext, call *engine.Call) (any, error) {
	if !strings.Contains(p.tmpl, "%s") {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "path template has no %s placeholder")
	}
	return foreach(call, p.dep, func(item string) (string, ContentResult, error) {
		path := strings.ReplaceAll(p.tmpl, "%s", item)
		r, err := readFile(hc, call, path)
		if err != nil {
			return path, nil, err
		}
		return path, r, nil
	})
}

// foreach applies fn to every item of dep sequentially. Items run one at a
// time so that fan-out stays within the scheduler's worker bound.
func foreach(call *engine.Call, dep *engine.Component, fn func(item string) (string, ContentResult, error)) (any, error) {
	v, err := dependency(call, dep)
	if err != nil {
		return nil, err
	}
	list, err := items(v)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyContent, "No items from "+dep.Name)
	}

	results := make([]ContentResult, len(list))
	var errs *multierror.Error
	for i, item := range list {
		source, r, err := fn(item)
		if err != nil {
			slog.Debug("foreach item failed",
				slog.String("component", call.Component().Name),
				slog.Int("item", i),
				slog.String("error", err.Error()))
			results[i] = &FailedResult{Source: source, Cause: err}
			errs = multierror.Append(errs, err)
			continue
		}
		results[i] = r
	}

	if errs != nil && len(errs.Errors) == len(list) {
		return nil, firstError("Every item failed", errs)
	}
	return results, nil
}
