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
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/NVIDIA/node-diagnostics/pkg/engine"
	"github.com/NVIDIA/node-diagnostics/pkg/errors"
)

// Provider produces content for one datasource component.
type Provider interface {
	// Invoke collects the content. The value is a ContentResult, or a
	// []ContentResult for multi-output providers.
	Invoke(ctx context.Context, hc *HostContext, call *engine.Call) (any, error)
	// Deps returns the components the provider reads, besides the host context.
	Deps() []*engine.Component
}

// multiOutput is implemented by providers that yield []ContentResult.
type multiOutput interface {
	multiOutput()
}

// alternatives is implemented by providers that succeed when any one of
// their dependencies is available.
type alternatives interface {
	alternatives()
}

// Spec builds a datasource component from p. The component requires
// HostContextComponent and every dependency of p, except for providers
// such as FirstOf whose dependencies are only optional. Multi-output
// providers are flagged accordingly. opts are applied last.
func Spec(name string, p Provider, opts ...engine.Option) *engine.Component {
	all := []engine.Option{engine.Requires(HostContextComponent)}
	if _, ok := p.(alternatives); ok {
		all = append(all, engine.Optional(p.Deps()...))
	} else {
		all = append(all, engine.Requires(p.Deps()...))
	}
	if _, ok := p.(multiOutput); ok {
		all = append(all, engine.MultiOutput())
	}
	all = append(all, opts...)

	return engine.New(name, engine.KindDatasource, func(ctx context.Context, call *engine.Call) (any, error) {
		hc, err := FromCall(call)
		if err != nil {
			return nil, err
		}
		return p.Invoke(ctx, hc, call)
	}, all...)
}

// dependency returns the value dep produced in this run.
func dependency(call *engine.Call, dep *engine.Component) (any, error) {
	v, ok := call.Get(dep)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "No value from "+dep.Name)
	}
	return v, nil
}

// Head returns a component whose value is the first successful result of the
// multi-output component dep.
func Head(name string, dep *engine.Component, opts ...engine.Option) *engine.Component {
	opts = append([]engine.Option{engine.Requires(dep)}, opts...)
	return engine.New(name, engine.KindDatasource, func(_ context.Context, call *engine.Call) (any, error) {
		v, _ := call.Get(dep)
		for _, r := range Results(v) {
			if r.Origin() != OriginFailed && r.Err() == nil {
				return r, nil
			}
		}
		return nil, errors.New(errors.ErrCodeEmptyContent, "No results in "+dep.Name)
	}, opts...)
}

// firstError combines the failures of alternatives. The code of the last
// failure is kept so that a missing file stays NOT_FOUND.
func firstError(msg string, errs *multierror.Error) error {
	if errs == nil || len(errs.Errors) == 0 {
		return errors.New(errors.ErrCodeNotFound, msg)
	}
	if len(errs.Errors) == 1 {
		return errs.Errors[0]
	}
	errs.ErrorFormat = func(es []error) string {
		parts := make([]string, len(es))
		for i, e := range es {
			parts[i] = e.Error()
		}
		return strings.Join(parts, "; ")
	}
	last := errs.Errors[len(errs.Errors)-1]
	return errors.Wrap(errors.CodeOf(last), msg, errs)
}

// items converts the value of a list-producing component into strings.
func items(v any) ([]string, error) {
	switch t := v.(type) {
	case []string:
		return t, nil
	case string:
		return strings.Fields(t), nil
	case []any:
		out := make([]string, len(t))
		for i, x := range t {
			out[i] = fmt.Sprint(x)
		}
		return out, nil
	case ContentResult:
		return nonEmpty(t.Lines()), nil
	case []ContentResult:
		var out []string
		for _, r := range t {
			out = append(out, nonEmpty(r.Lines())...)
		}
		return out, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidRequest, "cannot iterate over %T", v)
	}
}

func nonEmpty(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
