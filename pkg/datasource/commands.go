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

type simpleCommand struct {
	cmd string
}

// SimpleCommand executes a literal command line.
func SimpleCommand(cmd string) Provider {
	return &simpleCommand{cmd: cmd}
}

func (p *simpleCommand) Deps() []*engine.Component { return nil }

func (p *simpleCommand) Invoke(ctx context.Context, hc *HostContext, call *engine.Call) (any, error) {
	argv, err := splitCommand(p.cmd)
	if err != nil {
		return nil, err
	}
	return runCommand(ctx, hc, call, argv)
}

type commandWithArgs struct {
	tmpl string
	dep  *engine.Component
}

// CommandWithArgs executes tmpl once, with each "%s" replaced by the
// arguments produced by dep. dep must yield a string (for a single "%s")
// or a []string with one element per "%s". The substituted line is split
// like a shell would, so a single string may expand to several arguments.
func CommandWithArgs(tmpl string, dep *engine.Component) Provider {
	return &commandWithArgs{tmpl: tmpl, dep: dep}
}

func (p *commandWithArgs) Deps() []*engine.Component { return []*engine.Component{p.dep} }

func (p *commandWithArgs) Invoke(ctx context.Context, hc *HostContext, call *engine.Call) (any, error) {
	v, err := dependency(call, p.dep)
	if err != nil {
		return nil, err
	}
	cmdline, err := substitute(p.tmpl, v)
	if err != nil {
		return nil, err
	}
	argv, err := splitCommand(cmdline)
	if err != nil {
		return nil, err
	}
	return runCommand(ctx, hc, call, argv)
}

func substitute(tmpl string, v any) (string, error) {
	want := strings.Count(tmpl, "%s")
	var args []any
	switch t := v.(type) {
	case string:
		args = []any{t}
	case []string:
		for _, s := range t {
			args = append(args, s)
		}
	default:
		return "", errors.Newf(errors.ErrCodeInvalidRequest, "unsupported command arguments %T", v)
	}
	if len(args) != want {
		return "", errors.Newf(errors.ErrCodeInvalidRequest,
			"command template expects %d arguments, got %d", want, len(args))
	}
	return fmt.Sprintf(tmpl, args...), nil
}

type firstOf struct {
	providers []Provider
}

// FirstOf returns the result of the first provider that succeeds, trying
// them in order. It fails only when every provider fails. A provider whose
// dependency produced no value fails on its own and the next one is tried.
func FirstOf(providers ...Provider) Provider {
	return &firstOf{providers: providers}
}

func (*firstOf) alternatives() {}

func (p *firstOf) Deps() []*engine.Component {
	var deps []*engine.Component
	for _, sub := range p.providers {
		deps = append(deps, sub.Deps()...)
	}
	return deps
}

func (p *firstOf) Invoke(ctx context.Context, hc *HostContext, call *engine.Call) (any, error) {
	var errs *multierror.Error
	for _, sub := range p.providers {
		v, err := sub.Invoke(ctx, hc, call)
		if err == nil {
			return v, nil
		}
		errs = multierror.Append(errs, err)
	}
	return nil, firstError("None of the alternatives succeeded", errs)
}
