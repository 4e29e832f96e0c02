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

package catalog

import (
	"context"
	"strings"

	"github.com/NVIDIA/node-diagnostics/pkg/datasource"
	"github.com/NVIDIA/node-diagnostics/pkg/engine"
	"github.com/NVIDIA/node-diagnostics/pkg/parser"
	"github.com/NVIDIA/node-diagnostics/pkg/version"
)

// Parsers over the Linux datasources.
var (
	ReleaseInfo = parse("release_info", OSRelease, func(lines []string) any {
		return parser.New(
			parser.WithVTrimChars(`"'`),
			parser.WithSkipEmptyValues(true),
		).Map(lines)
	})

	// KernelParams omits root= so device paths stay out of the archive.
	KernelParams = parse("kernel_params", CmdLine, func(lines []string) any {
		return parser.New(
			parser.WithDelimiter(" "),
			parser.WithSkipKeys("root"),
		).Map(lines)
	})

	KernelModules = parse("kernel_modules", Modules, func(lines []string) any {
		return parser.New().Fields(lines)
	})

	SysctlParams = parse("sysctl_params", Sysctl, func(lines []string) any {
		return parser.New(parser.WithSkipComments(false)).Map(lines)
	})

	MemoryInfo = parse("memory_info", MemInfo, func(lines []string) any {
		return parser.New(parser.WithKVDelimiter(":")).Map(lines)
	})

	HostInfo = engine.New("host_info", engine.KindCombiner, combineHostInfo,
		engine.Optional(Hostname, Uname, KernelRelease, ReleaseInfo, NvidiaGPUs))
)

// Parsers returns the parser and combiner components.
func Parsers() []*engine.Component {
	return []*engine.Component{
		ReleaseInfo, KernelParams, KernelModules, SysctlParams, MemoryInfo, HostInfo,
	}
}

// parse builds a parser component over the content of one datasource.
func parse(name string, dep *engine.Component, fn func(lines []string) any) *engine.Component {
	return engine.New(name, engine.KindParser, func(_ context.Context, call *engine.Call) (any, error) {
		v, _ := call.Get(dep)
		results := datasource.Results(v)
		if len(results) == 0 {
			return nil, engine.Skip(dep.Name + " produced no content")
		}
		var lines []string
		for _, r := range results {
			if r.Err() == nil {
				lines = append(lines, r.Lines()...)
			}
		}
		return fn(lines), nil
	}, engine.Requires(dep))
}

// Host summarises the identity of the collected host.
type Host struct {
	Hostname      string           `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	Kernel        string           `json:"kernel,omitempty" yaml:"kernel,omitempty"`
	KernelVersion *version.Version `json:"kernel_version,omitempty" yaml:"kernel_version,omitempty"`
	OS            string           `json:"os,omitempty" yaml:"os,omitempty"`
	OSVersion     *version.Version `json:"os_version,omitempty" yaml:"os_version,omitempty"`
	GPUs          []string         `json:"gpus,omitempty" yaml:"gpus,omitempty"`
}

func combineHostInfo(_ context.Context, call *engine.Call) (any, error) {
	h := &Host{
		Hostname: firstLine(call, Hostname),
		Kernel:   firstLine(call, Uname),
	}
	h.KernelVersion = parseVersion(firstLine(call, KernelRelease))
	if v, ok := call.Get(ReleaseInfo); ok {
		if m, ok := v.(map[string]string); ok {
			h.OS = m["PRETTY_NAME"]
			h.OSVersion = parseVersion(m["VERSION_ID"])
		}
	}
	if v, ok := call.Get(NvidiaGPUs); ok {
		for _, r := range datasource.Results(v) {
			for _, l := range r.Lines() {
				if l = strings.TrimSpace(l); l != "" {
					h.GPUs = append(h.GPUs, l)
				}
			}
		}
	}
	if h.Hostname == "" && h.Kernel == "" && h.OS == "" {
		return nil, engine.Skip("no host identity available")
	}
	return h, nil
}

// parseVersion returns nil for values that are not dotted numbers, such
// as VERSION_ID=rolling.
func parseVersion(s string) *version.Version {
	v, err := version.ParseVersion(s)
	if err != nil {
		return nil
	}
	return &v
}

func firstLine(call *engine.Call, dep *engine.Component) string {
	v, ok := call.Get(dep)
	if !ok {
		return ""
	}
	for _, r := range datasource.Results(v) {
		if lines := r.Lines(); len(lines) > 0 {
			return strings.TrimSpace(lines[0])
		}
	}
	return ""
}
