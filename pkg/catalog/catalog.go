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
	"regexp"

	"github.com/NVIDIA/node-diagnostics/pkg/datasource"
	"github.com/NVIDIA/node-diagnostics/pkg/engine"
)

// Datasources of a Linux host.
var (
	Hostname = datasource.Spec("hostname", datasource.FirstOf(
		datasource.SimpleCommand("hostname -f"),
		datasource.SimpleFile("/proc/sys/kernel/hostname"),
	))
	Uname         = datasource.Spec("uname", datasource.SimpleCommand("uname -a"))
	KernelRelease = datasource.Spec("kernel_release", datasource.SimpleFile("/proc/sys/kernel/osrelease"))
	Uptime        = datasource.Spec("uptime", datasource.SimpleCommand("uptime"))

	OSRelease     = datasource.Spec("os_release", datasource.FirstFile("/etc/os-release", "/usr/lib/os-release"))
	RedhatRelease = datasource.Spec("redhat_release", datasource.FirstFile("/etc/redhat-release", "/etc/fedora-release"))
	ReleaseFiles  = datasource.Spec("release_files", datasource.GlobFile([]string{"/etc/*-release", "/etc/*_version"}))
	Release       = datasource.Head("release", ReleaseFiles)

	CmdLine = datasource.Spec("cmdline", datasource.SimpleFile("/proc/cmdline"))
	Modules = datasource.Spec("modules", datasource.SimpleFile("/proc/modules"))
	MemInfo = datasource.Spec("meminfo", datasource.SimpleFile("/proc/meminfo"))
	Sysctl  = datasource.Spec("sysctl", datasource.SimpleCommand("sysctl -a"), engine.Filterable())

	Messages = datasource.Spec("messages", datasource.GlobFile(
		[]string{"/var/log/messages*", "/var/log/syslog*"},
		datasource.WithIgnore(regexp.MustCompile(`\.(gz|xz|bz2)$`)),
	), engine.Filterable())

	Lsblk   = datasource.Spec("lsblk", datasource.SimpleCommand("lsblk -a"))
	PsAuxww = datasource.Spec("ps_auxww", datasource.SimpleCommand("ps auxww"), engine.Filterable())

	SystemdUnits  = datasource.Spec("systemd_units", datasource.Generated("systemd/units", "systemd dbus", listServiceUnits))
	SystemctlShow = datasource.Spec("systemctl_show", datasource.ForeachExecute(SystemdUnits, "systemctl show %s"))

	RpmQa = datasource.Spec("rpm_qa",
		datasource.SimpleCommand(`rpm -qa --qf '%{NAME}-%{VERSION}-%{RELEASE}.%{ARCH}\n'`))
	DpkgQuery         = datasource.Spec("dpkg_query", datasource.SimpleCommand("dpkg-query -W"))
	InstalledPackages = engine.New("installed_packages", engine.KindDatasource, firstAvailable(RpmQa, DpkgQuery),
		engine.Optional(RpmQa, DpkgQuery))

	NvidiaSmi  = datasource.Spec("nvidia_smi", datasource.SimpleCommand("nvidia-smi -q"))
	NvidiaGPUs = datasource.Spec("nvidia_gpus", datasource.SimpleCommand("nvidia-smi -L"))
)

// Datasources returns the Linux datasources in registration order.
func Datasources() []*engine.Component {
	return []*engine.Component{
		Hostname, Uname, KernelRelease, Uptime,
		OSRelease, RedhatRelease, ReleaseFiles, Release,
		CmdLine, Modules, MemInfo, Sysctl,
		Messages, Lsblk, PsAuxww,
		SystemdUnits, SystemctlShow,
		RpmQa, DpkgQuery, InstalledPackages,
		NvidiaSmi, NvidiaGPUs,
	}
}

// Register adds the host context, the Linux datasources and their parsers
// to cat.
func Register(cat *engine.Catalog) error {
	all := []*engine.Component{datasource.HostContextComponent}
	all = append(all, Datasources()...)
	all = append(all, Parsers()...)
	for _, c := range all {
		if err := cat.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// firstAvailable returns the value of the first dependency that resolved.
func firstAvailable(deps ...*engine.Component) engine.Func {
	return func(_ context.Context, call *engine.Call) (any, error) {
		for _, dep := range deps {
			if v, ok := call.Get(dep); ok {
				return v, nil
			}
		}
		return nil, engine.Skip("no package manager output available")
	}
}
