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
	"sort"
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/NVIDIA/node-diagnostics/pkg/datasource"
	"github.com/NVIDIA/node-diagnostics/pkg/errors"
)

// unitLister is the part of the systemd dbus connection used here.
type unitLister interface {
	ListUnitsContext(ctx context.Context) ([]dbus.UnitStatus, error)
	Close()
}

// connectSystemd opens a connection to the systemd manager.
var connectSystemd = func(ctx context.Context) (unitLister, error) {
	return dbus.NewSystemdConnectionContext(ctx)
}

// listServiceUnits returns the sorted names of loaded service units.
func listServiceUnits(ctx context.Context, hc *datasource.HostContext) ([]string, error) {
	if hc.Root != "" && hc.Root != "/" {
		return nil, errors.NewWithContext(errors.ErrCodeNotFound,
			"systemd bus is only available for the live root", map[string]any{"root": hc.Root})
	}

	conn, err := connectSystemd(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, "failed to connect to systemd", err)
	}
	defer conn.Close()

	units, err := conn.ListUnitsContext(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnreadable, "failed to list systemd units", err)
	}
	return serviceNames(units), nil
}

func serviceNames(units []dbus.UnitStatus) []string {
	names := make([]string, 0, len(units))
	for _, u := range units {
		if u.LoadState != "loaded" || !strings.HasSuffix(u.Name, ".service") {
			continue
		}
		names = append(names, u.Name)
	}
	sort.Strings(names)
	return names
}
