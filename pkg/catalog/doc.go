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

// Package catalog registers the default datasources of a Linux host.
//
// Nothing is registered implicitly; callers add the components to a catalog
// at start-up:
//
//	cat := engine.NewCatalog()
//	if err := catalog.Register(cat); err != nil {
//	    return err
//	}
//
// The catalog holds three kinds of components. Datasources read files,
// run commands or query systemd over dbus. Parsers turn the content of one
// datasource into a map or list (os-release, kernel parameters, modules,
// sysctl, meminfo). The host_info combiner joins what is available into a
// short host identity.
//
// sysctl, messages and ps_auxww are filterable: they are collected only
// when filter patterns are registered for them.
package catalog
