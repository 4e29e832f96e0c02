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

// Package version parses the dotted version strings reported by a host,
// such as kernel releases ("5.15.0-91-generic") and os-release VERSION_ID
// values ("22.04", "9").
//
// A Version keeps up to three numeric components and the precision they
// were given with. Anything after the first '-' or '+' that follows a digit
// is kept verbatim in Extras and ignored by comparisons.
//
//	v, err := version.ParseVersion("4.18.0-513.el8.x86_64")
//	// v.Major=4 v.Minor=18 v.Patch=0 v.Extras="-513.el8.x86_64"
//
//	v.AtLeast(version.MustParseVersion("4.18")) // true
package version
