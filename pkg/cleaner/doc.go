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

// Package cleaner redacts collected content before it is written.
//
// A Cleaner removes every line containing a blacklisted pattern, replaces
// blacklisted keywords with stable placeholders (keyword0, keyword1, ...)
// and applies the regular-expression rules embedded from rules.yaml.
// Optional rules (IP and MAC obfuscation) run only when enabled.
//
// The cleaner runs after filter-based line reduction, never before, and is
// skipped for content flagged no_redact.
package cleaner
