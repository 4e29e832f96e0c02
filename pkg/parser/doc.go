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

// Package parser splits collected lines into entries and key-value maps.
//
// Parser components in the catalog use it to turn raw datasource content
// into structured values:
//
//	p := parser.New(
//	    parser.WithVTrimChars(`"'`),
//	    parser.WithSkipEmptyValues(true),
//	)
//	release := p.Map(result.Lines()) // os-release
//
// Kernel command lines are a single line of space-separated parameters:
//
//	p := parser.New(parser.WithDelimiter(" "), parser.WithSkipKeys("root"))
//	params := p.Map(result.Lines())
package parser
