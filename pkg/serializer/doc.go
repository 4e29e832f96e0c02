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

// Package serializer writes and reads structured data as JSON, YAML or tables.
//
// # Supported Formats
//
// JSON:
//   - Machine-parseable, indented representation
//   - Standard encoding/json package
//
// YAML:
//   - Human-readable, used for manifests and filter files
//   - gopkg.in/yaml.v3 package
//
// Table:
//   - Terminal output, write-only
//   - Values implementing Tabular choose their own columns; anything else is
//     flattened into FIELD/VALUE rows with dotted keys
//
// # Writing
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatTable, "")
//	defer w.Close()
//	if err := w.Serialize(ctx, summary); err != nil {
//	    return err
//	}
//
// # Reading
//
//	m, err := serializer.FromFile[manifest.Manifest]("manifest.yaml", serializer.WithStrict())
//
// The format of a file is derived from its extension with FormatFromPath.
// WithStrict rejects unknown fields.
package serializer
