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

// Package header provides the common header of documents written by nodediag.
//
// Every JSON or YAML document the tool produces (the collection summary, the
// component listing) starts with the same three fields:
//
//	{
//	  "kind": "CollectionSummary",
//	  "apiVersion": "nodediag.nvidia.com/v1alpha1",
//	  "metadata": {
//	    "timestamp": "2026-01-30T10:30:00Z",
//	    "version": "v0.3.0"
//	  }
//	}
//
// Manifests read by the tool may carry the same header; the kind is checked
// when present.
package header
