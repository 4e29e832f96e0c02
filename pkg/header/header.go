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

package header

import (
	"time"
)

// APIVersion is the schema version of every document this module writes.
const APIVersion = "nodediag.nvidia.com/v1alpha1"

// Kind represents the type of a node-diagnostics document.
type Kind string

// Valid Kind constants for all document types.
const (
	KindCollectionSummary Kind = "CollectionSummary"
	KindManifest          Kind = "Manifest"
	KindComponentList     Kind = "ComponentList"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k *Kind) IsValid() bool {
	switch *k {
	case KindCollectionSummary, KindManifest, KindComponentList:
		return true
	default:
		return false
	}
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata returns an Option that adds a metadata key-value pair to the Header.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithKind returns an Option that sets the Kind field of the Header.
func WithKind(kind Kind) Option {
	return func(h *Header) {
		h.Kind = kind
	}
}

// New creates a Header with APIVersion set and the options applied.
func New(opts ...Option) *Header {
	h := &Header{
		APIVersion: APIVersion,
		Metadata:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Header carries the kind, schema version and metadata of a document.
type Header struct {
	// Kind is the type of the document.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the schema version of the document.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains key-value pairs such as timestamp and tool version.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init sets the kind and apiVersion and resets Metadata to the current
// timestamp and, when non-empty, the tool version.
func (h *Header) Init(kind Kind, apiVersion string, version string) {
	h.Kind = kind
	h.APIVersion = apiVersion
	h.Metadata = make(map[string]string)

	h.Metadata["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	if version != "" {
		h.Metadata["version"] = version
	}
}
