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

package serializer

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FormatFromPath determines the serialization format based on file extension.
// Supported extensions:
//   - .json → FormatJSON
//   - .yaml, .yml → FormatYAML
//   - .table, .txt → FormatTable
//
// Returns FormatYAML as default for unknown extensions, since manifests and
// filter files are usually YAML. Extension matching is case-insensitive.
func FormatFromPath(filePath string) Format {
	lowerPath := strings.ToLower(filePath)
	switch {
	case strings.HasSuffix(lowerPath, ".json"):
		return FormatJSON
	case strings.HasSuffix(lowerPath, ".yaml"), strings.HasSuffix(lowerPath, ".yml"):
		return FormatYAML
	case strings.HasSuffix(lowerPath, ".table"), strings.HasSuffix(lowerPath, ".txt"):
		return FormatTable
	default:
		slog.Debug("unknown file extension, defaulting to YAML", "filePath", filePath)
		return FormatYAML
	}
}

// Reader handles deserialization of structured data from JSON or YAML.
//
// Close must be called to release the file handle of readers created with
// NewFileReader or NewFileReaderAuto. Close is idempotent.
type Reader struct {
	format Format
	input  io.Reader
	closer io.Closer
	strict bool
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithStrict rejects unknown fields while decoding.
func WithStrict() ReaderOption {
	return func(r *Reader) {
		r.strict = true
	}
}

// NewReader creates a new Reader for deserializing data from input.
//
// Returns error if format is unknown or FormatTable. If input implements
// io.Closer, Reader.Close closes it.
//
// Example:
//
//	reader, err := NewReader(FormatJSON, strings.NewReader(`{"key":"value"}`))
//	if err != nil { panic(err) }
//	var data map[string]string
//	err = reader.Deserialize(&data)
func NewReader(format Format, input io.Reader, opts ...ReaderOption) (*Reader, error) {
	if format.IsUnknown() {
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	if format == FormatTable {
		return nil, fmt.Errorf("table format does not support deserialization")
	}

	r := &Reader{
		format: format,
		input:  input,
	}
	if closer, ok := input.(io.Closer); ok {
		r.closer = closer
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// NewFileReader creates a new Reader that reads from a local file.
//
// Example:
//
//	reader, err := NewFileReader(FormatYAML, "/etc/nodediag/manifest.yaml")
//	if err != nil { panic(err) }
//	defer reader.Close()
func NewFileReader(format Format, filePath string, opts ...ReaderOption) (*Reader, error) {
	if format.IsUnknown() {
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	if format == FormatTable {
		return nil, fmt.Errorf("table format does not support deserialization")
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return NewReader(format, file, opts...)
}

// NewFileReaderAuto creates a new Reader with the format detected from the
// file extension using FormatFromPath.
func NewFileReaderAuto(filePath string, opts ...ReaderOption) (*Reader, error) {
	return NewFileReader(FormatFromPath(filePath), filePath, opts...)
}

// Deserialize reads data from the input source and unmarshals it into v,
// which must be a pointer.
func (r *Reader) Deserialize(v any) error {
	if r == nil {
		return fmt.Errorf("reader is nil")
	}

	if r.input == nil {
		return fmt.Errorf("input source is nil")
	}

	switch r.format {
	case FormatJSON:
		decoder := json.NewDecoder(r.input)
		if r.strict {
			decoder.DisallowUnknownFields()
		}
		if err := decoder.Decode(v); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
		return nil

	case FormatYAML:
		decoder := yaml.NewDecoder(r.input)
		decoder.KnownFields(r.strict)
		if err := decoder.Decode(v); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unsupported format for deserialization: %s", r.format)
	}
}

// Close releases any resources held by the Reader. It is safe to call on a
// nil Reader and more than once.
func (r *Reader) Close() error {
	if r == nil {
		return nil
	}

	if r.closer != nil {
		err := r.closer.Close()
		r.closer = nil // Prevent double-close
		return err
	}
	return nil
}

// FromFile reads and deserializes the file at path into a new T. The format
// is determined from the file extension.
//
// Example:
//
//	m, err := FromFile[Manifest]("manifest.yaml")
func FromFile[T any](path string, opts ...ReaderOption) (*T, error) {
	fileFormat := FormatFromPath(path)
	slog.Debug("determined file format",
		slog.String("path", path),
		slog.String("format", string(fileFormat)),
	)

	ser, err := NewFileReader(fileFormat, path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create serializer for %q: %w", path, err)
	}

	defer func() {
		if closeErr := ser.Close(); closeErr != nil {
			slog.Warn("failed to close serializer", "error", closeErr)
		}
	}()

	var r T
	if err := ser.Deserialize(&r); err != nil {
		return nil, fmt.Errorf("failed to deserialize object from %q: %w", path, err)
	}

	slog.Debug("successfully loaded object from file",
		slog.String("path", path),
	)

	return &r, nil
}
