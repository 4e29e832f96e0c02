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

package errors

import (
	stderrors "errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// ErrorCode represents a structured error classification.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a collection target (file or executable) does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeUnreadable indicates a target exists but could not be read.
	ErrCodeUnreadable ErrorCode = "UNREADABLE"
	// ErrCodeCommandFailed indicates a subprocess exited with a non-zero status.
	ErrCodeCommandFailed ErrorCode = "COMMAND_FAILED"
	// ErrCodeTimeout indicates an operation exceeded its time limit.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeEmptyContent indicates a provider produced no lines, before or after filtering.
	ErrCodeEmptyContent ErrorCode = "EMPTY_CONTENT"
	// ErrCodeTooManyResults indicates a multi-output provider exceeded its result cap.
	ErrCodeTooManyResults ErrorCode = "TOO_MANY_RESULTS"
	// ErrCodeFilterRequired indicates a filterable component has no registered filters.
	ErrCodeFilterRequired ErrorCode = "FILTER_REQUIRED"
	// ErrCodeBlacklisted indicates a target is excluded by the execution context blacklist.
	ErrCodeBlacklisted ErrorCode = "BLACKLISTED"
	// ErrCodeInvalidGraph indicates a structural error in the component graph.
	ErrCodeInvalidGraph ErrorCode = "INVALID_GRAPH"
	// ErrCodeInternal indicates an internal system error, including defects in component bodies.
	ErrCodeInternal ErrorCode = "INTERNAL"
	// ErrCodeInvalidRequest indicates malformed or invalid input.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeMethodNotAllowed indicates an HTTP method the endpoint does not serve.
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
	// ErrCodeRateLimitExceeded indicates a request was rejected by the server rate limiter.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeUnavailable indicates the service cannot take the request right now.
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE"
)

// contentCodes are the codes a provider invocation may fail with.
var contentCodes = map[ErrorCode]struct{}{
	ErrCodeNotFound:       {},
	ErrCodeUnreadable:     {},
	ErrCodeCommandFailed:  {},
	ErrCodeTimeout:        {},
	ErrCodeEmptyContent:   {},
	ErrCodeTooManyResults: {},
	ErrCodeFilterRequired: {},
	ErrCodeBlacklisted:    {},
}

// StructuredError provides structured error information for better observability.
// It includes an error code for programmatic handling, a human-readable message,
// the underlying cause, and optional context for debugging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any

	// stack is the call stack where the error was created.
	stack *goerrors.Error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return newError(code, message, nil, nil)
}

// Newf creates a new StructuredError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *StructuredError {
	return newError(code, fmt.Sprintf(format, args...), nil, nil)
}

// NewWithContext creates a new StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return newError(code, message, nil, context)
}

// Wrap wraps an existing error with additional context.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return newError(code, message, cause, nil)
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return newError(code, message, cause, context)
}

// newError must be called directly by the exported constructors so that the
// recorded stack starts at their caller.
func newError(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
		stack:   goerrors.Wrap(errCreated, 2),
	}
}

// CodeOf returns the code of the outermost StructuredError in the chain,
// or ErrCodeInternal when err carries none.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether any StructuredError in the chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var se *StructuredError
		if !stderrors.As(err, &se) {
			return false
		}
		if se.Code == code {
			return true
		}
		err = se.Cause
	}
	return false
}

// IsContent reports whether err belongs to the content failure taxonomy,
// i.e. a missing, unreadable, empty or otherwise uncollectable target.
func IsContent(err error) bool {
	var se *StructuredError
	if !stderrors.As(err, &se) {
		return false
	}
	_, ok := contentCodes[se.Code]
	return ok
}
