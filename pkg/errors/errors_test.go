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
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "No such file: /etc/missing")

	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "No such file: /etc/missing" {
		t.Errorf("unexpected message %q", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrapWithContext(t *testing.T) {
	cause := errors.New("signal: killed")
	ctx := map[string]any{
		"command": "lsblk",
	}

	err := WrapWithContext(ErrCodeTimeout, "Command timed out", cause, ctx)

	if err.Code != ErrCodeTimeout {
		t.Errorf("expected code %s, got %s", ErrCodeTimeout, err.Code)
	}
	if err.Context["command"] != "lsblk" {
		t.Errorf("expected command to be lsblk")
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeEmptyContent, "Empty content"),
			expected: "[EMPTY_CONTENT] Empty content",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeUnreadable, "failed", errors.New("permission denied")),
			expected: "[UNREADABLE] failed: permission denied",
		},
		{
			name:     "formatted",
			err:      Newf(ErrCodeTooManyResults, "Too many files matched: %d > %d", 1001, 1000),
			expected: "[TOO_MANY_RESULTS] Too many files matched: 1001 > 1000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"structured", New(ErrCodeBlacklisted, "x"), ErrCodeBlacklisted},
		{"wrapped by fmt", fmt.Errorf("outer: %w", New(ErrCodeTimeout, "x")), ErrCodeTimeout},
		{"plain", errors.New("boom"), ErrCodeInternal},
		{"outermost wins", Wrap(ErrCodeCommandFailed, "x", New(ErrCodeTimeout, "y")), ErrCodeCommandFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	err := Wrap(ErrCodeCommandFailed, "x", New(ErrCodeTimeout, "y"))
	if !HasCode(err, ErrCodeTimeout) {
		t.Error("expected nested code to be found")
	}
	if HasCode(err, ErrCodeNotFound) {
		t.Error("unexpected code match")
	}
	if HasCode(errors.New("plain"), ErrCodeInternal) {
		t.Error("plain errors carry no code")
	}
}

func TestIsContent(t *testing.T) {
	if !IsContent(New(ErrCodeEmptyContent, "Empty content")) {
		t.Error("empty content should be a content error")
	}
	if !IsContent(New(ErrCodeFilterRequired, "no filters")) {
		t.Error("filter policy should be a content error")
	}
	if IsContent(New(ErrCodeInvalidGraph, "cycle")) {
		t.Error("structural errors are not content errors")
	}
	if IsContent(errors.New("boom")) {
		t.Error("plain errors are not content errors")
	}
}

func TestStackTrace(t *testing.T) {
	if StackTrace(errors.New("plain")) != "" {
		t.Error("plain errors carry no stack")
	}
	if StackTrace(nil) != "" {
		t.Error("expected empty trace for nil")
	}

	err := raiseNotFound()
	trace := StackTrace(err)
	if !strings.Contains(trace, "TestStackTrace") {
		t.Errorf("expected stack of the code that created the error, got %q", trace)
	}

	// the innermost error is where the failure was raised
	wrapped := Wrap(ErrCodeInternal, "outer", fmt.Errorf("context: %w", err))
	if got := StackTrace(wrapped); got != trace {
		t.Errorf("expected the trace of the innermost error, got %q", got)
	}
}

//go:noinline
func raiseNotFound() error {
	return Newf(ErrCodeNotFound, "No such file: %s", "/etc/missing")
}

func TestRecover(t *testing.T) {
	var got error
	func() {
		defer Recover(func(cause error) { got = cause })
		panic("index out of range")
	}()

	if got == nil {
		t.Fatal("expected panic to be recovered")
	}
	if CodeOf(got) != ErrCodeInternal {
		t.Errorf("expected INTERNAL, got %s", CodeOf(got))
	}
	if !strings.Contains(got.Error(), "index out of range") {
		t.Errorf("expected panic value in message, got %q", got.Error())
	}
	if StackTrace(got) == "" {
		t.Error("expected stack trace to be recorded")
	}
}
