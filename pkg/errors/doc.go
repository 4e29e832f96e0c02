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

// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Provider failures (missing files, failed commands, empty output, blacklisted
// targets) carry one of the content codes and are reported per component; they
// never abort a collection run. ErrCodeInvalidGraph marks structural errors
// found while building the component graph, which are fatal.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeTimeout,
//	    "command timed out",
//	    ctx.Err(),
//	    map[string]any{
//	        "command": "lsblk",
//	    },
//	)
//
// Every StructuredError records the call stack of its creation. StackTrace
// reads it back for the run record; Recover records the stack of a panic.
package errors
