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

// errCreated is the placeholder carried by creation stacks.
var errCreated = stderrors.New("created")

// StackTrace returns the call stack recorded for err, formatted like
// runtime/debug.Stack. A stack captured by Recover wins;
// otherwise the stack of the innermost StructuredError is used, which is
// where the failure was first raised. Errors without a stack yield "".
func StackTrace(err error) string {
	if err == nil {
		return ""
	}
	var ge *goerrors.Error
	if stderrors.As(err, &ge) {
		return string(ge.Stack())
	}
	var trace string
	for e := err; e != nil; e = stderrors.Unwrap(e) {
		if se, ok := e.(*StructuredError); ok && se.stack != nil {
			trace = string(se.stack.Stack())
		}
	}
	return trace
}

// Recover recovers from a panic and hands onPanic an INTERNAL error carrying
// the panic value and the stack at the point of the panic. It must be called
// from a deferred function.
func Recover(onPanic func(cause error)) {
	if rec := recover(); rec != nil {
		err, ok := rec.(error)
		if !ok {
			err = fmt.Errorf("%v", rec)
		}
		onPanic(goerrors.Wrap(Wrap(ErrCodeInternal, "panic in component body", err), 2))
	}
}
