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

// Package datasource implements content providers: the leaf components that
// read files, expand globs and execute commands on the host.
//
// Providers are turned into engine components with Spec:
//
//	hostname := datasource.Spec("hostname", datasource.SimpleCommand("/usr/bin/hostname -f"))
//	messages := datasource.Spec("messages",
//		datasource.GlobFile([]string{"/var/log/messages*"}),
//		engine.Filterable())
//
// Every component built by Spec requires HostContextComponent. The host
// context carries the filesystem root, command timeout, spawn rate limiter
// and the blacklist consulted before any file is read or process spawned.
//
// # Results
//
// A provider produces a ContentResult, or for multi-output providers a
// []ContentResult. FileResult and CommandResult carry collected lines;
// FailedResult occupies the slot of a single failed item in a foreach
// provider so that the value always has one entry per input item.
//
// # Failures
//
// Provider failures are returned as *errors.StructuredError values with
// content codes (NOT_FOUND, UNREADABLE, COMMAND_FAILED, TIMEOUT,
// EMPTY_CONTENT, TOO_MANY_RESULTS, BLACKLISTED). Messages name the missing
// file or the missing executable only, never the remaining command
// arguments.
//
// # Filtering
//
// For filterable components the patterns registered before the run are
// applied line by line before the result is built. A result with no lines
// left fails with "Empty content".
package datasource
