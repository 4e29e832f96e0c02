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

package datasource

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path"
	"regexp"
	"strings"

	"github.com/google/shlex"

	"github.com/NVIDIA/node-diagnostics/pkg/defaults"
	"github.com/NVIDIA/node-diagnostics/pkg/engine"
	"github.com/NVIDIA/node-diagnostics/pkg/errors"
)

// CommandDir is the data directory that holds command output.
const CommandDir = "commands"

var (
	binPrefix  = regexp.MustCompile(`^/(usr/)?(bin|sbin)/`)
	unsafeRuns = regexp.MustCompile(`[^\w\-./]+`)
)

// MangleCommand turns a command line into a file name: the leading bin
// directory is dropped, runs of unsafe characters become "_" and "/" becomes ".".
func MangleCommand(cmd string) string {
	name := binPrefix.ReplaceAllString(strings.TrimSpace(cmd), "")
	name = unsafeRuns.ReplaceAllString(name, "_")
	name = strings.ReplaceAll(name, "/", ".")
	name = strings.Trim(name, " ._-")
	if len(name) > defaults.MaxRelativePathLength {
		name = name[:defaults.MaxRelativePathLength]
	}
	return name
}

// splitCommand splits a command line the way a POSIX shell would, without
// expanding anything.
func splitCommand(cmdline string) ([]string, error) {
	argv, err := shlex.Split(cmdline)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid command line", err)
	}
	if len(argv) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "empty command line")
	}
	return argv, nil
}

// runCommand executes argv and collects its standard output.
func runCommand(ctx context.Context, hc *HostContext, call *engine.Call, argv []string) (*CommandResult, error) {
	cmdline := strings.Join(argv, " ")
	if err := hc.Blacklist.CheckCommand(cmdline); err != nil {
		return nil, err
	}

	bin, err := exec.LookPath(argv[0])
	if err != nil {
		return nil, errors.New(errors.ErrCodeNotFound, "Command not found: "+argv[0])
	}

	if err := hc.waitSpawn(ctx); err != nil {
		return nil, err
	}

	runCtx := ctx
	if hc.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, hc.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, bin, argv[1:]...)
	cmd.Args[0] = argv[0]
	cmd.Env = append(append(os.Environ(), "LC_ALL=C"), hc.Env...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("executing command",
		slog.String("component", call.Component().Name),
		slog.String("command", path.Base(argv[0])))

	err = cmd.Run()
	if runCtx.Err() != nil && stderrors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil, errors.NewWithContext(errors.ErrCodeTimeout,
			fmt.Sprintf("Command timed out after %s", hc.Timeout),
			map[string]any{"command": argv[0]})
	}
	if err != nil {
		msg := "Command failed: " + argv[0]
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			msg = fmt.Sprintf("%s: exit status %d", msg, exitErr.ExitCode())
		}
		return nil, errors.WrapWithContext(errors.ErrCodeCommandFailed, msg, err,
			map[string]any{"stderr": firstLine(stderr.String())})
	}

	c, err := newContent(call, path.Join(CommandDir, MangleCommand(cmdline)), stdout.Bytes())
	if err != nil {
		return nil, err
	}
	return &CommandResult{content: *c, Cmd: cmdline}, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
