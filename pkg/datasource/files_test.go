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
	"fmt"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/node-diagnostics/pkg/engine"
	"github.com/NVIDIA/node-diagnostics/pkg/errors"
)

func TestSimpleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "helpers.conf", "alpha\nbeta\r\ngamma\n")

	v, err := invoke(t, nil, SimpleFile(path), nil, nil)
	require.NoError(t, err)
	r, ok := v.(*FileResult)
	require.True(t, ok)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, r.Lines())
	assert.Equal(t, path[1:], r.RelativePath())
	assert.Equal(t, OriginFile, r.Origin())
	assert.False(t, r.NoRedact())
	assert.Nil(t, r.Raw())
}

func TestSimpleFile_Failures(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty", "")
	noMatch := writeFile(t, dir, "no_match", "no-filter\n")

	tests := []struct {
		name     string
		path     string
		patterns []string
		code     errors.ErrorCode
		message  string
	}{
		{"missing", "/no/such/_file", nil, errors.ErrCodeNotFound, "No such file: /no/such/_file"},
		{"empty", empty, nil, errors.ErrCodeEmptyContent, "Empty content"},
		{"empty after filter", noMatch, []string{" hello "}, errors.ErrCodeEmptyContent, "Empty content"},
		{"directory", dir, nil, errors.ErrCodeUnreadable, "Is a directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := invoke(t, nil, SimpleFile(tt.path), tt.patterns, nil)
			require.Error(t, err)
			assert.Nil(t, v)
			assert.Equal(t, tt.code, errors.CodeOf(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestSimpleFile_FilterIsLiteral(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "self", "first\n    filter_message = \"--quiet\"\nlast\n")

	v, err := invoke(t, nil, SimpleFile(path), []string{"--quiet"}, nil, engine.Filterable())
	require.NoError(t, err)
	assert.Equal(t, []string{`    filter_message = "--quiet"`}, v.(ContentResult).Lines())
}

func TestSimpleFile_RootAndSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "etc/os-release", "ID=rhel\n")

	hc := NewHostContext(WithRoot(root))
	v, err := invoke(t, hc, SimpleFile("/etc/os-release"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "etc/os-release", v.(ContentResult).RelativePath())

	hc = NewHostContext(WithRoot(root), WithMaxFileSize(3))
	_, err = invoke(t, hc, SimpleFile("/etc/os-release"), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "File too large")
}

func TestSimpleFile_Raw(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "raw.bin", "a\nb")

	v, err := invoke(t, nil, SimpleFile(path), nil, nil, engine.Raw())
	require.NoError(t, err)
	r := v.(*FileResult)
	assert.Equal(t, []byte("a\nb"), r.Raw())
	assert.True(t, r.NoRedact())
}

func TestSimpleFile_Blacklisted(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "secret.key", "k\n")

	hc := NewHostContext(WithBlacklist(Blacklist{Files: []string{"*.key"}}))
	_, err := invoke(t, hc, SimpleFile(path), nil, nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeBlacklisted, errors.CodeOf(err))
}

func TestFirstFile(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, dir, "b", "rhel 9\n")
	c := writeFile(t, dir, "c", "other\n")

	v, err := invoke(t, nil, FirstFile(filepath.Join(dir, "a"), b, c), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, b, v.(*FileResult).Path)

	_, err = invoke(t, nil, FirstFile(filepath.Join(dir, "x"), filepath.Join(dir, "y")), nil, nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "/x")
	assert.Contains(t, err.Error(), "/y")
}

func TestFirstOf(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good", "def test_one\n")

	v, err := invoke(t, nil, FirstOf(SimpleFile(filepath.Join(dir, "missing")), SimpleFile(good)), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, good, v.(*FileResult).Path)

	v, err = invoke(t, nil, FirstOf(SimpleCommand("echo -n ' hello 1'"), SimpleFile(good)),
		[]string{"def test", " hello "}, nil)
	require.NoError(t, err)
	assert.Equal(t, OriginCommand, v.(ContentResult).Origin())
	assert.Len(t, v.(ContentResult).Lines(), 1)

	_, err = invoke(t, nil, FirstOf(SimpleFile(filepath.Join(dir, "a")), SimpleFile(filepath.Join(dir, "b"))), nil, nil)
	require.Error(t, err)
}

func TestGlobFile(t *testing.T) {
	dir := t.TempDir()
	for i := 4; i >= 0; i-- {
		writeFile(t, dir, fmt.Sprintf("tmp_%d_glob", i), "data\n")
	}
	writeFile(t, dir, "other", "data\n")
	writeFile(t, dir, "tmp_dir_glob/nested", "data\n")

	v, err := invoke(t, nil, GlobFile([]string{filepath.Join(dir, "tmp_*_glob")}), nil, nil)
	require.NoError(t, err)
	results := Results(v)
	require.Len(t, results, 5)
	for i, r := range results {
		assert.Equal(t, filepath.Join(dir, fmt.Sprintf("tmp_%d_glob", i)), r.(*FileResult).Path)
	}
}

func TestGlobFile_TooManyMatches(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 1001; i++ {
		writeFile(t, dir, fmt.Sprintf("tmp_%04d_glob", i), "data\n")
	}

	v, err := invoke(t, nil, GlobFile([]string{filepath.Join(dir, "tmp_*_glob")}), nil, nil)
	require.Error(t, err)
	assert.Nil(t, v)
	assert.Equal(t, errors.ErrCodeTooManyResults, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "1001 > 1000")
}

func TestGlobFile_Options(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.log", "x\n")
	writeFile(t, dir, "b.log", "x\n")
	writeFile(t, dir, "b.log.gz", "x\n")
	writeFile(t, dir, "sub/c.log", "x\n")
	writeFile(t, dir, "empty.log", "")

	pattern := filepath.Join(dir, "**", "*.log*")
	v, err := invoke(t, nil, GlobFile([]string{pattern}, WithIgnore(regexp.MustCompile(`\.gz$`))), nil, nil)
	require.NoError(t, err)
	var got []string
	for _, r := range Results(v) {
		got = append(got, filepath.Base(r.(*FileResult).Path))
	}
	// empty.log is dropped, not fatal
	assert.Equal(t, []string{"a.log", "b.log", "c.log"}, got)

	_, err = invoke(t, nil, GlobFile([]string{pattern}, WithMaxMatches(2)), nil, nil)
	assert.Equal(t, errors.ErrCodeTooManyResults, errors.CodeOf(err))

	_, err = invoke(t, nil, GlobFile([]string{filepath.Join(dir, "nothing*")}), nil, nil)
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
}

func TestListdir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b", "x")
	writeFile(t, dir, "a", "x")

	v, err := invoke(t, nil, Listdir(dir), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v)

	_, err = invoke(t, nil, Listdir(filepath.Join(dir, "missing")), nil, nil)
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
}

func TestForeachCollect(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one/status", "1\n")
	writeFile(t, dir, "three/status", "3\n")
	list := engine.New("list", engine.KindDatasource, nil)
	seeds := map[*engine.Component]any{list: []string{"one", "two", "three"}}

	v, err := invoke(t, nil, ForeachCollect(list, filepath.Join(dir, "%s", "status")), nil, seeds)
	require.NoError(t, err)
	results := Results(v)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"1"}, results[0].Lines())
	require.Error(t, results[1].Err())
	assert.Equal(t, OriginFailed, results[1].Origin())
	assert.Contains(t, results[1].Err().Error(), "two/status")
	assert.Equal(t, []string{"3"}, results[2].Lines())

	seeds[list] = []string{"four", "five"}
	_, err = invoke(t, nil, ForeachCollect(list, filepath.Join(dir, "%s", "status")), nil, seeds)
	require.Error(t, err)

	seeds[list] = []string{}
	_, err = invoke(t, nil, ForeachCollect(list, filepath.Join(dir, "%s", "status")), nil, seeds)
	assert.Equal(t, errors.ErrCodeEmptyContent, errors.CodeOf(err))
}

func TestItems(t *testing.T) {
	lines := &CommandResult{content: content{lines: []string{" a ", "", "b"}}}
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"slice", []string{"x", "y"}, []string{"x", "y"}},
		{"string", "x y", []string{"x", "y"}},
		{"any", []any{1, "z"}, []string{"1", "z"}},
		{"result", lines, []string{"a", "b"}},
		{"results", []ContentResult{lines, lines}, []string{"a", "b", "a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := items(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := items(42)
	assert.Error(t, err)
}
