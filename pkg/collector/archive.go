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

package collector

import (
	"archive/tar"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/NVIDIA/node-diagnostics/pkg/errors"
)

// compress writes dir as <dir>.tar.gz. Entries are stored relative to the
// parent of dir so the archive unpacks into a single directory.
func compress(dir string) (string, error) {
	tarball := dir + ".tar.gz"
	f, err := os.OpenFile(tarball, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to create tarball", err)
	}

	if err := writeTarGz(f, dir); err != nil {
		_ = f.Close()
		_ = os.Remove(tarball)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to close tarball", err)
	}

	slog.Debug("archive compressed", slog.String("tarball", tarball))
	return tarball, nil
}

func writeTarGz(w io.Writer, dir string) error {
	zw := gzip.NewWriter(w)
	tw := tar.NewWriter(zw)
	base := filepath.Dir(dir)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() && !info.IsDir() {
			return nil
		}

		name, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(name)
		if info.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(tw, src)
		return err
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to write tarball", err)
	}

	if err := tw.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to finish tar stream", err)
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to finish gzip stream", err)
	}
	return nil
}
