// Copyright 2025 walteh LLC
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

package status

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 💾 FileManager handles the file system operations of a rewrite
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, content []byte) error
}

// 🔧 DiskManager implements FileManager on the local file system
type DiskManager struct{}

// 🏭 NewDiskManager creates a new DiskManager
func NewDiskManager() *DiskManager {
	return &DiskManager{}
}

func (m *DiskManager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile replaces the content of an existing file atomically, keeping its mode.
// Symlinks are resolved first so the link itself survives.
func (m *DiskManager) WriteFile(ctx context.Context, path string, content []byte) error {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return errors.Errorf("resolving path: %w", err)
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	zerolog.Ctx(ctx).Debug().Str("path", target).Int("size", len(content)).Msg("writing file")

	return WriteFileAtomic(target, content, mode)
}

// WriteFileAtomic writes content to a temp file in the target's directory and renames it over the target
func WriteFileAtomic(path string, content []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	// removes the temp file on every failure path
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		return errors.Errorf("syncing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, mode); err != nil {
		return errors.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Errorf("renaming temp file: %w", err)
	}

	tmp = nil
	return nil
}
