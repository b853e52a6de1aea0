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

package document

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	defaultMode   os.FileMode = 0o644
	defaultBackup             = ".bak"
)

// 💥 IOError reports a failed read or write of the target file
type IOError struct {
	Op   string // load, save, close, backup, restore or verify
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// 📄 Document is the full text content of a file
type Document struct {
	Path     string
	Content  []byte
	Mode     os.FileMode
	Checksum string // SHA-256 of Content
}

// 🔍 Checksum generates a SHA-256 hash of the content
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// Options configures a Store
type Options struct {
	// Atomic writes through a pending temp file and rename
	Atomic bool

	// BackupSuffix is appended to the path by Backup, defaults to ".bak"
	BackupSuffix string
}

// 💾 Store loads and saves documents on the local file system
type Store struct {
	atomic       bool
	backupSuffix string
}

// 🏭 NewStore creates a new Store
func NewStore(opts Options) *Store {
	suffix := opts.BackupSuffix
	if suffix == "" {
		suffix = defaultBackup
	}
	return &Store{
		atomic:       opts.Atomic,
		backupSuffix: suffix,
	}
}

// 📥 Load reads the whole file into memory
func (s *Store) Load(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("loading %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &IOError{Op: "load", Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &IOError{Op: "load", Path: path, Err: errors.New("is a directory")}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "load", Path: path, Err: err}
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("bytes", len(content)).Msg("loaded document")

	return &Document{
		Path:     path,
		Content:  content,
		Mode:     info.Mode().Perm(),
		Checksum: Checksum(content),
	}, nil
}

// 📤 Save overwrites path with content, keeping the existing file mode
func (s *Store) Save(ctx context.Context, path string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("saving %s: %w", path, err)
	}

	mode := defaultMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	var err error
	if s.atomic {
		err = writeAtomic(ctx, path, content, mode)
	} else {
		err = writeInPlace(path, content, mode)
	}
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("bytes", len(content)).
		Bool("atomic", s.atomic).
		Msg("saved document")

	return nil
}

// writeInPlace truncates and rewrites the file; the handle is closed on every path
func writeInPlace(path string, content []byte, mode os.FileMode) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return &IOError{Op: "save", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &IOError{Op: "close", Path: path, Err: cerr}
		}
	}()

	if _, werr := f.Write(content); werr != nil {
		return &IOError{Op: "save", Path: path, Err: werr}
	}
	return nil
}

func writeAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(mode))
	if err != nil {
		return &IOError{Op: "save", Path: path, Err: err}
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("cleanup pending file")
		}
	}()

	if _, err := pending.Write(content); err != nil {
		return &IOError{Op: "save", Path: path, Err: err}
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return &IOError{Op: "save", Path: path, Err: err}
	}

	return nil
}

// BackupPath returns where Backup stores the copy of path
func (s *Store) BackupPath(path string) string {
	return path + s.backupSuffix
}

// 🗄️ Backup copies path next to itself and returns the backup location
func (s *Store) Backup(ctx context.Context, path string) (string, error) {
	backupPath := s.BackupPath(path)
	if err := copyFile(path, backupPath); err != nil {
		return "", &IOError{Op: "backup", Path: path, Err: err}
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Str("backup", backupPath).Msg("created backup")
	return backupPath, nil
}

// ♻️ Restore puts the backup back in place and removes it
func (s *Store) Restore(ctx context.Context, path string) error {
	backupPath := s.BackupPath(path)

	if _, err := os.Stat(backupPath); err != nil {
		return &IOError{Op: "restore", Path: path, Err: err}
	}
	if err := copyFile(backupPath, path); err != nil {
		return &IOError{Op: "restore", Path: path, Err: err}
	}
	if err := os.Remove(backupPath); err != nil {
		return &IOError{Op: "restore", Path: path, Err: err}
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("restored backup")
	return nil
}

func copyFile(src, dst string) (err error) {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	mode := defaultMode
	if info, serr := source.Stat(); serr == nil {
		mode = info.Mode().Perm()
	}

	destination, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}
	defer func() {
		if cerr := destination.Close(); cerr != nil && err == nil {
			err = errors.Errorf("closing destination file: %w", cerr)
		}
	}()

	if _, err := io.Copy(destination, source); err != nil {
		return errors.Errorf("copying file: %w", err)
	}

	return nil
}
