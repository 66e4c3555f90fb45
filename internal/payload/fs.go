// Copyright (c) 2021-2026 Rustam Gilyazov and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package payload

// In this file: the file system backed loader.

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rusq/atlassian-dc-mcp/internal/osext"
)

// FS loads inline payloads and files from a file system.  Paths are
// confined to the file system root.
type FS struct {
	fsys    fs.FS
	root    string
	maxSize int64
}

var _ Loader = (*FS)(nil)

// Option configures the loader.
type Option func(*FS)

// WithMaxSize sets the maximum decoded payload size.  Values below one
// leave the default in place.
func WithMaxSize(n int64) Option {
	return func(l *FS) {
		if n > 0 {
			l.maxSize = n
		}
	}
}

// New returns a loader that resolves paths in fsys.  If fsys is nil, only
// inline payloads are accepted.
func New(fsys fs.FS, opts ...Option) *FS {
	l := &FS{fsys: fsys, maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewDir returns a loader rooted at the directory dir.  An empty dir
// disables file access.  Symlinks that point outside of dir are not
// followed.  The directory stays open for the lifetime of the loader.
func NewDir(dir string, opts ...Option) (*FS, error) {
	if dir == "" {
		return New(nil, opts...), nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := osext.DirExists(abs); err != nil {
		return nil, err
	}
	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, err
	}
	l := New(root.FS(), opts...)
	l.root = abs
	return l, nil
}

// MaxSize returns the payload size limit.
func (l *FS) MaxSize() int64 {
	return l.maxSize
}

// Load returns the raw response described by src.
func (l *FS) Load(ctx context.Context, src Source) (json.RawMessage, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if src.Payload != "" {
		if int64(len(src.Payload)) > l.maxSize {
			return nil, ErrTooLarge
		}
		return Parse([]byte(src.Payload))
	}
	return l.loadFile(src.Path)
}

func (l *FS) loadFile(name string) (json.RawMessage, error) {
	if l.fsys == nil {
		return nil, ErrNoFiles
	}
	fsName, err := l.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := l.fsys.Open(fsName)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, &osext.Error{File: name, Err: osext.ErrNotADir}
	}
	data, err := Read(f, l.maxSize)
	if err != nil {
		return nil, &osext.Error{File: name, Err: err}
	}
	return data, nil
}

// resolve converts the user supplied name into an fs.FS path.  Absolute
// names are accepted if they point inside the root directory.
func (l *FS) resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		if l.root == "" {
			return "", ErrOutside
		}
		rel, err := filepath.Rel(l.root, name)
		if err != nil {
			return "", ErrOutside
		}
		name = rel
	}
	p := path.Clean(filepath.ToSlash(name))
	if p == ".." || strings.HasPrefix(p, "../") || !fs.ValidPath(p) {
		return "", fmt.Errorf("%w: %s", ErrOutside, name)
	}
	return p, nil
}
