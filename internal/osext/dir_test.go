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

package osext

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "response.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o644))

	assert.NoError(t, DirExists(dir))
	assert.ErrorIs(t, DirExists(file), ErrNotADir)
	assert.True(t, IsPathError(DirExists(filepath.Join(dir, "missing"))))
}

func TestEnsureDir(t *testing.T) {
	dir := t.TempDir()
	t.Run("creates nested", func(t *testing.T) {
		tgt := filepath.Join(dir, "out", "simplified")
		require.NoError(t, EnsureDir(tgt))
		assert.DirExists(t, tgt)
	})
	t.Run("existing dir", func(t *testing.T) {
		assert.NoError(t, EnsureDir(dir))
	})
	t.Run("file in the way", func(t *testing.T) {
		file := filepath.Join(dir, "file")
		require.NoError(t, os.WriteFile(file, nil, 0o644))
		err := EnsureDir(file)
		assert.ErrorIs(t, err, ErrNotADir)
		assert.Contains(t, err.Error(), file)
	})
}

func TestIsSame(t *testing.T) {
	dir := t.TempDir()
	file1 := filepath.Join(dir, "file1")
	file2 := filepath.Join(dir, "file2")

	wd, err := os.Getwd()
	require.NoError(t, err)
	// file1rel is the path relative to the current working directory (where
	// the test is running).
	file1rel, err := filepath.Rel(wd, file1)
	require.NoError(t, err)

	tests := []struct {
		name  string
		path1 string
		path2 string
		want  bool
	}{
		{"same file", file1, file1, true},
		{"same file relative", file1, file1rel, true},
		{"different files", file1, file2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsSame(tt.path1, tt.path2)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
