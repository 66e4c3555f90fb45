// Package testutil contains helpers shared by the tests.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// ReadFiles returns the contents of all regular files in dir, keyed by the
// slash separated path relative to dir.
func ReadFiles(t *testing.T, dir string) map[string][]byte {
	t.Helper()
	ret := make(map[string][]byte)
	fsys := os.DirFS(dir)
	if err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		ret[path] = data
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	return ret
}

// PrepareTestDirectory creates a temporary directory with the files from
// the map, and returns its path.
func PrepareTestDirectory(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		fn := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(fn), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(fn, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}
