package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "summary.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		path      string
		dir, file bool
	}{
		{dir, true, false},
		{file, false, true},
		{filepath.Join(dir, "missing"), false, false},
	}
	for _, tc := range tests {
		if got := DirExists(tc.path); got != tc.dir {
			t.Errorf("DirExists(%s) = %v", tc.path, got)
		}
		if got := FileExists(tc.path); got != tc.file {
			t.Errorf("FileExists(%s) = %v", tc.path, got)
		}
	}
}
