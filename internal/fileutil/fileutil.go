// Package fileutil provides file and path utility functions, including the
// .bak snapshot handling used before in-place rewrites.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// backupExtension is appended to a file's path for its snapshot copy.
const backupExtension = ".bak"

// backupPermissions keeps snapshots owner-readable only.
const backupPermissions = 0o600

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than
// a name. A string containing path separators (/, \) is treated as a path.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// WriteBackup snapshots path to path.bak before an in-place rewrite.
func WriteBackup(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- caller-provided path
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := os.WriteFile(path+backupExtension, data, backupPermissions); err != nil {
		return fmt.Errorf("writing backup for %s: %w", path, err)
	}
	return nil
}

// RemoveBackups deletes all .bak files directly under dir and returns how
// many were removed. Individual removal failures abort the sweep.
func RemoveBackups(dir string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+backupExtension))
	if err != nil {
		return 0, fmt.Errorf("listing backups in %s: %w", dir, err)
	}
	removed := 0
	for _, path := range matches {
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("removing %s: %w", path, err)
		}
		removed++
	}
	return removed, nil
}
