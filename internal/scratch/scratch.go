// SPDX-License-Identifier: MPL-2.0

package scratch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Dir is an ephemeral directory with a process-unique name.
type Dir struct {
	path string
}

// New creates a scratch directory under the system temp root. The prefix
// namespaces the directory so concurrent callers never collide.
func New(prefix string) (*Dir, error) {
	path, err := os.MkdirTemp("", prefix+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return &Dir{path: path}, nil
}

// Path returns the absolute path of the scratch directory.
func (d *Dir) Path() string {
	return d.path
}

// Join returns a path inside the scratch directory.
func (d *Dir) Join(elem ...string) string {
	return filepath.Join(append([]string{d.path}, elem...)...)
}

// Remove deletes the scratch directory and everything inside it.
// Safe to call multiple times; callers defer it immediately after New.
func (d *Dir) Remove() {
	if d.path == "" {
		return
	}
	_ = os.RemoveAll(d.path)
	d.path = ""
}

// CopyTree recursively copies the directory at src into dst, preserving
// src's final path segment as a subdirectory of dst. It returns the path
// of the created subdirectory. Symlinks are followed as regular files.
func CopyTree(src, dst string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("failed to stat source directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("source %s is not a directory", src)
	}

	target := filepath.Join(dst, filepath.Base(src))
	if err := copyDir(src, target); err != nil {
		return "", err
	}
	return target, nil
}

func copyDir(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", src, err)
	}

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dst, err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}

		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}

	return out.Close()
}
