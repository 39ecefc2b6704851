package filex

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EnsureDir creates dir (relative paths are resolved against the working
// directory) and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// FreePath returns dir/name when no such file exists yet. Otherwise the
// timestamp is inserted before the extension: "name-20060102-150405.ext".
func FreePath(dir, name string, now time.Time) (string, error) {
	p := filepath.Join(dir, name)
	_, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", p, err)
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return filepath.Join(dir, fmt.Sprintf("%s-%s%s", base, now.Format("20060102-150405"), ext)), nil
}

// WriteNew writes data to a free path derived from dir and name and returns
// the path that was written.
func WriteNew(dir, name string, data []byte, now time.Time) (string, error) {
	abs, err := EnsureDir(dir)
	if err != nil {
		return "", err
	}

	p, err := FreePath(abs, name, now)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(p, data, 0o640); err != nil {
		return "", fmt.Errorf("write %s: %w", p, err)
	}
	return p, nil
}
