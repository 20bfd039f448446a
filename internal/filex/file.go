// Package filex holds file-system helpers shared by the store and the cipher
// engine.
package filex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/filekeeper/internal/common"
)

// EnsureDir creates dir (and any missing parents) when it does not exist and
// returns its absolute path. Relative paths are resolved against the working
// directory.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// CheckSize stats path and returns its size. A missing file or a directory
// is reported as common.ErrIO, a file above limit as common.ErrSizeLimitExceeded.
// A limit <= 0 disables the ceiling.
func CheckSize(path string, limit int64) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s does not exist", common.ErrIO, path)
		}
		return 0, fmt.Errorf("%w: stat %s: %w", common.ErrIO, path, err)
	}
	if fi.IsDir() {
		return 0, fmt.Errorf("%w: %s is a directory", common.ErrIO, path)
	}
	if limit > 0 && fi.Size() > limit {
		return fi.Size(), fmt.Errorf("%w: %s is %d bytes, limit %d", common.ErrSizeLimitExceeded, path, fi.Size(), limit)
	}
	return fi.Size(), nil
}
