package cryptox

import (
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/dmitrijs2005/filekeeper/internal/common"
)

// Fingerprint returns the xxHash64 (seed 0) of the whole file content. It is an
// identifier, not a security primitive.
//
// The file is read into memory in one go; callers enforce MaxFileSize first.
// On failure the returned value is 0 together with a common.ErrIO error.
func Fingerprint(path string) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: read %s: %w", common.ErrIO, path, err)
	}
	return xxhash.Sum64(data), nil
}
