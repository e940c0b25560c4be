package acquire

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// ResolveConflict is the default overwrite policy. It returns dst if no
// file exists there, otherwise the first free "name (N).ext" with N >= 2.
// It only probes the filesystem and never writes.
func ResolveConflict(dst string) (string, error) {
	return resolveConflict(dst, pathExists, math.MaxInt)
}

func resolveConflict(dst string, exists func(string) bool, limit int) (string, error) {
	if !exists(dst) {
		return dst, nil
	}

	dir, base := filepath.Split(dst)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	// n > 0 stops the loop when n wraps at the top of the int range
	for n := 2; n > 0 && n <= limit; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		if !exists(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNoAvailableDestination, dst)
}

// pathExists treats unreadable paths as taken.
func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
