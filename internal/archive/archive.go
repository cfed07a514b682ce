// Package archive retires the audio cache so that words are synthesized
// again, for example after switching voice or provider.
package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNoCache is returned when the cache directory does not exist
var ErrNoCache = errors.New("audio cache does not exist")

const timestampLayout = "20060102-150405"

// Cache moves cacheDir into an "archive" directory next to it and returns
// the new location. The next speech request starts with an empty cache.
func Cache(cacheDir string, now time.Time) (string, error) {
	info, err := os.Stat(cacheDir)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNoCache, cacheDir)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat audio cache: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("audio cache is not a directory: %s", cacheDir)
	}

	archiveDir := filepath.Join(filepath.Dir(cacheDir), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	base := filepath.Base(cacheDir)
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s", base, now.Format(timestampLayout)))
	if _, err := os.Stat(archivePath); err == nil {
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s", base, now.Format(timestampLayout+".000000")))
	}

	if err := os.Rename(cacheDir, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive audio cache: %w", err)
	}
	return archivePath, nil
}
