package audio

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"codeberg.org/snonux/flipgrid/internal/logging"
)

// CachingProvider stores generated audio on disk keyed by the text and the
// settings of the wrapped provider. Hits are copied instead of synthesized.
type CachingProvider struct {
	provider Provider
	cacheDir string
	logger   *zap.Logger
}

// NewCachingProvider wraps provider with a disk cache under cacheDir
func NewCachingProvider(provider Provider, cacheDir string, logger *zap.Logger) (*CachingProvider, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &CachingProvider{
		provider: provider,
		cacheDir: cacheDir,
		logger:   logging.OrNop(logger),
	}, nil
}

// GenerateAudio serves from the cache or delegates and stores the result
func (c *CachingProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	cacheFile := c.CacheFilePath(text, filepath.Ext(outputFile))

	if _, err := os.Stat(cacheFile); err == nil {
		c.logger.Debug("Audio cache hit", zap.String("file", cacheFile))
		return copyFile(cacheFile, outputFile)
	}

	if err := c.provider.GenerateAudio(ctx, text, outputFile); err != nil {
		return err
	}

	if err := copyFile(outputFile, cacheFile); err != nil {
		c.logger.Warn("Failed to store audio in cache", zap.Error(err))
	}
	return nil
}

// Name returns the wrapped provider name
func (c *CachingProvider) Name() string {
	return c.provider.Name()
}

// IsAvailable delegates to the wrapped provider
func (c *CachingProvider) IsAvailable() error {
	return c.provider.IsAvailable()
}

// CacheKey delegates to the wrapped provider
func (c *CachingProvider) CacheKey() string {
	return cacheKeyOf(c.provider)
}

// CacheFilePath returns the cache location for text with the given extension
func (c *CachingProvider) CacheFilePath(text, ext string) string {
	h := md5.New()
	h.Write([]byte(text))
	h.Write([]byte(c.provider.Name()))
	h.Write([]byte(cacheKeyOf(c.provider)))
	hash := hex.EncodeToString(h.Sum(nil))

	// First 2 chars as subdirectory keeps directories small
	return filepath.Join(c.cacheDir, hash[:2], hash[2:]+ext)
}

// ClearCache removes all cached audio files
func (c *CachingProvider) ClearCache() error {
	return os.RemoveAll(c.cacheDir)
}

// CacheStats returns the number and total size of cached files
func (c *CachingProvider) CacheStats() (fileCount int, totalSize int64, err error) {
	err = filepath.Walk(c.cacheDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			fileCount++
			totalSize += info.Size()
		}
		return nil
	})
	return fileCount, totalSize, err
}

func cacheKeyOf(p Provider) string {
	if k, ok := p.(interface{ CacheKey() string }); ok {
		return k.CacheKey()
	}
	return ""
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	dir := filepath.Dir(dst)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destination.Close()

	_, err = io.Copy(destination, source)
	return err
}
