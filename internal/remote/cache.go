package remote

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/layertint/internal/compression"
)

// CacheOptions configures download caching.
type CacheOptions struct {
	// CacheDir is where downloads are kept. If empty, defaults to
	// the user cache dir under layertint/remote.
	CacheDir string

	// Refresh downloads again even when a cached copy exists.
	Refresh bool

	Fetch FetchOptions
}

// DefaultCacheDir returns the default cache directory path.
func DefaultCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "layertint", "remote"), nil
	}
	return filepath.Join(cacheDir, "layertint", "remote"), nil
}

// cacheFilename derives a stable file name from rawURL, keeping the
// extension so format detection still works on the cached copy. Archive
// suffixes like .tar.xz are kept whole.
func cacheFilename(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))
	name := fmt.Sprintf("%x", hash[:16])

	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	base := path.Base(p)

	if compression.IsArchive(base) {
		return name + base[len(compression.GetArchiveBaseName(base)):]
	}
	ext := path.Ext(base)
	if ext == "" || len(ext) > 5 {
		ext = ".img"
	}
	return name + strings.ToLower(ext)
}

// Download fetches rawURL into the cache and returns the local path. An
// existing cached copy is reused unless opts.Refresh is set.
func Download(ctx context.Context, rawURL string, opts CacheOptions) (string, error) {
	if !IsURL(rawURL) {
		return "", fmt.Errorf("invalid URL: must start with http:// or https://")
	}

	cacheDir := opts.CacheDir
	if cacheDir == "" {
		defaultDir, err := DefaultCacheDir()
		if err != nil {
			return "", err
		}
		cacheDir = defaultDir
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	cachedPath := filepath.Join(cacheDir, cacheFilename(rawURL))
	if !opts.Refresh {
		if _, err := os.Stat(cachedPath); err == nil {
			return cachedPath, nil
		}
	}

	data, err := Fetch(ctx, rawURL, opts.Fetch)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", rawURL, err)
	}

	// Write then rename so an interrupted download never looks cached.
	tmp := cachedPath + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil { // #nosec G306 - Cache files need standard read permissions
		return "", fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, cachedPath); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to write cache file: %w", err)
	}
	return cachedPath, nil
}
