// Package compression reads layer images out of archive bundles.
package compression

import (
	"fmt"
	"os"
	"strings"
)

// MaxEntrySize caps the decompressed size of a single archive entry.
const MaxEntrySize = 64 * 1024 * 1024

// entryRoot is the notional directory entries are validated against.
const entryRoot = "bundle"

// Entry is a file read from an archive.
type Entry struct {
	// Name is the path of the file inside the archive.
	Name string
	Data []byte
}

// Filter selects which archive entries to read, by name.
type Filter func(name string) bool

var archiveSuffixes = []string{".tar.gz", ".tgz", ".tar.xz", ".txz", ".tar.bz2", ".tbz", ".tbz2", ".zip"}

// IsArchive reports whether path names a supported archive format.
func IsArchive(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range archiveSuffixes {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ReadFile reads every regular file accepted by filter from the archive at
// path. The format is detected from the file extension.
func ReadFile(path string, filter Filter) ([]Entry, error) {
	data, err := os.ReadFile(path) // #nosec G304 - User-specified layer bundle
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	return Read(data, path, filter)
}

// Read reads entries from in-memory archive data; name is used for format
// detection.
func Read(data []byte, name string, filter Filter) ([]Entry, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return readTar(data, gzipReader, filter)
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return readTar(data, xzReader, filter)
	case strings.HasSuffix(lower, ".tar.bz2"), strings.HasSuffix(lower, ".tbz"), strings.HasSuffix(lower, ".tbz2"):
		return readTar(data, bzip2Reader, filter)
	case strings.HasSuffix(lower, ".zip"):
		return readZip(data, filter)
	}
	return nil, fmt.Errorf("unsupported archive format: %s", name)
}

// GetArchiveBaseName strips a known archive extension from a filename.
// For example: "knight_v2.tar.xz" -> "knight_v2".
func GetArchiveBaseName(filename string) string {
	lower := strings.ToLower(filename)
	for _, ext := range archiveSuffixes {
		if strings.HasSuffix(lower, ext) {
			return filename[:len(filename)-len(ext)]
		}
	}
	return filename
}
