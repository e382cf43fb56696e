// Package image provides utilities for loading and saving layer images.
package image

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cenkalti/dominantcolor"
	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/layertint/internal/colour"
)

// Loader handles loading images from various sources.
type Loader interface {
	// Load loads an image from the given path.
	Load(path string) (image.Image, error)
}

// FileLoader loads images from the local filesystem.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load loads an image from a file path.
// Supported formats: PNG, JPEG, GIF, WebP, BMP, TIFF.
func (l *FileLoader) Load(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

// Decode decodes an image in any registered format.
func Decode(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}
	return img, nil
}

// DecodeBytes decodes an in-memory image.
func DecodeBytes(data []byte) (image.Image, error) {
	return Decode(bytes.NewReader(data))
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff"}
}

// IsImageFile checks if a file has a supported image extension.
func IsImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(SupportedImageExtensions(), ext)
}

// CompareNames orders paths by lower-cased base name. Names differing only
// in case fall back to byte-wise order so sorting stays deterministic.
func CompareNames(a, b string) int {
	la, lb := strings.ToLower(filepath.Base(a)), strings.ToLower(filepath.Base(b))
	if c := strings.Compare(la, lb); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// SortByName sorts paths with CompareNames.
func SortByName(names []string) {
	slices.SortFunc(names, CompareNames)
}

// ScanDirectoryForImages returns the image files in dirPath sorted by
// lower-cased name. It does not recurse into subdirectories, but follows
// symlinks. An empty result is not an error.
func ScanDirectoryForImages(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var imageFiles []string
	for _, entry := range entries {
		if !IsImageFile(entry.Name()) {
			continue
		}

		fullPath := filepath.Join(dirPath, entry.Name())

		// For symlinks, stat the target to determine if it's a file.
		info, err := os.Stat(fullPath)
		if err != nil || info.IsDir() {
			continue
		}

		imageFiles = append(imageFiles, fullPath)
	}

	SortByName(imageFiles)
	return imageFiles, nil
}

// SavePNG writes img to path as PNG. An existing file is replaced only when
// overwrite is set.
func SavePNG(path string, img image.Image, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}

	file, err := os.OpenFile(path, flags, 0o644) // #nosec G304 - Output path built from user-selected directory
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	encodeErr := png.Encode(file, img)
	closeErr := file.Close()
	if encodeErr != nil {
		_ = os.Remove(path)
		return fmt.Errorf("failed to encode png: %w", encodeErr)
	}
	if closeErr != nil {
		_ = os.Remove(path)
		return fmt.Errorf("failed to close output file: %w", closeErr)
	}
	return nil
}

// DominantColour returns the most prominent colour in img.
func DominantColour(img image.Image) colour.RGB {
	return colour.ToRGB(dominantcolor.Find(img))
}
