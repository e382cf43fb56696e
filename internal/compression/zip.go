package compression

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/jmylchreest/layertint/internal/security"
)

// readZip reads matching regular files from a zip archive.
func readZip(data []byte, filter Filter) ([]Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to create zip reader: %w", err)
	}

	var entries []Entry
	for _, f := range zr.File {
		if !f.Mode().IsRegular() {
			continue
		}
		if err := security.ValidateFilePath(f.Name, entryRoot); err != nil {
			return nil, fmt.Errorf("unsafe archive entry %q: %w", f.Name, err)
		}
		if filter != nil && !filter(f.Name) {
			continue
		}

		body, err := readZipFile(f)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Name: f.Name, Data: body})
	}

	return entries, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file in archive: %w", err)
	}
	defer rc.Close()

	body, err := io.ReadAll(security.NewLimitedReader(rc, MaxEntrySize))
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	return body, nil
}
