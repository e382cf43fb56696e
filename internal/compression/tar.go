package compression

import (
	"archive/tar"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/layertint/internal/security"
)

type decompressor func(r io.Reader) (io.Reader, error)

func gzipReader(r io.Reader) (io.Reader, error) {
	gzr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	return gzr, nil
}

func xzReader(r io.Reader) (io.Reader, error) {
	xzr, err := xz.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create xz reader: %w", err)
	}
	return xzr, nil
}

func bzip2Reader(r io.Reader) (io.Reader, error) {
	return bzip2.NewReader(r), nil
}

// readTar reads matching regular files from a compressed tar archive.
func readTar(data []byte, decompress decompressor, filter Filter) ([]Entry, error) {
	dr, err := decompress(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	tr := tar.NewReader(dr)
	var entries []Entry
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tar archive: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}
		if err := security.ValidateFilePath(header.Name, entryRoot); err != nil {
			return nil, fmt.Errorf("unsafe archive entry %q: %w", header.Name, err)
		}
		if filter != nil && !filter(header.Name) {
			continue
		}

		body, err := io.ReadAll(security.NewLimitedReader(tr, MaxEntrySize))
		if err != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", header.Name, err)
		}
		entries = append(entries, Entry{Name: header.Name, Data: body})
	}

	return entries, nil
}
