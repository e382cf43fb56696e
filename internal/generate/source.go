package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/jmylchreest/layertint/internal/compression"
	imageutil "github.com/jmylchreest/layertint/internal/image"
	"github.com/jmylchreest/layertint/internal/layer"
)

// LoadLayers reads the layer stack from a directory or archive bundle,
// ordered by lower-cased file name. Every layer must share one size.
func LoadLayers(input string, loader imageutil.Loader) ([]*layer.Layer, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, &LayerReadError{Path: input, Err: err}
	}

	var layers []*layer.Layer
	switch {
	case info.IsDir():
		layers, err = loadDirectory(input, loader)
	case compression.IsArchive(input):
		layers, err = loadArchive(input)
	default:
		return nil, &LayerReadError{Path: input, Err: fmt.Errorf("not a directory or layer archive")}
	}
	if err != nil {
		return nil, err
	}

	if len(layers) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputImages, input)
	}
	if err := layer.CheckDimensions(layers); err != nil {
		return nil, err
	}
	return layers, nil
}

func loadDirectory(dir string, loader imageutil.Loader) ([]*layer.Layer, error) {
	paths, err := imageutil.ScanDirectoryForImages(dir)
	if err != nil {
		return nil, &LayerReadError{Path: dir, Err: err}
	}

	layers := make([]*layer.Layer, 0, len(paths))
	for _, path := range paths {
		img, err := loader.Load(path)
		if err != nil {
			return nil, &LayerReadError{Path: path, Err: err}
		}
		layers = append(layers, layer.New(filepath.Base(path), img))
	}
	return layers, nil
}

func loadArchive(path string) ([]*layer.Layer, error) {
	entries, err := compression.ReadFile(path, imageutil.IsImageFile)
	if err != nil {
		return nil, &LayerReadError{Path: path, Err: err}
	}

	slices.SortFunc(entries, func(a, b compression.Entry) int {
		return imageutil.CompareNames(a.Name, b.Name)
	})

	layers := make([]*layer.Layer, 0, len(entries))
	for _, entry := range entries {
		img, err := imageutil.DecodeBytes(entry.Data)
		if err != nil {
			return nil, &LayerReadError{Path: filepath.Join(path, entry.Name), Err: err}
		}
		layers = append(layers, layer.New(filepath.Base(entry.Name), img))
	}
	return layers, nil
}
