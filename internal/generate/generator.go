package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/layertint/internal/colour"
	imageutil "github.com/jmylchreest/layertint/internal/image"
	"github.com/jmylchreest/layertint/internal/layer"
	"github.com/jmylchreest/layertint/internal/palette"
)

// Status messages sent to the progress sink.
const (
	StatusStarting = "Starting..."
	StatusError    = "Error!"
)

// ProgressFunc receives human-readable status updates.
type ProgressFunc func(status string)

// ProgressMessage is the status for the 1-based output index of total.
func ProgressMessage(index, total int) string {
	return fmt.Sprintf("Generating image %d of %d...", index, total)
}

// SuccessMessage is the final status of a completed batch.
func SuccessMessage(total int) string {
	return fmt.Sprintf("Success! Generated %d images.", total)
}

// PaletteSource produces the palette for one output image.
type PaletteSource interface {
	Generate(ctx context.Context, req palette.Request) (*colour.Palette, error)
}

// builtinPalettes serves palettes from the in-process generator.
type builtinPalettes struct {
	gen *palette.Generator
}

func (b builtinPalettes) Generate(_ context.Context, req palette.Request) (*colour.Palette, error) {
	return b.gen.Generate(req), nil
}

// Generator runs generation batches.
type Generator struct {
	logger   hclog.Logger
	loader   imageutil.Loader
	palettes PaletteSource
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithLoader replaces the file loader used for layer directories.
func WithLoader(loader imageutil.Loader) Option {
	return func(g *Generator) {
		g.loader = loader
	}
}

// WithPaletteSource replaces the built-in palette generator, e.g. with a
// palette plugin.
func WithPaletteSource(src PaletteSource) Option {
	return func(g *Generator) {
		g.palettes = src
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		logger: hclog.NewNullLogger(),
		loader: imageutil.NewFileLoader(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.palettes == nil {
		g.palettes = builtinPalettes{gen: palette.New(g.logger.Named("palette"))}
	}
	return g
}

// OutputPath returns the file for the 1-based output index.
func OutputPath(params Parameters, index int) string {
	return filepath.Join(params.OutputDir, fmt.Sprintf("%s_%d.png", params.Basename, index))
}

// Run validates params, loads the layer stack once and writes params.Count
// composited images. The first error aborts the batch; the returned count
// is then the number of images already written.
func (g *Generator) Run(ctx context.Context, params Parameters, progress ProgressFunc) (written int, err error) {
	if progress == nil {
		progress = func(string) {}
	}

	progress(StatusStarting)
	defer func() {
		if err != nil {
			progress(StatusError)
		}
	}()

	if err := params.Validate(); err != nil {
		return 0, err
	}
	if params.BaseColor != "" {
		if _, err := colour.ParseHex(params.BaseColor); err != nil {
			g.logger.Warn("ignoring invalid base colour, using random base colours", "base_color", params.BaseColor)
		}
	}

	layers, err := LoadLayers(params.InputDir, g.loader)
	if err != nil {
		return 0, err
	}
	size := layers[0].Size()
	g.logger.Info("loaded layers", "input", params.InputDir, "count", len(layers), "width", size.X, "height", size.Y)

	if err := os.MkdirAll(params.OutputDir, 0o755); err != nil { // #nosec G301 - Output directory for generated images
		return 0, &OutputWriteError{Path: params.OutputDir, Err: err}
	}

	manifest := &Manifest{
		Input:       params.InputDir,
		Layers:      make([]string, len(layers)),
		Harmony:     params.Harmony,
		BaseColor:   params.BaseColor,
		Temperature: params.Temperature,
	}
	for i, l := range layers {
		manifest.Layers[i] = l.Name
	}

	for i := range params.Count {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		progress(ProgressMessage(i+1, params.Count))
		entry, err := g.render(ctx, params, layers, i)
		if err != nil {
			return written, err
		}
		written++
		manifest.Images = append(manifest.Images, entry)
	}

	if params.Manifest {
		path := ManifestPath(params)
		if err := writeManifest(path, manifest); err != nil {
			return written, &OutputWriteError{Path: path, Err: err}
		}
		g.logger.Debug("wrote manifest", "path", path)
	}

	progress(SuccessMessage(written))
	g.logger.Info("generation complete", "output", params.OutputDir, "images", written)
	return written, nil
}

// render produces and persists the output for the zero-based index.
func (g *Generator) render(ctx context.Context, params Parameters, layers []*layer.Layer, index int) (ManifestEntry, error) {
	seed := params.SeedFor(index)
	pal, err := g.palettes.Generate(ctx, palette.Request{
		BaseColor:   params.BaseColor,
		Harmony:     params.Harmony,
		NumColors:   len(layers),
		Temperature: params.Temperature,
		Seed:        seed,
	})
	if err != nil {
		return ManifestEntry{}, fmt.Errorf("image %d: %w", index+1, err)
	}

	colored, err := layer.ColorizeAll(layers, pal)
	if err != nil {
		return ManifestEntry{}, fmt.Errorf("image %d: %w", index+1, err)
	}
	img, err := layer.Composite(colored)
	if err != nil {
		return ManifestEntry{}, fmt.Errorf("image %d: %w", index+1, err)
	}
	img, err = layer.Scale(img, max(params.Scale, 1))
	if err != nil {
		return ManifestEntry{}, fmt.Errorf("image %d: %w", index+1, err)
	}

	path := OutputPath(params, index+1)
	if err := imageutil.SavePNG(path, img, params.Overwrite); err != nil {
		return ManifestEntry{}, &OutputWriteError{Path: path, Index: index + 1, Err: err}
	}

	hex := pal.ToHex()
	g.logger.Debug("wrote image", "path", path, "palette", hex)
	return ManifestEntry{
		Index:   index + 1,
		File:    filepath.Base(path),
		Seed:    seed,
		Palette: hex,
	}, nil
}
