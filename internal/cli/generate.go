package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/layertint/internal/config"
	"github.com/jmylchreest/layertint/internal/generate"
	imageutil "github.com/jmylchreest/layertint/internal/image"
	"github.com/jmylchreest/layertint/internal/palette"
	"github.com/jmylchreest/layertint/internal/plugin"
	"github.com/jmylchreest/layertint/internal/remote"
)

// generateFlags holds the batch flags shared by generate and watch.
type generateFlags struct {
	configPath  string
	input       string
	output      string
	count       int
	basename    string
	baseColor   string
	baseFrom    string
	harmony     string
	temperature float64
	seed        int64
	scale       int
	overwrite   bool
	manifest    bool
	plugin      string
}

func (g *generateFlags) register(fs *pflag.FlagSet) {
	d := generate.DefaultParameters()

	fs.StringVarP(&g.configPath, "config", "c", "", "config file (.yaml, .yml or .toml)")
	fs.StringVarP(&g.input, "input", "i", "", "layer directory, archive bundle or bundle URL (env: "+config.EnvInput+")")
	fs.StringVarP(&g.output, "output", "o", "", "output directory (env: "+config.EnvOutput+")")
	fs.IntVarP(&g.count, "count", "n", d.Count, "number of images to generate")
	fs.StringVarP(&g.basename, "basename", "b", d.Basename, "output file name prefix")
	fs.StringVar(&g.baseColor, "base-color", "", "base colour as #rrggbb (default: random per image)")
	fs.StringVar(&g.baseFrom, "base-from", "", "use the dominant colour of this image (path or URL) as the base colour")
	fs.StringVarP(&g.harmony, "harmony", "H", d.Harmony.String(), "colour harmony ("+harmonyNames()+") (env: "+config.EnvHarmony+")")
	fs.Float64VarP(&g.temperature, "temperature", "t", d.Temperature, "random variation of derived colours (0-1)")
	fs.Int64VarP(&g.seed, "seed", "s", 0, "random seed for reproducible batches (env: "+config.EnvSeed+")")
	fs.IntVar(&g.scale, "scale", d.Scale, "integer upscale factor for the output (nearest neighbour)")
	fs.BoolVar(&g.overwrite, "overwrite", false, "replace existing output files (without it, rerunning into the same directory fails on the first existing image)")
	fs.BoolVar(&g.manifest, "manifest", false, "write a JSON manifest of seeds and palettes")
	fs.StringVar(&g.plugin, "palette-plugin", "", "palette plugin executable to use instead of the built-in generator")
}

// generator builds the batch generator, starting the palette plugin if one
// was requested. The returned func releases it.
func (g *generateFlags) generator(logger hclog.Logger) (*generate.Generator, func(), error) {
	opts := []generate.Option{generate.WithLogger(logger)}
	if g.plugin == "" {
		return generate.New(opts...), func() {}, nil
	}

	src, err := plugin.Open(g.plugin, logger.Named("plugin"))
	if err != nil {
		return nil, nil, err
	}
	info := src.Info()
	logger.Info("using palette plugin", "name", info.Name, "version", info.Version)
	opts = append(opts, generate.WithPaletteSource(src))
	return generate.New(opts...), src.Close, nil
}

// changed returns the flags set on the command line as a config layer.
func (g *generateFlags) changed(fs *pflag.FlagSet) *config.File {
	f := &config.File{}
	if fs.Changed("input") {
		f.Input = &g.input
	}
	if fs.Changed("output") {
		f.Output = &g.output
	}
	if fs.Changed("count") {
		f.Count = &g.count
	}
	if fs.Changed("basename") {
		f.Basename = &g.basename
	}
	if fs.Changed("base-color") {
		f.BaseColor = &g.baseColor
	}
	if fs.Changed("base-from") {
		f.BaseFrom = &g.baseFrom
	}
	if fs.Changed("harmony") {
		f.Harmony = &g.harmony
	}
	if fs.Changed("temperature") {
		f.Temperature = &g.temperature
	}
	if fs.Changed("seed") {
		f.Seed = &g.seed
	}
	if fs.Changed("scale") {
		f.Scale = &g.scale
	}
	if fs.Changed("overwrite") {
		f.Overwrite = &g.overwrite
	}
	if fs.Changed("manifest") {
		f.Manifest = &g.manifest
	}
	return f
}

// parameters layers defaults, config file, environment and flags, in
// that order. With allowRemote, an http(s) input is downloaded to the
// cache and replaced by the local path.
func (g *generateFlags) parameters(ctx context.Context, fs *pflag.FlagSet, logger hclog.Logger, allowRemote bool) (generate.Parameters, error) {
	params := generate.DefaultParameters()

	var file *config.File
	if g.configPath != "" {
		var err error
		if file, err = config.Load(g.configPath); err != nil {
			return params, err
		}
		logger.Debug("loaded config", "path", g.configPath)
	}

	env, err := config.FromEnv(os.LookupEnv)
	if err != nil {
		return params, err
	}

	merged := config.Merge(file, env, g.changed(fs))
	if unknown := merged.Apply(&params); unknown != "" {
		logger.Warn("unknown harmony, using none", "harmony", unknown, "valid", harmonyNames())
	}

	if remote.IsURL(params.InputDir) {
		if !allowRemote {
			return params, fmt.Errorf("input must be a local directory or archive, got %s", params.InputDir)
		}
		path, err := remote.Download(ctx, params.InputDir, remote.CacheOptions{})
		if err != nil {
			return params, &generate.LayerReadError{Path: params.InputDir, Err: err}
		}
		logger.Info("using downloaded layer bundle", "url", params.InputDir, "path", path)
		params.InputDir = path
	}

	if merged.BaseFrom != nil && *merged.BaseFrom != "" {
		if merged.BaseColor != nil && *merged.BaseColor != "" {
			return params, fmt.Errorf("--base-color and --base-from cannot be used together")
		}
		hex, err := baseFromImage(ctx, *merged.BaseFrom)
		if err != nil {
			return params, err
		}
		logger.Info("using dominant colour as base", "image", *merged.BaseFrom, "base_color", hex)
		params.BaseColor = hex
	}

	return params, nil
}

// baseFromImage returns the dominant colour of a local or remote image.
func baseFromImage(ctx context.Context, path string) (string, error) {
	if remote.IsURL(path) {
		local, err := remote.Download(ctx, path, remote.CacheOptions{})
		if err != nil {
			return "", err
		}
		path = local
	}

	img, err := imageutil.NewFileLoader().Load(path)
	if err != nil {
		return "", fmt.Errorf("failed to load base colour image: %w", err)
	}
	return imageutil.DominantColour(img).Hex(), nil
}

func harmonyNames() string {
	valid := palette.ValidHarmonies()
	names := make([]string, len(valid))
	for i, h := range valid {
		names[i] = h.String()
	}
	return strings.Join(names, ", ")
}

func newGenerateCmd(root *rootFlags) *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate recoloured images from a layer stack",
		Long: `Generate a batch of images from a stack of layers.

Layers are read from a directory (or a .zip, .tar.gz, .tar.xz or .tar.bz2
bundle) in case-insensitive name order; the first layer is the bottom of the
stack. Each output gets its own palette with one colour per layer. Near-black
pixels of layer i take palette colour i.

Outputs are written as {basename}_1.png ... {basename}_N.png. With --seed the
batch is reproducible: image i uses seed+i.

Settings are layered: defaults, then --config, then LAYERTINT_* environment
variables, then flags given on the command line.

Examples:
  # Ten analogous variants
  layertint generate -i ./layers/knight -o ./out

  # Reproducible triadic batch around a fixed base colour
  layertint generate -i ./layers/knight -o ./out -n 20 \
    --harmony triadic --base-color "#3498db" --seed 42

  # Take the base colour from a reference image and upscale 8x
  layertint generate -i knight.tar.xz -o ./out --base-from ref.png --scale 8

  # Layers from a remote bundle (cached after the first download)
  layertint generate -i https://example.com/packs/knight.zip -o ./out

  # Palettes from an external plugin
  layertint generate -i ./layers/knight -o ./out --palette-plugin ./mono

  # Settings from a file, with the count overridden
  layertint generate --config knight.yaml -n 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := root.logger(cmd.ErrOrStderr())

			params, err := flags.parameters(cmd.Context(), cmd.Flags(), logger, true)
			if err != nil {
				return err
			}

			gen, release, err := flags.generator(logger)
			if err != nil {
				return err
			}
			defer release()

			_, err = gen.Run(cmd.Context(), params, newProgressPrinter(cmd.ErrOrStderr(), root.quiet))
			return err
		},
	}

	flags.register(cmd.Flags())
	return cmd
}
