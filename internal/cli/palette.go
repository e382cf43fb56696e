package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/layertint/internal/colour"
	"github.com/jmylchreest/layertint/internal/palette"
	"github.com/jmylchreest/layertint/internal/plugin"
)

type paletteFlags struct {
	colors      int
	baseColor   string
	baseFrom    string
	harmony     string
	temperature float64
	seed        int64
	format      string
	output      string
	preview     bool
	plugin      string
}

func newPaletteCmd(root *rootFlags) *cobra.Command {
	flags := &paletteFlags{}

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Print a generated colour palette",
		Long: `Generate a single palette and print it, without touching any images.

Useful for exploring harmonies and temperatures before running a batch, or
for checking what a given seed produces.

Examples:
  # Five analogous colours
  layertint palette

  # The palette image 3 of a --seed 40 batch of a 4 layer stack would use
  layertint palette -n 4 --seed 42

  # Tetradic palette as JSON
  layertint palette --harmony tetradic --format json

  # Table with swatches
  layertint palette -n 8 --base-color "#e67e22" --format table --preview`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := root.logger(cmd.ErrOrStderr())

			harmony, ok := palette.ParseHarmony(flags.harmony)
			if !ok {
				logger.Warn("unknown harmony, using none", "harmony", flags.harmony, "valid", harmonyNames())
			}

			req := palette.Request{
				BaseColor:   flags.baseColor,
				Harmony:     harmony,
				NumColors:   flags.colors,
				Temperature: flags.temperature,
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &flags.seed
			}
			if flags.baseFrom != "" {
				if flags.baseColor != "" {
					return fmt.Errorf("--base-color and --base-from cannot be used together")
				}
				hex, err := baseFromImage(cmd.Context(), flags.baseFrom)
				if err != nil {
					return err
				}
				req.BaseColor = hex
			}
			if req.BaseColor != "" {
				if _, err := colour.ParseHex(req.BaseColor); err != nil {
					logger.Warn("ignoring invalid base colour, using a random one", "base_color", req.BaseColor)
				}
			}

			pal, err := generatePalette(cmd.Context(), flags.plugin, req, logger)
			if err != nil {
				return err
			}
			output, err := formatPalette(pal, flags.format, flags.preview)
			if err != nil {
				return err
			}

			if flags.output != "" {
				if err := os.WriteFile(flags.output, []byte(output), 0o644); err != nil { // #nosec G306 - Palette export, world readable is fine
					return fmt.Errorf("failed to write output file: %w", err)
				}
				logger.Info("wrote palette", "path", flags.output)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().IntVarP(&flags.colors, "colors", "n", 5, "number of colours")
	cmd.Flags().StringVar(&flags.baseColor, "base-color", "", "base colour as #rrggbb (default: random)")
	cmd.Flags().StringVar(&flags.baseFrom, "base-from", "", "use the dominant colour of this image as the base colour")
	cmd.Flags().StringVarP(&flags.harmony, "harmony", "H", palette.HarmonyAnalogous.String(), "colour harmony ("+harmonyNames()+")")
	cmd.Flags().Float64VarP(&flags.temperature, "temperature", "t", 0.1, "random variation of derived colours (0-1)")
	cmd.Flags().Int64VarP(&flags.seed, "seed", "s", 0, "random seed")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "hex", "output format (hex, rgb, json, table)")
	cmd.Flags().StringVar(&flags.output, "output", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&flags.preview, "preview", false, "show colour previews in terminal")
	cmd.Flags().StringVar(&flags.plugin, "palette-plugin", "", "palette plugin executable to use instead of the built-in generator")

	return cmd
}

func generatePalette(ctx context.Context, pluginPath string, req palette.Request, logger hclog.Logger) (*colour.Palette, error) {
	if pluginPath == "" {
		return palette.New(logger.Named("palette")).Generate(req), nil
	}

	src, err := plugin.Open(pluginPath, logger.Named("plugin"))
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return src.Generate(ctx, req)
}

// formatPalette formats the palette according to the specified format.
func formatPalette(pal *colour.Palette, format string, showPreview bool) (string, error) {
	switch format {
	case "hex":
		return formatHex(pal, showPreview), nil
	case "rgb":
		return formatRGB(pal, showPreview), nil
	case "json":
		jsonBytes, err := pal.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(jsonBytes) + "\n", nil
	case "table":
		return formatTable(pal, showPreview), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: hex, rgb, json, table)", format)
	}
}

// formatHex formats the palette as hex colour codes.
func formatHex(pal *colour.Palette, showPreview bool) string {
	var b strings.Builder
	for _, c := range pal.All() {
		if showPreview {
			b.WriteString(colour.FormatColourWithPreview(c, 8))
		} else {
			b.WriteString(c.Hex())
		}
		b.WriteString("\n")
	}
	return b.String()
}

// formatRGB formats the palette as RGB values.
func formatRGB(pal *colour.Palette, showPreview bool) string {
	var b strings.Builder
	for _, c := range pal.All() {
		if showPreview {
			b.WriteString(colour.ColourPreview(c, 8) + "  ")
		}
		b.WriteString(c.String())
		b.WriteString("\n")
	}
	return b.String()
}

// formatTable lists each colour with its layer index and HSL values.
func formatTable(pal *colour.Palette, showPreview bool) string {
	headers := []string{"Layer", "Hex", "RGB", "HSL"}
	if showPreview {
		headers = append(headers, "Preview")
	}

	table := NewTable(headers)
	for i, c := range pal.All() {
		hsl := c.HSL()
		row := []string{
			fmt.Sprintf("%d", i+1),
			c.Hex(),
			c.String(),
			fmt.Sprintf("hsl(%.0f, %.0f%%, %.0f%%)", hsl.H*360, hsl.S*100, hsl.L*100),
		}
		if showPreview {
			row = append(row, colour.ColourPreviewWithText(c, fmt.Sprintf("%d", i+1), 8))
		}
		table.AddRow(row)
	}
	return table.Render()
}
