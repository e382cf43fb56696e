// Package cli provides the command-line interface for layertint.
package cli

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/layertint/internal/version"
)

type rootFlags struct {
	verbose bool
	quiet   bool
}

// logger returns the command logger. Logs go to stderr so stdout stays
// clean for palette output.
func (f *rootFlags) logger(w io.Writer) hclog.Logger {
	level := hclog.Info
	switch {
	case f.quiet:
		level = hclog.Error
	case f.verbose:
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "layertint",
		Output: w,
		Level:  level,
	})
}

// NewRootCmd builds the layertint command tree.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "layertint",
		Short: "Procedural colour variants of layered pixel art",
		Long: `layertint recolours a stack of image layers with generated colour palettes
and composites them into new images.

Each layer is tinted with one palette colour: its near-black pixels take the
colour, everything else is left alone. Palettes follow a colour-harmony rule
(analogous, complementary, split_complementary, triadic, tetradic or none)
and can be made reproducible with a seed.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress non-error output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.SetVersionTemplate(version.String() + "\n")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newGenerateCmd(flags))
	cmd.AddCommand(newPaletteCmd(flags))
	cmd.AddCommand(newWatchCmd(flags))
	cmd.AddCommand(newPluginCmd(flags))

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
