package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/layertint/internal/plugin"
)

func newPluginCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugin",
		Short: "Inspect palette plugins",
		Long: `Palette plugins are executables that generate palettes in place of the
built-in harmony generator. They speak the HashiCorp go-plugin net/rpc
protocol; see pkg/plugin for the API and contrib/plugins for an example.

Use a plugin with --palette-plugin on generate, watch or palette.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "info <path>...",
		Short: "Start plugins and print their metadata",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := root.logger(cmd.ErrOrStderr())

			table := NewTable([]string{"Path", "Name", "Version", "Description"})
			for _, path := range args {
				src, err := plugin.Open(path, logger.Named("plugin"))
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				info := src.Info()
				src.Close()
				table.AddRow([]string{path, info.Name, info.Version, info.Description})
			}
			fmt.Fprint(cmd.OutOrStdout(), table.Render())
			return nil
		},
	})

	return cmd
}
