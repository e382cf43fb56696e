package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/layertint/internal/compression"
	"github.com/jmylchreest/layertint/internal/generate"
	imageutil "github.com/jmylchreest/layertint/internal/image"
	"github.com/jmylchreest/layertint/internal/watch"
)

func newWatchCmd(root *rootFlags) *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate a batch whenever the layers change",
		Long: `Run a generate batch, then watch the layer directory (or archive bundle)
and run it again whenever a layer is added, edited or removed.

Takes the same flags as generate. Reruns always replace the previous
outputs. Stop with Ctrl-C.

Examples:
  layertint watch -i ./layers/knight -o ./out -n 4 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := root.logger(cmd.ErrOrStderr())

			params, err := flags.parameters(cmd.Context(), cmd.Flags(), logger, false)
			if err != nil {
				return err
			}
			params.Overwrite = true
			if err := params.Validate(); err != nil {
				return err
			}

			dir, filter, err := watchTarget(params.InputDir)
			if err != nil {
				return err
			}
			if sameDir(dir, params.OutputDir) {
				return fmt.Errorf("output directory must differ from the watched directory %s", dir)
			}

			w, err := watch.New(dir,
				watch.WithFilter(filter),
				watch.WithLogger(logger.Named("watch")),
			)
			if err != nil {
				return err
			}

			gen, release, err := flags.generator(logger)
			if err != nil {
				w.Close()
				return err
			}
			defer release()

			progress := newProgressPrinter(cmd.ErrOrStderr(), root.quiet)
			run := func(ctx context.Context) error {
				_, err := gen.Run(ctx, params, progress)
				return err
			}

			ctx := cmd.Context()
			if err := run(ctx); err != nil {
				logger.Warn("initial batch failed", "error", err)
			}
			logger.Info("watching for layer changes", "dir", dir)
			return w.Run(ctx, run)
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

// watchTarget returns the directory to watch for input and the filter
// selecting relevant files in it.
func watchTarget(input string) (string, func(string) bool, error) {
	info, err := os.Stat(input)
	if err != nil {
		return "", nil, &generate.LayerReadError{Path: input, Err: err}
	}
	if info.IsDir() {
		return input, imageutil.IsImageFile, nil
	}
	if !compression.IsArchive(input) {
		return "", nil, &generate.LayerReadError{Path: input, Err: errors.New("not a directory or layer archive")}
	}

	name := filepath.Base(input)
	return filepath.Dir(input), func(path string) bool {
		return filepath.Base(path) == name
	}, nil
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
