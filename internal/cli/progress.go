package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jmylchreest/layertint/internal/generate"
)

// newProgressPrinter writes batch status to w. On a terminal each status
// replaces the previous one in place.
func newProgressPrinter(w io.Writer, quiet bool) generate.ProgressFunc {
	if quiet {
		return nil
	}

	tty := false
	if f, ok := w.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	if !tty {
		return func(status string) {
			fmt.Fprintln(w, status)
		}
	}

	return func(status string) {
		fmt.Fprintf(w, "\r\033[K%s", status)
		if status == generate.StatusError || strings.HasPrefix(status, "Success!") {
			fmt.Fprintln(w)
		}
	}
}
