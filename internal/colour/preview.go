package colour

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const defaultWidth = 8

// DisableColourOutput can be used to disable colour output.
var DisableColourOutput = false

// SupportsANSIColours reports whether stdout is a terminal that should get
// colour swatches.
func SupportsANSIColours() bool {
	if DisableColourOutput || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ColourPreview returns a solid block of the colour, width cells wide.
func ColourPreview(c RGB, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	block := strings.Repeat(" ", width)
	if !SupportsANSIColours() {
		return block
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render(block)
}

// ColourPreviewWithText returns a colour block with centred text in a
// contrasting foreground.
func ColourPreviewWithText(c RGB, text string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	if len(text) > width {
		text = text[:width]
	}
	if !SupportsANSIColours() {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
	}

	fg := "#ffffff"
	if Luminance(c) > 0.5 {
		fg = "#000000"
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(c.Hex())).
		Foreground(lipgloss.Color(fg)).
		Width(width).
		Align(lipgloss.Center).
		Render(text)
}

// FormatColourWithPreview formats a colour with its preview and hex code.
func FormatColourWithPreview(rgb RGB, width int) string {
	return fmt.Sprintf("%s %s", ColourPreview(rgb, width), rgb.Hex())
}
