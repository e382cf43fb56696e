package layer

import (
	"errors"

	"github.com/jmylchreest/layertint/internal/colour"
)

// ErrEmptyPalette is returned when there is no colour to paint layers with.
var ErrEmptyPalette = errors.New("palette is empty")

// MaskThreshold is the exclusive upper bound on each RGB channel for a pixel
// to count as part of a layer's paintable mask.
const MaskThreshold = 50

// IsMask reports whether a pixel is near-black and not fully transparent.
func IsMask(r, g, b, a uint8) bool {
	return r < MaskThreshold && g < MaskThreshold && b < MaskThreshold && a > 0
}

// Colorize returns a copy of l with every mask pixel painted target. Alpha is
// preserved; all other pixels are copied unchanged.
func Colorize(l *Layer, target colour.RGB) *Layer {
	out := l.Clone()
	pix := out.Image.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		if IsMask(pix[i], pix[i+1], pix[i+2], pix[i+3]) {
			pix[i] = target.R
			pix[i+1] = target.G
			pix[i+2] = target.B
		}
	}
	return out
}

// ColorizeAll paints layer i with palette colour i modulo the palette length.
func ColorizeAll(layers []*Layer, palette *colour.Palette) ([]*Layer, error) {
	if palette == nil || palette.Len() == 0 {
		return nil, ErrEmptyPalette
	}
	out := make([]*Layer, len(layers))
	for i, l := range layers {
		out[i] = Colorize(l, palette.At(i))
	}
	return out, nil
}
