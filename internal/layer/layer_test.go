package layer

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/layertint/internal/colour"
)

// solid returns a w x h layer filled with c.
func solid(name string, w, h int, c color.NRGBA) *Layer {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return &Layer{Name: name, Image: img}
}

func TestNewNormalisesOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 9, 8))
	src.SetNRGBA(5, 5, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	src.SetNRGBA(8, 7, color.NRGBA{R: 9, G: 8, B: 7, A: 6})

	l := New("x", src)
	assert.Equal(t, image.Rect(0, 0, 4, 3), l.Image.Rect)
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 4}, l.Image.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 9, G: 8, B: 7, A: 6}, l.Image.NRGBAAt(3, 2))
}

func TestNewConvertsOtherModels(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.SetGray(1, 0, color.Gray{Y: 200})

	l := New("gray", src)
	assert.Equal(t, color.NRGBA{A: 255}, l.Image.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 200, G: 200, B: 200, A: 255}, l.Image.NRGBAAt(1, 0))
}

func TestIsMask(t *testing.T) {
	tests := []struct {
		name       string
		r, g, b, a uint8
		want       bool
	}{
		{"black opaque", 0, 0, 0, 255, true},
		{"near black", 49, 49, 49, 255, true},
		{"threshold red", 50, 0, 0, 255, false},
		{"threshold green", 0, 50, 0, 255, false},
		{"threshold blue", 0, 0, 50, 255, false},
		{"transparent black", 0, 0, 0, 0, false},
		{"barely visible", 10, 10, 10, 1, true},
		{"white", 255, 255, 255, 255, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMask(tt.r, tt.g, tt.b, tt.a))
		})
	}
}

func TestColorize(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 128}) // mask, half alpha
	src.SetNRGBA(1, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 0})      // transparent
	src.SetNRGBA(2, 0, color.NRGBA{R: 200, G: 10, B: 10, A: 255}) // artwork
	src.SetNRGBA(3, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 255})     // mask
	in := &Layer{Name: "body", Image: src}
	before := append([]uint8(nil), src.Pix...)

	target := colour.RGB{R: 0x34, G: 0x98, B: 0xdb}
	out := Colorize(in, target)

	assert.Equal(t, before, src.Pix, "input must not be mutated")
	assert.Equal(t, "body", out.Name)
	assert.Equal(t, in.Size(), out.Size())

	assert.Equal(t, color.NRGBA{R: 0x34, G: 0x98, B: 0xdb, A: 128}, out.Image.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{}, out.Image.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{R: 200, G: 10, B: 10, A: 255}, out.Image.NRGBAAt(2, 0))
	assert.Equal(t, color.NRGBA{R: 0x34, G: 0x98, B: 0xdb, A: 255}, out.Image.NRGBAAt(3, 0))
}

func TestColorizePreservesAlphaEverywhere(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for i := 0; i < len(src.Pix); i += 4 {
		v := uint8(i / 4)
		src.Pix[i] = v % 64
		src.Pix[i+1] = v % 48
		src.Pix[i+2] = v
		src.Pix[i+3] = v * 3
	}
	out := Colorize(&Layer{Image: src}, colour.RGB{R: 255, G: 255, B: 255})

	for i := 0; i < len(src.Pix); i += 4 {
		require.Equal(t, src.Pix[i+3], out.Image.Pix[i+3])
		if !IsMask(src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3]) {
			require.Equal(t, src.Pix[i:i+4], out.Image.Pix[i:i+4])
		}
	}
}

func TestColorizeAllWrapsPalette(t *testing.T) {
	layers := []*Layer{
		solid("a", 1, 1, color.NRGBA{A: 255}),
		solid("b", 1, 1, color.NRGBA{A: 255}),
		solid("c", 1, 1, color.NRGBA{A: 255}),
	}
	palette := colour.NewPalette([]colour.RGB{{R: 1}, {G: 2}})

	out, err := ColorizeAll(layers, palette)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, color.NRGBA{R: 1, A: 255}, out[0].Image.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{G: 2, A: 255}, out[1].Image.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 1, A: 255}, out[2].Image.NRGBAAt(0, 0))
}

func TestColorizeAllEmptyPalette(t *testing.T) {
	_, err := ColorizeAll([]*Layer{solid("a", 1, 1, color.NRGBA{})}, colour.NewPalette(nil))
	assert.ErrorIs(t, err, ErrEmptyPalette)

	_, err = ColorizeAll(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyPalette)
}

func TestCompositeSingleOpaqueLayer(t *testing.T) {
	l := solid("only", 3, 2, color.NRGBA{R: 12, G: 34, B: 56, A: 255})
	out, err := Composite([]*Layer{l})
	require.NoError(t, err)
	assert.Equal(t, l.Image.Pix, out.Pix)
	assert.Equal(t, l.Image.Rect, out.Rect)
}

func TestCompositeSingleSemiTransparentLayer(t *testing.T) {
	l := solid("ghost", 2, 2, color.NRGBA{R: 12, G: 34, B: 56, A: 77})
	out, err := Composite([]*Layer{l})
	require.NoError(t, err)
	assert.Equal(t, l.Image.Pix, out.Pix)
}

func TestCompositeTransparentLayerKeepsBase(t *testing.T) {
	base := solid("base", 2, 2, color.NRGBA{R: 90, G: 80, B: 70, A: 200})
	clear := solid("clear", 2, 2, color.NRGBA{R: 255, G: 255, B: 255, A: 0})

	out, err := Composite([]*Layer{base, clear})
	require.NoError(t, err)
	assert.Equal(t, base.Image.Pix, out.Pix)
}

func TestCompositeOrder(t *testing.T) {
	red := solid("red", 1, 1, color.NRGBA{R: 255, A: 255})
	blue := solid("blue", 1, 1, color.NRGBA{B: 255, A: 255})

	out, err := Composite([]*Layer{red, blue})
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, out.NRGBAAt(0, 0))

	out, err = Composite([]*Layer{blue, red})
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, out.NRGBAAt(0, 0))
}

func TestCompositeBlend(t *testing.T) {
	white := solid("white", 1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	black := solid("black", 1, 1, color.NRGBA{A: 128})

	out, err := Composite([]*Layer{white, black})
	require.NoError(t, err)
	got := out.NRGBAAt(0, 0)
	assert.Equal(t, uint8(255), got.A)
	assert.InDelta(t, 127, int(got.R), 1)
	assert.Equal(t, got.R, got.G)
	assert.Equal(t, got.R, got.B)
}

func TestCompositeBlendOverTranslucent(t *testing.T) {
	base := solid("base", 1, 1, color.NRGBA{R: 255, A: 128})
	top := solid("top", 1, 1, color.NRGBA{B: 255, A: 128})

	out, err := Composite([]*Layer{base, top})
	require.NoError(t, err)
	got := out.NRGBAAt(0, 0)
	// a = 0.5 + 0.5*0.5; blue contributes 0.5/0.75 of the colour.
	assert.InDelta(t, 192, int(got.A), 1)
	assert.InDelta(t, 170, int(got.B), 1)
	assert.InDelta(t, 85, int(got.R), 1)
}

func TestCompositeErrors(t *testing.T) {
	_, err := Composite(nil)
	assert.ErrorIs(t, err, ErrNoLayers)

	_, err = Composite([]*Layer{
		solid("a", 4, 4, color.NRGBA{}),
		solid("b", 4, 5, color.NRGBA{}),
	})
	var dimErr *DimensionMismatchError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, "b", dimErr.Name)
	assert.Equal(t, image.Pt(4, 4), dimErr.Want)
	assert.Equal(t, image.Pt(4, 5), dimErr.Got)
	assert.Contains(t, err.Error(), "4x5")
}

func TestScale(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})

	same, err := Scale(src, 1)
	require.NoError(t, err)
	assert.Same(t, src, same)

	out, err := Scale(src, 3)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 3), out.Rect)
	for y := range 3 {
		for x := range 3 {
			assert.Equal(t, color.NRGBA{R: 255, A: 255}, out.NRGBAAt(x, y))
			assert.Equal(t, color.NRGBA{G: 255, A: 255}, out.NRGBAAt(x+3, y))
		}
	}

	_, err = Scale(src, 0)
	assert.Error(t, err)
}
