// Package layer recolours and composites stacks of RGBA image layers.
package layer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrNoLayers is returned when compositing an empty stack.
var ErrNoLayers = errors.New("no layers to composite")

// DimensionMismatchError reports a layer whose size differs from the
// bottom layer of the stack.
type DimensionMismatchError struct {
	Name string
	Want image.Point
	Got  image.Point
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("layer %s is %dx%d, expected %dx%d", e.Name, e.Got.X, e.Got.Y, e.Want.X, e.Want.Y)
}

// Layer is a named, non-premultiplied RGBA raster anchored at (0,0) with
// no row padding, so Pix can be walked four bytes at a time.
type Layer struct {
	Name  string
	Image *image.NRGBA
}

// New wraps img as a layer, converting and normalising it as needed.
func New(name string, img image.Image) *Layer {
	return &Layer{Name: name, Image: toNRGBA(img)}
}

// Size returns the layer dimensions.
func (l *Layer) Size() image.Point {
	return l.Image.Rect.Size()
}

// Clone returns a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	return &Layer{Name: l.Name, Image: toNRGBA(l.Image)}
}

func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	rowLen := b.Dx() * 4

	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowLen], src.Pix[off:off+rowLen])
		}
		return dst
	}

	// Convert through NRGBA per pixel; sources already in a
	// non-premultiplied model come through without rounding.
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := dst.PixOffset(x, y)
			dst.Pix[i+0] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
			dst.Pix[i+3] = c.A
		}
	}
	return dst
}
