package layer

import (
	"image"
)

// CheckDimensions verifies every layer matches the size of the first.
func CheckDimensions(layers []*Layer) error {
	if len(layers) == 0 {
		return ErrNoLayers
	}
	want := layers[0].Size()
	for _, l := range layers[1:] {
		if got := l.Size(); got != want {
			return &DimensionMismatchError{Name: l.Name, Want: want, Got: got}
		}
	}
	return nil
}

// Composite blends layers source-over onto a transparent canvas, first
// layer at the bottom.
func Composite(layers []*Layer) (*image.NRGBA, error) {
	if err := CheckDimensions(layers); err != nil {
		return nil, err
	}

	canvas := image.NewNRGBA(image.Rectangle{Max: layers[0].Size()})
	for _, l := range layers {
		over(canvas.Pix, l.Image.Pix)
	}
	return canvas, nil
}

// over blends src onto dst in place. Both are tightly packed NRGBA buffers
// of the same length.
func over(dst, src []uint8) {
	for i := 0; i+3 < len(src); i += 4 {
		sa := uint32(src[i+3])
		if sa == 0 {
			continue
		}
		da := uint32(dst[i+3])
		if sa == 255 || da == 0 {
			copy(dst[i:i+4], src[i:i+4])
			continue
		}

		// Alpha scaled by 255 to stay in integers.
		outA := sa*255 + da*(255-sa)
		for c := range 3 {
			sc := uint32(src[i+c])
			dc := uint32(dst[i+c])
			dst[i+c] = uint8((sc*sa*255 + dc*da*(255-sa) + outA/2) / outA)
		}
		dst[i+3] = uint8((outA + 127) / 255)
	}
}
