package layer

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Scale enlarges img by an integer factor with nearest-neighbour sampling,
// keeping pixel art edges hard. A factor of 1 returns img itself.
func Scale(img *image.NRGBA, factor int) (*image.NRGBA, error) {
	if factor < 1 {
		return nil, fmt.Errorf("invalid scale factor: %d", factor)
	}
	if factor == 1 {
		return img, nil
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, nil
}
