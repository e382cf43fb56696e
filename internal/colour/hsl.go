package colour

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColorFormat is returned when a string is not a 6 digit hex colour.
var ErrInvalidColorFormat = errors.New("invalid colour format")

// HSL is a colour in hue, saturation, lightness form. All components are in
// [0,1]; hue is circular.
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// ParseHex parses "#rrggbb" or "rrggbb" (any case).
func ParseHex(s string) (RGB, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, s)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustParseHex is like ParseHex but panics on error.
func MustParseHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// HSL converts the colour to HSL.
func (rgb RGB) HSL() HSL {
	c := colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}
	h, s, l := c.Hsl()
	return HSL{H: WrapHue(h / 360.0), S: s, L: l}
}

// RGB converts back to 8-bit RGB, rounding to the nearest channel value.
func (hsl HSL) RGB() RGB {
	r, g, b := colorful.Hsl(WrapHue(hsl.H)*360.0, hsl.S, hsl.L).Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// WrapHue maps any hue onto [0,1).
func WrapHue(h float64) float64 {
	h -= math.Floor(h)
	if h >= 1 {
		// -tiny - floor(-tiny) rounds up to exactly 1.
		return 0
	}
	return h
}

// Luminance returns the relative luminance (WCAG 2.0) of a colour in [0,1].
func Luminance(rgb RGB) float64 {
	r, g, b := colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
