package palette

import (
	"math/rand/v2"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/layertint/internal/colour"
)

// Bounds applied to every derived colour. The base colour is kept as given.
const (
	MinSaturation = 0.2
	MaxSaturation = 0.95
	MinLightness  = 0.2
	MaxLightness  = 0.9
)

// Request describes a palette to generate.
type Request struct {
	// BaseColor is a "#rrggbb" string. Empty or unparsable values fall back
	// to a random base colour.
	BaseColor string
	Harmony   Harmony
	// NumColors is the exact palette length; values <= 0 give an empty palette.
	NumColors int
	// Temperature scales the jitter applied to derived colours, nominally [0,1].
	Temperature float64
	// Seed makes the palette reproducible. Nil draws a fresh seed from entropy.
	Seed *int64
}

// Generator builds palettes. It holds no random state of its own; every
// call gets a private source, so a Generator is safe for concurrent use.
type Generator struct {
	logger hclog.Logger
}

// New creates a Generator. A nil logger discards output.
func New(logger hclog.Logger) *Generator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Generator{logger: logger}
}

// NewSource returns the random source used for a single palette: seeded
// from seed when given, otherwise from process entropy.
func NewSource(seed *int64) *rand.Rand {
	if seed != nil {
		s := uint64(*seed)
		return rand.New(rand.NewPCG(s, s))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Generate returns a palette of exactly req.NumColors colours.
func Generate(req Request) *colour.Palette {
	return New(nil).Generate(req)
}

// Generate returns a palette of exactly req.NumColors colours.
func (g *Generator) Generate(req Request) *colour.Palette {
	hsl := g.HSL(req)
	colors := make([]colour.RGB, len(hsl))
	for i, c := range hsl {
		colors[i] = c.RGB()
	}
	return colour.NewPalette(colors)
}

// HSL returns the palette before quantisation to 8-bit RGB.
func (g *Generator) HSL(req Request) []colour.HSL {
	if req.NumColors <= 0 {
		return []colour.HSL{}
	}
	return g.generate(NewSource(req.Seed), req)
}

func (g *Generator) generate(rng *rand.Rand, req Request) []colour.HSL {
	base, ok := g.baseColour(rng, req.BaseColor)
	if !ok && req.BaseColor != "" {
		g.logger.Debug("unusable base colour, using a random one", "base_color", req.BaseColor)
	}

	shifts := req.Harmony.Shifts()
	palette := make([]colour.HSL, 1, req.NumColors)
	palette[0] = base

	for len(palette) < req.NumColors {
		parent := palette[rng.IntN(len(palette))]

		shift := 0.0
		if len(shifts) > 0 {
			shift = shifts[rng.IntN(len(shifts))]
		}
		hue := colour.WrapHue(parent.H + shift)

		hJitter := jitter(rng, req.Temperature)
		sJitter := jitter(rng, req.Temperature)
		lJitter := jitter(rng, req.Temperature)

		palette = append(palette, colour.HSL{
			H: colour.WrapHue(hue + hJitter),
			S: clamp(parent.S+sJitter, MinSaturation, MaxSaturation),
			L: clamp(parent.L+lJitter, MinLightness, MaxLightness),
		})
	}

	g.logger.Trace("generated palette", "harmony", req.Harmony, "colors", len(palette))
	return palette
}

// baseColour parses the requested base or synthesises a random one. ok is
// false when the random fallback was used.
func (g *Generator) baseColour(rng *rand.Rand, hex string) (colour.HSL, bool) {
	if hex != "" {
		if rgb, err := colour.ParseHex(hex); err == nil {
			return rgb.HSL(), true
		}
	}
	return colour.HSL{
		H: rng.Float64(),
		S: uniform(rng, 0.6, 1.0),
		L: uniform(rng, 0.4, 0.6),
	}, false
}

func jitter(rng *rand.Rand, temperature float64) float64 {
	return uniform(rng, -0.5, 0.5) * temperature
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
