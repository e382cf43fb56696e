// mono - monochrome palette plugin for layertint
//
// This is an example layertint palette plugin. It keeps the hue and
// saturation of the base colour and spreads the layers over a range of
// lightness, so every layer of a sprite gets a shade of one colour. The
// harmony rule is ignored.
//
// Build:
//
//	go build -o mono ./contrib/plugins/mono
//
// Usage:
//
//	layertint generate -i ./layers/knight -o ./out --palette-plugin ./mono
//	layertint palette -n 6 --base-color "#8e44ad" --palette-plugin ./mono
//
// Author: layertint contributors
// License: MIT
package main

import (
	"context"
	"math/rand/v2"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/jmylchreest/layertint/pkg/plugin"
)

const (
	minLightness = 0.2
	maxLightness = 0.85
)

type mono struct{}

func (mono) Info() plugin.Info {
	return plugin.Info{
		Name:        "mono",
		Version:     "1.0.0",
		Description: "Shades of a single hue",
	}
}

func (mono) Generate(_ context.Context, req plugin.Request) ([]plugin.Colour, error) {
	if req.NumColors <= 0 {
		return nil, nil
	}

	var rng *rand.Rand
	if req.Seed != nil {
		s := uint64(*req.Seed)
		rng = rand.New(rand.NewPCG(s, s))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	h, s := rng.Float64()*360, 0.6+0.3*rng.Float64()
	if base, err := colorful.Hex(req.BaseColor); err == nil {
		h, s, _ = base.Hsl()
	}

	colours := make([]plugin.Colour, req.NumColors)
	for i := range colours {
		l := maxLightness
		if req.NumColors > 1 {
			l = minLightness + (maxLightness-minLightness)*float64(i)/float64(req.NumColors-1)
		}
		l += (rng.Float64() - 0.5) * req.Temperature * 0.1
		r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
		colours[i] = plugin.Colour{R: r, G: g, B: b}
	}
	return colours, nil
}

func main() {
	plugin.Serve(mono{})
}
