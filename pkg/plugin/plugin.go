// Package plugin provides the public API for layertint palette plugins.
// External plugins should import this package instead of internal packages.
//
// A palette plugin is an executable that serves a Provider over
// HashiCorp go-plugin net/rpc:
//
//	func main() {
//		plugin.Serve(&myProvider{})
//	}
package plugin

import (
	"context"

	"github.com/hashicorp/go-plugin"
)

const (
	// ProtocolVersion defines the current plugin API version.
	ProtocolVersion = 1

	// Name is the key the palette plugin is dispensed under.
	Name = "palette"
)

// Handshake is the handshake configuration for go-plugin protocol.
// This ensures that plugins using go-plugin can only connect to compatible hosts.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  ProtocolVersion,
	MagicCookieKey:   "LAYERTINT_PLUGIN",
	MagicCookieValue: "layertint_palette",
}

// Provider generates palettes for layertint.
type Provider interface {
	// Generate returns one colour per layer (req.NumColors). Returning fewer
	// is allowed; colours are then reused cyclically.
	Generate(ctx context.Context, req Request) ([]Colour, error)

	// Info describes the plugin.
	Info() Info
}

// Request mirrors the parameters of the built-in palette generator.
type Request struct {
	BaseColor   string  `json:"base_color"`
	Harmony     string  `json:"harmony"`
	NumColors   int     `json:"num_colors"`
	Temperature float64 `json:"temperature"`
	Seed        *int64  `json:"seed,omitempty"`
}

// Colour is an opaque 8-bit RGB colour.
type Colour struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Info contains metadata about a plugin.
type Info struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// PluginMap returns the go-plugin plugin set for impl. Hosts pass a nil impl.
func PluginMap(impl Provider) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		Name: &PaletteRPC{Impl: impl},
	}
}

// Serve runs impl as a plugin process. It blocks until the host disconnects.
func Serve(impl Provider) {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins:         PluginMap(impl),
	})
}
