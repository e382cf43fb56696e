// Package plugin runs external palette plugins in place of the built-in
// palette generator.
package plugin

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/layertint/internal/colour"
	"github.com/jmylchreest/layertint/internal/palette"
	pluginapi "github.com/jmylchreest/layertint/pkg/plugin"
)

// Source adapts a palette plugin to generate.PaletteSource.
type Source struct {
	client   *goplugin.Client
	provider pluginapi.Provider
	info     pluginapi.Info
	logger   hclog.Logger
}

// Open starts the plugin executable at path and connects to it over
// go-plugin net/rpc. Close must be called to stop the process.
func Open(path string, logger hclog.Logger) (*Source, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("palette plugin not found: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("palette plugin is a directory: %s", path)
	}

	client := goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig:  pluginapi.Handshake,
		Plugins:          pluginapi.PluginMap(nil),
		Cmd:              exec.Command(path), // #nosec G204 - User-selected plugin executable
		AllowedProtocols: []goplugin.Protocol{goplugin.ProtocolNetRPC},
		Logger:           logger,
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to get RPC client: %w", err)
	}

	raw, err := rpcClient.Dispense(pluginapi.Name)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to dispense plugin: %w", err)
	}

	provider, ok := raw.(pluginapi.Provider)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("plugin %s does not provide palettes", path)
	}

	s := NewSource(provider, logger)
	s.client = client
	return s, nil
}

// NewSource wraps an in-process provider.
func NewSource(provider pluginapi.Provider, logger hclog.Logger) *Source {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	info := provider.Info()
	logger.Debug("palette plugin ready", "name", info.Name, "version", info.Version)
	return &Source{provider: provider, info: info, logger: logger}
}

// Info returns the metadata the plugin reported at startup.
func (s *Source) Info() pluginapi.Info {
	return s.info
}

// Generate asks the plugin for a palette.
func (s *Source) Generate(ctx context.Context, req palette.Request) (*colour.Palette, error) {
	colours, err := s.provider.Generate(ctx, pluginapi.Request{
		BaseColor:   req.BaseColor,
		Harmony:     req.Harmony.String(),
		NumColors:   req.NumColors,
		Temperature: req.Temperature,
		Seed:        req.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("palette plugin %s: %w", s.info.Name, err)
	}
	if len(colours) != req.NumColors {
		s.logger.Debug("plugin palette size differs from layer count", "want", req.NumColors, "got", len(colours))
	}

	rgb := make([]colour.RGB, len(colours))
	for i, c := range colours {
		rgb[i] = colour.RGB{R: c.R, G: c.G, B: c.B}
	}
	return colour.NewPalette(rgb), nil
}

// Close stops the plugin process, if any.
func (s *Source) Close() {
	if s.client != nil {
		s.client.Kill()
		s.client = nil
	}
}
