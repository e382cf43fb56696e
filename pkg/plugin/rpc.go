package plugin

import (
	"context"
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// PaletteRPC implements the go-plugin Plugin interface for palette plugins.
type PaletteRPC struct {
	plugin.Plugin
	Impl Provider
}

// Server returns an RPC server for this plugin.
func (p *PaletteRPC) Server(*plugin.MuxBroker) (any, error) {
	return &RPCServer{Impl: p.Impl}, nil
}

// Client returns an RPC client for this plugin.
func (p *PaletteRPC) Client(_ *plugin.MuxBroker, c *rpc.Client) (any, error) {
	return &RPCClient{client: c}, nil
}

// RPCServer is the RPC server implementation for palette plugins.
type RPCServer struct {
	Impl Provider
}

// Generate implements the RPC method for palette generation.
func (s *RPCServer) Generate(req Request, resp *[]Colour) error {
	colours, err := s.Impl.Generate(context.Background(), req)
	if err != nil {
		return err
	}
	*resp = colours
	return nil
}

// Info implements the RPC method for fetching plugin metadata.
func (s *RPCServer) Info(_ any, resp *Info) error {
	*resp = s.Impl.Info()
	return nil
}

// RPCClient is the RPC client implementation for palette plugins.
type RPCClient struct {
	client *rpc.Client
}

// NewRPCClient wraps an established net/rpc connection to a plugin.
func NewRPCClient(c *rpc.Client) *RPCClient {
	return &RPCClient{client: c}
}

// Generate calls the remote Generate method. Cancelling ctx abandons the
// call; the plugin may still finish it.
func (c *RPCClient) Generate(ctx context.Context, req Request) ([]Colour, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var colours []Colour
	call := c.client.Go("Plugin.Generate", req, &colours, make(chan *rpc.Call, 1))
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-call.Done:
		if res.Error != nil {
			return nil, res.Error
		}
		return colours, nil
	}
}

// Info calls the remote Info method. Failures yield an empty Info.
func (c *RPCClient) Info() Info {
	var info Info
	if err := c.client.Call("Plugin.Info", new(any), &info); err != nil {
		return Info{}
	}
	return info
}
