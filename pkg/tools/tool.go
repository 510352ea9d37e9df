package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/comigor/bridge-go/internal/relay"
)

// Tool is the interface for all tools
type Tool interface {
	Name() string
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Relay is the subset of the relay client the tools call; it is easy to fake
// in tests.
type Relay interface {
	Send(ctx context.Context, from, to, content, typ string) (relay.Message, error)
	List(ctx context.Context, from, to string) ([]relay.Message, error)
	Unread(ctx context.Context, to string) ([]relay.Message, error)
	Get(ctx context.Context, id int64) (relay.Message, error)
	MarkRead(ctx context.Context, id int64) (relay.Message, error)
	Delete(ctx context.Context, id int64) error
	Health(ctx context.Context) (relay.Health, error)
}
