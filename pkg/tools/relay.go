package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/comigor/bridge-go/internal/logger"
)

// relayTool adapts a function over the relay into a Tool. Failures become MCP
// error results so the calling agent sees them as tool output.
type relayTool struct {
	def mcp.Tool
	run func(ctx context.Context, args map[string]any) (any, error)
}

func (t *relayTool) Name() string { return t.def.Name }

func (t *relayTool) Definition() mcp.Tool { return t.def }

func (t *relayTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	logger.L.Debug("relay tool invoked", "tool", t.def.Name, "arguments", args)

	out, err := t.run(ctx, args)
	if err != nil {
		logger.L.Warn("relay tool failed", "tool", t.def.Name, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("result could not be formatted: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// RelayTools returns the tool set for an agent called agent whose default
// correspondent is peer.
func RelayTools(r Relay, agent, peer string) []Tool {
	return []Tool{
		&relayTool{
			def: mcp.NewTool("send_message",
				mcp.WithDescription(fmt.Sprintf("Send a message from %s to another agent through the bridge relay.", agent)),
				mcp.WithString("content", mcp.Required(), mcp.Description("Message body")),
				mcp.WithString("to", mcp.Description("Recipient name (default "+peer+")")),
				mcp.WithString("type", mcp.Description("Message type (default text)")),
			),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				content, ok := stringArg(args, "content")
				if !ok {
					return nil, fmt.Errorf("content is required")
				}
				to, ok := stringArg(args, "to")
				if !ok || to == "" {
					to = peer
				}
				typ, _ := stringArg(args, "type")
				return r.Send(ctx, agent, to, content, typ)
			},
		},
		&relayTool{
			def: mcp.NewTool("check_messages",
				mcp.WithDescription(fmt.Sprintf("Return unread messages addressed to %s.", agent)),
				mcp.WithBoolean("mark_read", mcp.Description("Mark every returned message as read")),
			),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				msgs, err := r.Unread(ctx, agent)
				if err != nil {
					return nil, err
				}
				if !boolArg(args, "mark_read") {
					return msgs, nil
				}
				for i, m := range msgs {
					read, err := r.MarkRead(ctx, m.ID)
					if err != nil {
						return nil, fmt.Errorf("mark %d read: %w", m.ID, err)
					}
					msgs[i] = read
				}
				return msgs, nil
			},
		},
		&relayTool{
			def: mcp.NewTool("list_messages",
				mcp.WithDescription("List relay messages, optionally filtered by sender and recipient."),
				mcp.WithString("from", mcp.Description("Only messages from this sender")),
				mcp.WithString("to", mcp.Description("Only messages to this recipient")),
			),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				from, _ := stringArg(args, "from")
				to, _ := stringArg(args, "to")
				return r.List(ctx, from, to)
			},
		},
		&relayTool{
			def: mcp.NewTool("get_message",
				mcp.WithDescription("Fetch one message by id."),
				mcp.WithNumber("id", mcp.Required(), mcp.Description("Message id")),
			),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := idArg(args)
				if err != nil {
					return nil, err
				}
				return r.Get(ctx, id)
			},
		},
		&relayTool{
			def: mcp.NewTool("mark_read",
				mcp.WithDescription("Mark one message as read."),
				mcp.WithNumber("id", mcp.Required(), mcp.Description("Message id")),
			),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := idArg(args)
				if err != nil {
					return nil, err
				}
				return r.MarkRead(ctx, id)
			},
		},
		&relayTool{
			def: mcp.NewTool("delete_message",
				mcp.WithDescription("Delete one message. Unknown ids are not an error."),
				mcp.WithNumber("id", mcp.Required(), mcp.Description("Message id")),
			),
			run: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := idArg(args)
				if err != nil {
					return nil, err
				}
				if err := r.Delete(ctx, id); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "id": id}, nil
			},
		},
		&relayTool{
			def: mcp.NewTool("relay_health",
				mcp.WithDescription("Report relay status with total and unread message counts."),
			),
			run: func(ctx context.Context, _ map[string]any) (any, error) {
				return r.Health(ctx)
			},
		},
	}
}

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key].(string)
	return v, ok
}

func boolArg(args map[string]any, key string) bool {
	switch v := args[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// idArg reads "id" as sent by JSON clients (a float64) or as a string.
func idArg(args map[string]any) (int64, error) {
	switch v := args["id"].(type) {
	case float64:
		if v != float64(int64(v)) || v < 1 {
			return 0, fmt.Errorf("id must be a positive integer, got %v", v)
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("id must be an integer: %w", err)
		}
		return id, nil
	case nil:
		return 0, fmt.Errorf("id is required")
	default:
		return 0, fmt.Errorf("id has unsupported type %T", v)
	}
}
