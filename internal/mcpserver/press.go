package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// PressTool types a key string into the calculator
type PressTool struct {
	calc Calculator
}

// NewPressTool creates a new key press tool
func NewPressTool(calc Calculator) *PressTool {
	return &PressTool{calc: calc}
}

// GetTool returns the MCP tool definition
func (t *PressTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolPress,
		mcp.WithDescription("Press calculator keys in order and return the display. "+
			"Keys: digits, '.', '+', '-', '*' or '×', '/' or '÷', '=' to compute. "+
			"Other characters are ignored."),
		mcp.WithString("keys", mcp.Required(), mcp.Description("Keys to press, e.g. \"12+30=\"")),
	)
}

// Handle processes the tool request
func (t *PressTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keys := mcp.ParseString(req, "keys", "")
	if keys == "" {
		return mcp.NewToolResultError("keys parameter is required"), nil
	}
	return pressResult(ctx, t.calc, keys)
}
