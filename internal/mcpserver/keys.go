package mcpserver

import (
	"context"

	"sparkcalc/sparkos/services/remote"

	"github.com/mark3labs/mcp-go/mcp"
)

// ClearTool presses AC
type ClearTool struct {
	calc Calculator
}

func NewClearTool(calc Calculator) *ClearTool {
	return &ClearTool{calc: calc}
}

func (t *ClearTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolClear,
		mcp.WithDescription("Clear the calculator (AC) and return the display. Ignored while Error is shown."),
	)
}

func (t *ClearTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return pressResult(ctx, t.calc, remote.KeyClear)
}

// DeleteTool presses DEL
type DeleteTool struct {
	calc Calculator
}

func NewDeleteTool(calc Calculator) *DeleteTool {
	return &DeleteTool{calc: calc}
}

func (t *DeleteTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolDelete,
		mcp.WithDescription("Delete the last character of the current number and return the display."),
	)
}

func (t *DeleteTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return pressResult(ctx, t.calc, remote.KeyDelete)
}

// DisplayTool reads the display without pressing anything
type DisplayTool struct {
	calc Calculator
}

func NewDisplayTool(calc Calculator) *DisplayTool {
	return &DisplayTool{calc: calc}
}

func (t *DisplayTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolDisplay,
		mcp.WithDescription("Return the calculator display: the previous line with its operator and the current number."),
	)
}

func (t *DisplayTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return pressResult(ctx, t.calc, "")
}
