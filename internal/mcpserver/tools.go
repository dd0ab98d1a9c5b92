package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"sparkcalc/sparkos/proto"

	"github.com/mark3labs/mcp-go/mcp"
)

// Tool name prefix for all MCP tools
const ToolPrefix = "calc."

// Tool names
const (
	ToolPress   = ToolPrefix + "press"
	ToolClear   = ToolPrefix + "clear"
	ToolDelete  = ToolPrefix + "delete"
	ToolDisplay = ToolPrefix + "display"
)

// Calculator is the running calculator as seen from a tool.
type Calculator interface {
	// Press sends keys and returns the display after they were handled.
	Press(ctx context.Context, keys string) (proto.CalcDisplay, error)
}

// formatDisplay renders a display snapshot as tool output.
func formatDisplay(d proto.CalcDisplay) string {
	var b strings.Builder
	fmt.Fprintf(&b, "previous: %s\n", d.Previous)
	fmt.Fprintf(&b, "current: %s\n", d.Current)
	if d.Active != 0 {
		fmt.Fprintf(&b, "operator: %c\n", d.Active)
	}
	if d.Error {
		b.WriteString("error: true\n")
	}
	if d.Truncated {
		b.WriteString("truncated: true\n")
	}
	return b.String()
}

// pressResult runs keys through calc and wraps the outcome for MCP.
func pressResult(ctx context.Context, calc Calculator, keys string) (*mcp.CallToolResult, error) {
	d, err := calc.Press(ctx, keys)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to reach calculator: %v", err)), nil
	}
	return mcp.NewToolResultText(formatDisplay(d)), nil
}
