package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"diseasemcp/internal/instructions"
)

// InstructionsTool serves get_instructions.
type InstructionsTool struct {
	source *instructions.Source
}

// NewInstructionsTool creates the tool over source.
func NewInstructionsTool(source *instructions.Source) *InstructionsTool {
	return &InstructionsTool{source: source}
}

// Definition returns the MCP tool definition.
func (t *InstructionsTool) Definition() mcp.Tool {
	return mcp.NewTool(NameGetInstructions,
		mcp.WithDescription("Get instructions for creating disease descriptions"),
	)
}

// Handle returns the instructions file verbatim as text content.
func (t *InstructionsTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := t.source.Read(ctx)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(text), nil
}
