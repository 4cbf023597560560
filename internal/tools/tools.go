// Package tools implements the MCP tool handlers. Each tool exposes a
// Definition (name, description, input schema) and a Handle method matching
// mcp-go's ToolHandlerFunc.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// Tool names.
const (
	NameGetNextDisease    = "get_next_disease"
	NameSubmitDescription = "submit_description"
	NameGetInstructions   = "get_instructions"
)

// Argument names for submit_description.
const (
	ArgDisease       = "disease"
	ArgDescriptionBN = "description_bn"
)

// jsonResult wraps v, marshalled as JSON, in a single text content block.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// stringArg returns the named argument when it is a string, "" otherwise.
func stringArg(req mcp.CallToolRequest, name string) string {
	s, _ := req.GetArguments()[name].(string)
	return s
}

// Handler is the shape shared by every tool.
type Handler interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}
