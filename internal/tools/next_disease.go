package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"diseasemcp/internal/tracker"
)

// NextDiseaseTool serves get_next_disease.
type NextDiseaseTool struct {
	tracker *tracker.Tracker
}

// NewNextDiseaseTool creates the tool over t.
func NewNextDiseaseTool(t *tracker.Tracker) *NextDiseaseTool {
	return &NextDiseaseTool{tracker: t}
}

// Definition returns the MCP tool definition.
func (t *NextDiseaseTool) Definition() mcp.Tool {
	return mcp.NewTool(NameGetNextDisease,
		mcp.WithDescription("Get the next disease name from the catalog"),
	)
}

// NextDiseaseResult is the JSON payload returned to the client.
type NextDiseaseResult struct {
	Disease string `json:"disease"`
}

// Handle returns the next unserved disease as {"disease": "<name>"}.
func (t *NextDiseaseTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := t.tracker.Next(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(NextDiseaseResult{Disease: name})
}
