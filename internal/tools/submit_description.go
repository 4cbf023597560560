package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"diseasemcp/internal/logging"
	"diseasemcp/internal/submission"
)

// SubmitDescriptionTool serves submit_description.
type SubmitDescriptionTool struct {
	store *submission.Store
}

// NewSubmitDescriptionTool creates the tool over store.
func NewSubmitDescriptionTool(store *submission.Store) *SubmitDescriptionTool {
	return &SubmitDescriptionTool{store: store}
}

// Definition returns the MCP tool definition.
func (t *SubmitDescriptionTool) Definition() mcp.Tool {
	return mcp.NewTool(NameSubmitDescription,
		mcp.WithDescription("Submit a disease description in Bengali"),
		mcp.WithString(ArgDisease,
			mcp.Required(),
			mcp.Description("The disease name"),
		),
		mcp.WithString(ArgDescriptionBN,
			mcp.Required(),
			mcp.Description("The disease description in Bengali (450-500 words)"),
		),
	)
}

// SubmitResult is the acknowledgement returned to the client.
type SubmitResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Handle stores the description under the next free id.
func (t *SubmitDescriptionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	disease := stringArg(req, ArgDisease)
	text := stringArg(req, ArgDescriptionBN)

	rec, err := t.store.Save(ctx, disease, text)
	if err != nil {
		return nil, err
	}

	logging.Get(logging.CategoryTools).Info("stored description for %q as %s", disease, rec.ID)
	return jsonResult(SubmitResult{OK: true, Message: "done"})
}
