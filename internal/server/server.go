// Package server wires the tools into an MCP server and runs it over stdio.
//
// This is the composition root: concrete catalog, tracker, store and
// instructions source are built here and injected into the tools.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"diseasemcp/internal/catalog"
	"diseasemcp/internal/config"
	"diseasemcp/internal/instructions"
	"diseasemcp/internal/logging"
	"diseasemcp/internal/submission"
	"diseasemcp/internal/tools"
	"diseasemcp/internal/tracker"
)

// Deps are the collaborators the tools operate on.
type Deps struct {
	Name         string
	Version      string
	Tracker      *tracker.Tracker
	Store        *submission.Store
	Instructions *instructions.Source
}

// New creates the MCP server with the three tools registered.
func New(d Deps) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(
		d.Name,
		d.Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)

	reg := tools.NewRegistry()
	reg.MustRegister(tools.NewNextDiseaseTool(d.Tracker))
	reg.MustRegister(tools.NewSubmitDescriptionTool(d.Store))
	reg.MustRegister(tools.NewInstructionsTool(d.Instructions))

	for _, h := range reg.All() {
		def := h.Definition()
		s.AddTool(def, audited(def.Name, h.Handle))
	}
	return s
}

// audited tags each call with a request id and records its outcome.
func audited(name string, next mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		reqID := uuid.NewString()
		start := time.Now()

		logging.ToolInvoke(reqID, name)
		res, err := next(ctx, req)
		logging.ToolDone(reqID, name, time.Since(start), err)

		if err != nil {
			logging.Get(logging.CategoryServer).With("req", reqID).Warn("%s failed: %v", name, err)
		}
		return res, err
	}
}

// Runtime bundles a built server with the resources that must be released.
type Runtime struct {
	Server  *mcpserver.MCPServer
	Tracker *tracker.Tracker
	Store   *submission.Store

	closers []io.Closer
}

// Build constructs every component from cfg and loads the catalog.
// A catalog load failure is logged and tolerated: the tracker retries on the
// first get_next_disease call.
func Build(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	rt := &Runtime{}

	var alloc submission.Allocator
	switch cfg.Data.Allocator {
	case config.AllocatorSequence:
		seq, err := submission.OpenSequenceAllocator(ctx, cfg.SequenceDBPath(), cfg.Data.Dir)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, seq)
		alloc = seq
	default:
		alloc = submission.NewScanAllocator(cfg.Data.Dir)
	}

	store, err := submission.NewStore(submission.Options{Dir: cfg.Data.Dir, Allocator: alloc})
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.Store = store

	rt.Tracker = tracker.New(catalog.NewFileLoader(cfg.Catalog.Path))
	if err := rt.Tracker.Load(ctx); err != nil && !errors.Is(err, catalog.ErrUnavailable) {
		_ = rt.Close()
		return nil, err
	}

	rt.Server = New(Deps{
		Name:         cfg.Name,
		Version:      cfg.Version,
		Tracker:      rt.Tracker,
		Store:        rt.Store,
		Instructions: instructions.NewSource(cfg.Instructions.Path),
	})
	return rt, nil
}

// Close releases databases opened by Build.
func (rt *Runtime) Close() error {
	var errs []error
	for _, c := range rt.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Serve runs the stdio transport until in reaches EOF or ctx is cancelled.
func Serve(ctx context.Context, s *mcpserver.MCPServer, in io.Reader, out io.Writer) error {
	stdio := mcpserver.NewStdioServer(s)
	stdio.SetErrorLogger(zap.NewStdLog(logging.Zap().Named(string(logging.CategoryServer))))

	logging.Get(logging.CategoryServer).Info("Disease Description MCP server running on stdio")

	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio transport: %w", err)
	}
	return nil
}
