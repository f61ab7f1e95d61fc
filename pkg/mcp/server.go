// Package mcp exposes the diagram compiler over the Model Context
// Protocol, so MCP-capable agents can compile notation and request
// suggestions as tools.
package mcp

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/HomenShum/paper-diagram-gen/pkg/buildinfo"
	"github.com/HomenShum/paper-diagram-gen/pkg/cache"
	"github.com/HomenShum/paper-diagram-gen/pkg/llm"
)

// ServerDeps holds the collaborators for a Server. Provider and Cache
// are optional: without a provider the suggest tool reports that no
// backend is configured; without a cache suggestions are not cached.
type ServerDeps struct {
	Provider llm.Provider
	Cache    cache.Cache
	Logger   *log.Logger
}

// Server wraps an MCP server with diagram tool handlers.
type Server struct {
	provider  llm.Provider
	cache     cache.Cache
	logger    *log.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a Server with the diagram tools registered.
func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := deps.Cache
	if c == nil {
		c = cache.NewNullCache()
	}

	s := &Server{
		provider: deps.Provider,
		cache:    c,
		logger:   logger,
	}

	mcpSrv := server.NewMCPServer(
		"diagramgen",
		buildinfo.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("diagramgen compiles compact diagram notation into SVG. Use diagram.generate to compile notation (stages joined by \"->\", \"Name[a,b]\" sub-components, trailing \"?\" for decisions, \"Label: Target\" lists for branches) and diagram.suggest to get notation suggestions for a topic."),
	)

	mcpSrv.AddTools(s.tools()...)
	s.mcpServer = mcpSrv
	return s
}

// Serve starts the stdio transport and blocks until ctx is cancelled or
// stdin closes.
func (s *Server) Serve(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcpServer)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// MCPServer returns the underlying server for testing or custom
// transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: generateTool(), Handler: s.handleGenerate},
		{Tool: suggestTool(), Handler: s.handleSuggest},
	}
}

// --- Tool definitions ---

func generateTool() mcp.Tool {
	return mcp.NewTool("diagram.generate",
		mcp.WithDescription("Compile diagram notation into a standalone SVG document"),
		mcp.WithString("description", mcp.Required(),
			mcp.Description("Diagram notation, e.g. \"Input -> Encoder[CNN,RNN] -> Converged? -> Yes: Deploy, No: Tune\"")),
		mcp.WithString("type",
			mcp.Enum("pipeline", "architecture", "flowchart"),
			mcp.Description("Diagram style: pipeline (horizontal), architecture (vertical), flowchart (default: pipeline)")),
		mcp.WithNumber("width", mcp.Description("Canvas target width in pixels (default: 800)")),
	)
}

func suggestTool() mcp.Tool {
	return mcp.NewTool("diagram.suggest",
		mcp.WithDescription("Suggest diagram notations that explain a topic, using the configured LLM provider"),
		mcp.WithString("topic", mcp.Required(), mcp.Description("The paper, method, or system to visualize")),
	)
}
