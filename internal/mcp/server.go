package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/lexziconAI/eco-dairy-bot/internal/lens"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the lens pipeline as tools.
type Server struct {
	engine *lens.Engine
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server backed by engine. Stored-conversation
// tools are registered only when the engine has a store.
func NewServer(engine *lens.Engine) *Server {
	s := &Server{engine: engine}

	s.mcp = server.NewMCPServer(
		"ecodairy",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(analyzeConversationTool, s.handleAnalyzeConversation)
	s.mcp.AddTool(suggestReplyTool, s.handleSuggestReply)
	if s.engine.Store() != nil {
		s.mcp.AddTool(listConversationsTool, s.handleListConversations)
	}
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
