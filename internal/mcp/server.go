// Package mcp exposes the knowledge base to MCP clients over stdio, so
// editors and agents can query what the bot has captured.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/elio-bot/elio/internal/postgres"
	"github.com/elio-bot/elio/internal/retrieval"
)

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
}

// Knowledge is the read-only view of the knowledge base the tools serve.
type Knowledge interface {
	Recent(ctx context.Context, limit int) ([]postgres.Entry, error)
	SemanticSearch(ctx context.Context, query string, k int) ([]string, error)
}

// Server wraps the MCP server around the retrieval service.
type Server struct {
	mcpServer *server.MCPServer
	knowledge Knowledge
}

// NewServer creates an MCP server exposing the knowledge base tools.
func NewServer(config Config, knowledge Knowledge) *Server {
	mcpServer := server.NewMCPServer(
		config.Name,
		config.Version,
		server.WithToolCapabilities(true),
	)

	s := &Server{
		mcpServer: mcpServer,
		knowledge: knowledge,
	}

	searchTool := mcp.NewTool("search_knowledge",
		mcp.WithDescription("Search captured knowledge by meaning. Returns the stored texts most similar to the query."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query string"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 5)"),
		),
	)
	mcpServer.AddTool(searchTool, s.searchHandler)

	recentTool := mcp.NewTool("recent_entries",
		mcp.WithDescription("List the most recently captured entries, newest first."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to return (default: 10)"),
		),
	)
	mcpServer.AddTool(recentTool, s.recentHandler)

	return s
}

// searchHandler handles the search_knowledge tool call.
func (s *Server) searchHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	limit := req.GetInt("limit", 5)

	texts, err := s.knowledge.SemanticSearch(ctx, query, limit)
	if errors.Is(err, retrieval.ErrNoResults) {
		return mcp.NewToolResultText("[]"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	result, err := json.Marshal(texts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(result)), nil
}

// recentHandler handles the recent_entries tool call.
func (s *Server) recentHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 10)

	entries, err := s.knowledge.Recent(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("recent entries failed: %v", err)), nil
	}

	result, err := json.Marshal(entries)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal entries: %v", err)), nil
	}
	return mcp.NewToolResultText(string(result)), nil
}

// ServeStdio starts the MCP server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
