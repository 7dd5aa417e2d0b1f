// Package mcp exposes the editable-arguments engine over the Model Context
// Protocol: document lifecycle tools plus the cursor query itself, served
// on stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/proplens/pkg/document"
	"github.com/gnana997/proplens/pkg/mcplog"
	"github.com/gnana997/proplens/pkg/workspace"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server for proplens, exposing the document
// lifecycle and editable-argument tools.
type Server struct {
	mcpServer *server.MCPServer
	service   *document.Service
	index     *workspace.Index // may be nil when serving without a workspace
	logger    *mcplog.Logger   // may be nil when tool logging is disabled
}

// NewServer creates an MCP server over the given document service and
// optional workspace index. A non-nil logger records every tool call as a
// JSONL entry.
func NewServer(service *document.Service, index *workspace.Index, logger *mcplog.Logger) *Server {
	s := &Server{service: service, index: index, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("proplens", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: openDocumentTool(), Handler: s.handleOpenDocument},
		server.ServerTool{Tool: updateDocumentTool(), Handler: s.handleUpdateDocument},
		server.ServerTool{Tool: closeDocumentTool(), Handler: s.handleCloseDocument},
		server.ServerTool{Tool: getEditableArgumentsTool(), Handler: s.handleGetEditableArguments},
		server.ServerTool{Tool: listComponentsTool(), Handler: s.handleListComponents},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
