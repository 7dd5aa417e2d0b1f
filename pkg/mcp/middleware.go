package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/proplens/pkg/mcplog"
)

// loggingMiddleware records every tool call as one JSONL entry. Only
// installed when the server was built with a tool logger.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			result, err := next(ctx, req)

			entry := mcplog.Entry{
				Time:        start.UTC().Format(time.RFC3339),
				Tool:        req.Params.Name,
				Params:      mcplog.Redact(req.GetArguments()),
				DurationMs:  time.Since(start).Milliseconds(),
				ResultBytes: mcplog.ResultBytes(result),
			}
			if err != nil {
				entry.Error = err.Error()
			}
			_ = s.logger.Append(entry)

			return result, err
		}
	}
}
