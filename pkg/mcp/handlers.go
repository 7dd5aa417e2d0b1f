package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/proplens/pkg/editable"
)

// jsonResult marshals v into a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) handleOpenDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uri, err := req.RequireString("uri")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc := s.service.Store().Open(uri, text)
	return jsonResult(map[string]any{"uri": doc.URI, "version": doc.Version})
}

func (s *Server) handleUpdateDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uri, err := req.RequireString("uri")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	version, err := req.RequireInt("version")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.service.Store().Update(uri, version, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"uri": doc.URI, "version": doc.Version})
}

func (s *Server) handleCloseDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uri, err := req.RequireString("uri")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.service.Store().Close(uri); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"uri": uri, "closed": true})
}

func (s *Server) handleGetEditableArguments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uri, err := req.RequireString("uri")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	line, err := req.RequireInt("line")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	character, err := req.RequireInt("character")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.EditableArguments(ctx, uri, line, character)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if result == nil {
		// No qualifying invocation encloses the cursor. A valid answer,
		// not an error.
		return mcp.NewToolResultText(`{"arguments": null}`), nil
	}
	return jsonResult(result)
}

type parameterView struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Nullable bool   `json:"nullable"`
	Editable bool   `json:"editable"`
}

type declView struct {
	Name   string          `json:"name"`
	File   string          `json:"file"`
	Params []parameterView `json:"params"`
}

func (s *Server) handleListComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.index == nil {
		return mcp.NewToolResultError("no workspace index: start the server with a workspace root"), nil
	}

	components := make([]declView, 0)
	for _, decl := range s.index.ComponentDecls() {
		components = append(components, declView{
			Name:   decl.Name,
			File:   decl.File,
			Params: parameterViews(decl.Params),
		})
	}
	factories := make([]declView, 0)
	for _, decl := range s.index.FactoryDecls() {
		factories = append(factories, declView{
			Name:   decl.Name,
			File:   decl.File,
			Params: parameterViews(decl.Params),
		})
	}

	return jsonResult(map[string]any{
		"components": components,
		"factories":  factories,
	})
}

func parameterViews(params []editable.FormalParameter) []parameterView {
	views := make([]parameterView, 0, len(params))
	for _, p := range params {
		_, editableKind := editable.ClassifyType(p.Type)
		views = append(views, parameterView{
			Name:     p.Name,
			Type:     p.Type.Name,
			Required: p.Required,
			Nullable: p.Nullable,
			Editable: editableKind,
		})
	}
	return views
}
