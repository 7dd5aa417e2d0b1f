package mcp

import "github.com/mark3labs/mcp-go/mcp"

func openDocumentTool() mcp.Tool {
	return mcp.NewTool("open_document",
		mcp.WithDescription("Open a document for editing. The server keeps the content in memory at version 1; subsequent update_document calls replace it."),
		mcp.WithString("uri",
			mcp.Required(),
			mcp.Description("Document URI, e.g. file:///src/App.tsx"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Full document content"),
		),
	)
}

func updateDocumentTool() mcp.Tool {
	return mcp.NewTool("update_document",
		mcp.WithDescription("Replace an open document's content. The version must be greater than the current one; stale versions are rejected."),
		mcp.WithString("uri",
			mcp.Required(),
			mcp.Description("URI of an open document"),
		),
		mcp.WithNumber("version",
			mcp.Required(),
			mcp.Description("New document version, must increase monotonically"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Full replacement content"),
		),
	)
}

func closeDocumentTool() mcp.Tool {
	return mcp.NewTool("close_document",
		mcp.WithDescription("Close an open document and release its server-side state."),
		mcp.WithString("uri",
			mcp.Required(),
			mcp.Description("URI of an open document"),
		),
	)
}

func getEditableArgumentsTool() mcp.Tool {
	return mcp.NewTool("get_editable_arguments",
		mcp.WithDescription("Compute the editable arguments of the nearest enclosing component construction or component-factory call at a cursor position. Returns null arguments when no qualifying invocation encloses the position."),
		mcp.WithString("uri",
			mcp.Required(),
			mcp.Description("Document URI; unopened file URIs are read from disk"),
		),
		mcp.WithNumber("line",
			mcp.Required(),
			mcp.Description("0-based cursor line"),
		),
		mcp.WithNumber("character",
			mcp.Required(),
			mcp.Description("0-based cursor character, counted in runes"),
		),
	)
}

func listComponentsTool() mcp.Tool {
	return mcp.NewTool("list_components",
		mcp.WithDescription("List the component and factory declarations indexed from the workspace, with their parameter schemas."),
	)
}
