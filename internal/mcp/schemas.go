package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// documentProperties are the arguments shared by every document tool.
// A document is either a file on disk (path) or inline text.
func documentProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to a shell script. Ignored when text is given",
		},
		"text": map[string]interface{}{
			"type":        "string",
			"description": "Inline document content, scanned instead of reading path",
		},
		"uri": map[string]interface{}{
			"type":        "string",
			"description": "Document URI for inline text",
			"default":     defaultInlineURI,
		},
		"language_id": map[string]interface{}{
			"type":        "string",
			"description": "Language id for inline text",
			"default":     "shellscript",
		},
	}
}

// scanChunksTool returns the tool definition for scan_chunks
func scanChunksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "scan_chunks",
		Description: "Scan a shell script for marker-delimited chunks and record them in the chunk index",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: documentProperties(),
		},
	}
}

// codeLensesTool returns the tool definition for code_lenses
func codeLensesTool() mcp.Tool {
	props := documentProperties()
	props["publish"] = map[string]interface{}{
		"type":        "boolean",
		"description": "If true, also send the lenses as a notifications/shellbook/lenses notification",
		"default":     false,
	}
	return mcp.Tool{
		Name:        "code_lenses",
		Description: "List the run actions (Send to Terminal, Send to qsub, Iter to Terminal, IterFile to Terminal) for each chunk",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: props,
		},
	}
}

// openDocumentTool returns the tool definition for open_document
func openDocumentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "open_document",
		Description: "Make a document active: set isShellScript, highlight its chunks and publish its lenses",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: documentProperties(),
		},
	}
}

// getChunkTool returns the tool definition for get_chunk
func getChunkTool() mcp.Tool {
	props := documentProperties()
	props["title"] = map[string]interface{}{
		"type":        "string",
		"description": "Chunk title (second word of the start marker line)",
	}
	props["line"] = map[string]interface{}{
		"type":        "integer",
		"description": "0-based line inside the chunk, used when title is not given",
		"minimum":     0,
	}
	props["include_markers"] = map[string]interface{}{
		"type":        "boolean",
		"description": "If true, include the start and end marker lines",
		"default":     true,
	}
	return mcp.Tool{
		Name:        "get_chunk",
		Description: "Return the text of one chunk so it can be run",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: props,
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report chunk index statistics and active settings",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
