// Package mcp implements the Model Context Protocol (MCP) server for shellbook.
//
// The MCP server exposes five tools to editor integrations and assistants:
//   - scan_chunks: Scan a shell script for marker-delimited chunks
//   - code_lenses: List the run actions offered for each chunk
//   - open_document: Make a document active (context flag, highlights, lenses)
//   - get_chunk: Return the text of one chunk by title or line
//   - get_status: Report chunk index statistics and active settings
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// Presentation is pushed to the client as notifications, so the client
// owns the decorations:
//
//	notifications/shellbook/lenses      {"uri": ..., "lenses": [...]}
//	notifications/shellbook/highlights  {"uri": ..., "ranges": [...], "style": {...}}
//	notifications/shellbook/context     {"key": "isShellScript", "value": true}
//
// # Documents
//
// Every document tool takes either an absolute file path or inline text:
//
//	{"path": "/home/me/jobs/run.sh"}
//	{"text": "#>> build\nmake\n#<<", "uri": "untitled:1", "language_id": "shellscript"}
//
// # Tool: code_lenses
//
//	Request:
//	{
//	  "name": "code_lenses",
//	  "arguments": {"path": "/home/me/jobs/run.sh"}
//	}
//
//	Response:
//	{
//	  "uri": "file:///home/me/jobs/run.sh",
//	  "lenses": [
//	    {
//	      "range": {"start": {"line": 0, "character": 0}, "end": {"line": 2, "character": 3}},
//	      "title": "Send to Terminal",
//	      "command": "shellbook.sendToTerminal",
//	      "arguments": ["file:///home/me/jobs/run.sh", {"start": ..., "end": ...}],
//	      "chunk": "build"
//	    }
//	  ]
//	}
//
// # Tool: open_document
//
// Non-shell documents only clear isShellScript. Shell documents are
// highlighted; when the first scan finds no chunks it is retried once after
// the configured delay.
//
// # Error Handling
//
// Error codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error (database, filesystem, etc.)
//   - -32001: Document not found
//   - -32002: Chunk not found
//
// # Logging
//
// The MCP server logs to stderr (stdout is reserved for MCP protocol).
package mcp
