// Package mcp provides an MCP (Model Context Protocol) server adapter for Atlas.
// It lets AI assistants ask the knowledge base questions and browse its documents.
package mcp

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("mcp: chat service is required")
