// Package mcp provides an MCP (Model Context Protocol) server adapter for Memo.
// It enables AI assistants like Claude to store and retrieve memories.
package mcp

import "errors"

// ErrMissingMemoryService is returned when the memory service is not provided.
var ErrMissingMemoryService = errors.New("mcp: memory service is required")
