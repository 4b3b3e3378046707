package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/memo-labs/memo-cli/internal/core/domain"
	"github.com/memo-labs/memo-cli/internal/core/ports/driving"
)

// uriScheme is the custom URI scheme for Memo resources.
const uriScheme = "memo://"

// recentLimit bounds the memo://recent resource.
const recentLimit = 20

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the most recent memories.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "recent",
		Name:        "recent",
		Description: "The most recently stored memories in the global database",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	// Template for individual memory content.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "memories/{memoryId}",
		Name:        "memory-content",
		Description: "Content of a specific memory",
		MIMEType:    "text/plain",
	}, s.handleMemoryResource)
}

// handleRecentResource returns the newest memories.
func (s *Server) handleRecentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docs, err := s.ports.Memory.List(ctx, driving.ListRequest{Limit: recentLimit})
	if err != nil {
		return nil, fmt.Errorf("listing memories: %w", err)
	}

	infos := make([]DocumentOutput, len(docs))
	for i := range docs {
		infos[i] = toDocumentOutput(&docs[i])
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling memories: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleMemoryResource returns the content of a specific memory.
func (s *Server) handleMemoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract memoryId from URI: memo://memories/{memoryId}
	id := extractMemoryID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Memory.Get(ctx, nil, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting memory: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     doc.Content,
		}},
	}, nil
}

// extractMemoryID extracts the memory ID from a URI like memo://memories/{memoryId}.
func extractMemoryID(uri string) string {
	const prefix = uriScheme + "memories/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
