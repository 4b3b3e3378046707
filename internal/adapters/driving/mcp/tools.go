package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/memo-labs/memo-cli/internal/core/domain"
	"github.com/memo-labs/memo-cli/internal/core/ports/driving"
)

// DocumentOutput is the wire representation of a stored document.
type DocumentOutput struct {
	ID         string         `json:"id"`
	Content    string         `json:"content"`
	Title      string         `json:"title,omitempty"`
	Tags       []string       `json:"tags"`
	Metadata   map[string]any `json:"metadata"`
	TokenCount int            `json:"token_count"`
	CreatedAt  float64        `json:"created_at"`
	UpdatedAt  float64        `json:"updated_at"`
}

func toDocumentOutput(doc *domain.Document) DocumentOutput {
	return DocumentOutput{
		ID:         doc.ID,
		Content:    doc.Content,
		Title:      doc.Title,
		Tags:       doc.Tags,
		Metadata:   doc.Metadata,
		TokenCount: doc.TokenCount,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
}

// StoreInput is the input schema for the memo_store tool.
type StoreInput struct {
	Content  string         `json:"content" jsonschema:"the text to remember"`
	Title    string         `json:"title,omitempty" jsonschema:"optional title"`
	Tags     []string       `json:"tags,omitempty" jsonschema:"optional tags for later filtering"`
	Metadata map[string]any `json:"metadata,omitempty" jsonschema:"optional structured metadata"`
	DBPath   string         `json:"db_path,omitempty" jsonschema:"database file or project directory, defaults to the global database"`
}

// StoreOutput is the output schema for the memo_store tool.
type StoreOutput struct {
	ID string `json:"id"`
}

// GetInput is the input schema for the memo_get tool.
type GetInput struct {
	ID     string `json:"id" jsonschema:"the memory id"`
	DBPath string `json:"db_path,omitempty" jsonschema:"database file or project directory"`
}

// UpdateInput is the input schema for the memo_update tool. Omitted
// fields are left untouched; present fields replace the stored value,
// including explicit empty values.
type UpdateInput struct {
	ID       string          `json:"id" jsonschema:"the memory id"`
	Content  *string         `json:"content,omitempty" jsonschema:"replacement content, triggers re-embedding"`
	Title    *string         `json:"title,omitempty" jsonschema:"replacement title"`
	Tags     *[]string       `json:"tags,omitempty" jsonschema:"replacement tag list"`
	Metadata *map[string]any `json:"metadata,omitempty" jsonschema:"replacement metadata"`
	DBPath   string          `json:"db_path,omitempty" jsonschema:"database file or project directory"`
}

// DeleteInput is the input schema for the memo_delete tool.
type DeleteInput struct {
	ID     string `json:"id" jsonschema:"the memory id"`
	DBPath string `json:"db_path,omitempty" jsonschema:"database file or project directory"`
}

// DeleteOutput is the output schema for the memo_delete tool.
type DeleteOutput struct {
	Deleted bool `json:"deleted"`
}

// SearchInput is the input schema for the memo_search tool.
type SearchInput struct {
	Query     string   `json:"query" jsonschema:"the search query, matched by meaning"`
	Limit     int      `json:"limit,omitempty" jsonschema:"maximum number of results (default 10)"`
	MinScore  *float64 `json:"min_score,omitempty" jsonschema:"minimum similarity score between 0 and 1"`
	Tags      []string `json:"tags,omitempty" jsonschema:"only return memories carrying one of these tags"`
	After     *float64 `json:"after,omitempty" jsonschema:"only memories created at or after this Unix timestamp"`
	Before    *float64 `json:"before,omitempty" jsonschema:"only memories created at or before this Unix timestamp"`
	MinTokens *int     `json:"min_tokens,omitempty" jsonschema:"only memories of at least this many tokens"`
	MaxTokens *int     `json:"max_tokens,omitempty" jsonschema:"only memories of at most this many tokens"`
	DBPath    string   `json:"db_path,omitempty" jsonschema:"database file or project directory"`
	Scope     string   `json:"scope,omitempty" jsonschema:"local, global or all (default local)"`
}

// SearchOutput is the output schema for the memo_search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Document DocumentOutput `json:"document"`
	Score    float64        `json:"score"`
}

// ListInput is the input schema for the memo_list tool.
type ListInput struct {
	Limit     int      `json:"limit,omitempty" jsonschema:"maximum number of memories (default 100)"`
	Tags      []string `json:"tags,omitempty" jsonschema:"only list memories carrying one of these tags"`
	After     *float64 `json:"after,omitempty" jsonschema:"only memories created at or after this Unix timestamp"`
	Before    *float64 `json:"before,omitempty" jsonschema:"only memories created at or before this Unix timestamp"`
	MinTokens *int     `json:"min_tokens,omitempty" jsonschema:"only memories of at least this many tokens"`
	MaxTokens *int     `json:"max_tokens,omitempty" jsonschema:"only memories of at most this many tokens"`
	DBPath    string   `json:"db_path,omitempty" jsonschema:"database file or project directory"`
	Scope     string   `json:"scope,omitempty" jsonschema:"local, global or all (default local)"`
}

// ListOutput is the output schema for the memo_list tool.
type ListOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "memo_store",
		Description: "Store a memory so it can be found back by meaning later",
	}, s.handleStore)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "memo_get",
		Description: "Fetch a memory by id",
	}, s.handleGet)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "memo_update",
		Description: "Update fields of a memory, leaving omitted fields untouched",
	}, s.handleUpdate)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "memo_delete",
		Description: "Delete a memory by id",
	}, s.handleDelete)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "memo_search",
		Description: "Search memories by semantic similarity",
	}, s.handleSearch)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "memo_list",
		Description: "List memories newest first",
	}, s.handleList)
}

// dbPathPtr converts the optional db_path argument into the service
// layer's optional location.
func dbPathPtr(dbPath string) *string {
	if dbPath == "" {
		return nil
	}
	return &dbPath
}

func (s *Server) handleStore(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StoreInput,
) (*mcp.CallToolResult, StoreOutput, error) {
	id, err := s.ports.Memory.Store(ctx, driving.StoreRequest{
		Location: dbPathPtr(input.DBPath),
		Content:  input.Content,
		Title:    input.Title,
		Tags:     input.Tags,
		Metadata: input.Metadata,
	})
	if err != nil {
		return nil, StoreOutput{}, err
	}
	return nil, StoreOutput{ID: id}, nil
}

func (s *Server) handleGet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.ports.Memory.Get(ctx, dbPathPtr(input.DBPath), input.ID)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, toDocumentOutput(doc), nil
}

func (s *Server) handleUpdate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdateInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.ports.Memory.Update(ctx, input.ID, driving.UpdateRequest{
		Location: dbPathPtr(input.DBPath),
		Content:  input.Content,
		Title:    input.Title,
		Tags:     input.Tags,
		Metadata: input.Metadata,
	})
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, toDocumentOutput(doc), nil
}

func (s *Server) handleDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteInput,
) (*mcp.CallToolResult, DeleteOutput, error) {
	existed, err := s.ports.Memory.Delete(ctx, dbPathPtr(input.DBPath), input.ID)
	if err != nil {
		return nil, DeleteOutput{}, err
	}
	return nil, DeleteOutput{Deleted: existed}, nil
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	results, err := s.ports.Memory.Search(ctx, driving.SearchRequest{
		Location: dbPathPtr(input.DBPath),
		Scope:    domain.Scope(input.Scope),
		Query:    input.Query,
		Limit:    input.Limit,
		MinScore: input.MinScore,
		Filter: domain.Filter{
			Tags:      input.Tags,
			After:     input.After,
			Before:    input.Before,
			MinTokens: input.MinTokens,
			MaxTokens: input.MaxTokens,
		},
	})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			Document: toDocumentOutput(&results[i].Document),
			Score:    results[i].Score,
		}
	}
	return nil, output, nil
}

func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	docs, err := s.ports.Memory.List(ctx, driving.ListRequest{
		Location: dbPathPtr(input.DBPath),
		Scope:    domain.Scope(input.Scope),
		Filter: domain.Filter{
			Tags:      input.Tags,
			After:     input.After,
			Before:    input.Before,
			MinTokens: input.MinTokens,
			MaxTokens: input.MaxTokens,
		},
		Limit: input.Limit,
	})
	if err != nil {
		return nil, ListOutput{}, err
	}

	output := ListOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = toDocumentOutput(&docs[i])
	}
	return nil, output, nil
}
