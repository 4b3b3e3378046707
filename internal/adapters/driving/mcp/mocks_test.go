package mcp

import (
	"context"

	"github.com/memo-labs/memo-cli/internal/core/domain"
	"github.com/memo-labs/memo-cli/internal/core/ports/driving"
)

// mockMemoryService is a mock implementation of driving.MemoryService.
type mockMemoryService struct {
	storedID string
	document *domain.Document
	results  []domain.SearchResult
	docs     []domain.Document
	deleted  bool
	err      error

	lastStore  driving.StoreRequest
	lastUpdate driving.UpdateRequest
	lastSearch driving.SearchRequest
	lastList   driving.ListRequest
}

func (m *mockMemoryService) Store(_ context.Context, req driving.StoreRequest) (string, error) {
	m.lastStore = req
	return m.storedID, m.err
}

func (m *mockMemoryService) Get(_ context.Context, _ *string, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockMemoryService) Update(_ context.Context, _ string, req driving.UpdateRequest) (*domain.Document, error) {
	m.lastUpdate = req
	return m.document, m.err
}

func (m *mockMemoryService) Delete(_ context.Context, _ *string, _ string) (bool, error) {
	return m.deleted, m.err
}

func (m *mockMemoryService) Search(_ context.Context, req driving.SearchRequest) ([]domain.SearchResult, error) {
	m.lastSearch = req
	return m.results, m.err
}

func (m *mockMemoryService) List(_ context.Context, req driving.ListRequest) ([]domain.Document, error) {
	m.lastList = req
	return m.docs, m.err
}
