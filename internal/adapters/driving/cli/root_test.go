package cli

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/memo-labs/memo-cli/internal/core/domain"
	"github.com/memo-labs/memo-cli/internal/core/ports/driving"
)

// fakeMemoryService records requests and returns canned responses.
type fakeMemoryService struct {
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

func (f *fakeMemoryService) Store(_ context.Context, req driving.StoreRequest) (string, error) {
	f.lastStore = req
	return f.storedID, f.err
}

func (f *fakeMemoryService) Get(_ context.Context, _ *string, _ string) (*domain.Document, error) {
	return f.document, f.err
}

func (f *fakeMemoryService) Update(_ context.Context, _ string, req driving.UpdateRequest) (*domain.Document, error) {
	f.lastUpdate = req
	return f.document, f.err
}

func (f *fakeMemoryService) Delete(_ context.Context, _ *string, _ string) (bool, error) {
	return f.deleted, f.err
}

func (f *fakeMemoryService) Search(_ context.Context, req driving.SearchRequest) ([]domain.SearchResult, error) {
	f.lastSearch = req
	return f.results, f.err
}

func (f *fakeMemoryService) List(_ context.Context, req driving.ListRequest) ([]domain.Document, error) {
	f.lastList = req
	return f.docs, f.err
}

// setupTestServices wires a fake memory service into the command tree
// and returns a cleanup function that also clears flag state, since
// cobra flag variables persist across Execute calls.
func setupTestServices(fake *fakeMemoryService) func() {
	memoryService = fake
	return func() {
		memoryService = nil
		rootCmd.SetArgs(nil)
		resetFlags()
	}
}

func resetFlags() {
	storeTitle, storeTags, storeMeta, storeDB = "", nil, nil, ""
	getDB, getJSON = "", false
	updateContent, updateTitle, updateTags, updateMeta, updateDB = "", "", nil, nil, ""
	deleteDB = ""
	searchLimit, searchJSON, searchDB, searchScope = 10, false, "", "local"
	searchTags, searchMinScore, searchAfter, searchBefore = nil, 0, 0, 0
	searchMinTokens, searchMaxTokens = 0, 0
	listLimit, listJSON, listDB, listScope, listTags = 20, false, "", "local", nil
	listAfter, listBefore, listMinTokens, listMaxTokens = 0, 0, 0, 0
	for _, cmd := range rootCmd.Commands() {
		cmd.Flags().Visit(func(f *pflag.Flag) { f.Changed = false })
	}
}
