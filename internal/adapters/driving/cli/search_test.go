package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memo-labs/memo-cli/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSearchCmd_PrintsResults(t *testing.T) {
	fake := &fakeMemoryService{
		results: []domain.SearchResult{
			{Document: domain.Document{ID: "a", Title: "groceries", Content: "buy milk"}, Score: 0.92},
		},
	}
	cleanup := setupTestServices(fake)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "milk"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Results:")
	assert.Contains(t, buf.String(), "groceries")
	assert.Contains(t, buf.String(), "0.92")
	assert.Equal(t, "milk", fake.lastSearch.Query)
	assert.Equal(t, domain.ScopeLocal, fake.lastSearch.Scope)
}

func TestSearchCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices(&fakeMemoryService{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "nothing"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No results found.")
}

func TestSearchCmd_ForwardsScopeAndFilters(t *testing.T) {
	fake := &fakeMemoryService{}
	cleanup := setupTestServices(fake)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{
		"search", "query",
		"--scope", "all",
		"--tags", "work",
		"--min-score", "0.7",
		"--limit", "3",
	})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, domain.ScopeAll, fake.lastSearch.Scope)
	assert.Equal(t, []string{"work"}, fake.lastSearch.Filter.Tags)
	assert.Equal(t, 3, fake.lastSearch.Limit)
	require.NotNil(t, fake.lastSearch.MinScore)
	assert.Equal(t, 0.7, *fake.lastSearch.MinScore)
}

func TestSearchCmd_ForwardsTokenBounds(t *testing.T) {
	fake := &fakeMemoryService{}
	cleanup := setupTestServices(fake)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{
		"search", "query",
		"--min-tokens", "5",
		"--max-tokens", "50",
	})

	err := rootCmd.Execute()

	require.NoError(t, err)
	require.NotNil(t, fake.lastSearch.Filter.MinTokens)
	assert.Equal(t, 5, *fake.lastSearch.Filter.MinTokens)
	require.NotNil(t, fake.lastSearch.Filter.MaxTokens)
	assert.Equal(t, 50, *fake.lastSearch.Filter.MaxTokens)
}

func TestSearchCmd_MinScoreOmittedWhenUnset(t *testing.T) {
	fake := &fakeMemoryService{}
	cleanup := setupTestServices(fake)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "query"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Nil(t, fake.lastSearch.MinScore)
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	fake := &fakeMemoryService{
		results: []domain.SearchResult{
			{Document: domain.Document{ID: "a", Content: "buy milk"}, Score: 0.92},
		},
	}
	cleanup := setupTestServices(fake)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "--json", "milk"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\"Score\"")
	assert.Contains(t, buf.String(), "buy milk")
}

func TestSearchCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices(&fakeMemoryService{err: assert.AnError})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "query"})

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}
