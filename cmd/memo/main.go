// Command memo is a local semantic memory store.
package main

import (
	"fmt"
	"os"

	"github.com/memo-labs/memo-cli/internal/adapters/driven/config/file"
	"github.com/memo-labs/memo-cli/internal/adapters/driven/embedding/ollama"
	"github.com/memo-labs/memo-cli/internal/adapters/driven/embedding/openai"
	"github.com/memo-labs/memo-cli/internal/adapters/driven/storage/sqlite"
	"github.com/memo-labs/memo-cli/internal/adapters/driven/tokenizer"
	"github.com/memo-labs/memo-cli/internal/adapters/driving/cli"
	"github.com/memo-labs/memo-cli/internal/core/ports/driven"
	"github.com/memo-labs/memo-cli/internal/core/services"
	"github.com/memo-labs/memo-cli/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	settings := file.LoadSettings(configStore)

	embedder := buildEmbedder(settings)

	registry := sqlite.NewRegistry(settings.Dimensions, tokenizer.NewHeuristic())
	defer registry.Close() //nolint:errcheck

	resolver := services.NewResolver(settings.DatabasePath)
	memory := services.NewMemoryService(resolver, registry, embedder)

	cli.SetServices(memory, configStore, embedder)
	return cli.Execute()
}

// buildEmbedder constructs the configured embedding service. A nil
// return disables store, content updates and semantic search; list,
// get, update and delete still work.
func buildEmbedder(settings file.Settings) driven.EmbeddingService {
	switch settings.Provider {
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})
	default:
		embedder, err := openai.NewEmbeddingService(openai.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})
		if err != nil {
			logger.Warn("embedding disabled: %v", err)
			return nil
		}
		return embedder
	}
}
