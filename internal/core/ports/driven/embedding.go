package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The core never retries or caches provider calls; a failed call is a
// failed operation. The vector dimensionality is fixed per process and
// baked into every database's vector table at creation, so it must
// never change for the lifetime of a database file.
//
// Implementations may include:
//   - OpenAI / OpenRouter (openai/text-embedding-3-small, ...)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 768, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
