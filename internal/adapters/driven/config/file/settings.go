package file

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/memo-labs/memo-cli/internal/core/ports/driven"
)

// Configuration keys.
const (
	KeyDatabasePath        = "database.path"
	KeyEmbeddingProvider   = "embedding.provider"
	KeyEmbeddingModel      = "embedding.model"
	KeyEmbeddingDimensions = "embedding.dimensions"
	KeyEmbeddingBaseURL    = "embedding.base_url"
	KeyAPIKey              = "embedding.api_key"
)

// Defaults applied when neither the config file nor the environment
// provides a value.
const (
	DefaultProvider   = "openai"
	DefaultModel      = "openai/text-embedding-3-small"
	DefaultDimensions = 1536
)

// Settings is the resolved application configuration. Precedence is
// environment over config file over defaults.
type Settings struct {
	// DatabasePath is the global database file.
	DatabasePath string

	// Provider selects the embedding backend: "openai" (and
	// compatible endpoints) or "ollama".
	Provider string

	// Model is the embedding model name.
	Model string

	// Dimensions is the embedding vector size.
	Dimensions int

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// APIKey authenticates against the embedding provider.
	APIKey string
}

// DefaultDatabasePath returns ~/.memo/memo.db, falling back to a
// relative path when the home directory cannot be determined.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "memo.db"
	}
	return filepath.Join(home, ".memo", "memo.db")
}

// LoadSettings resolves settings from the store, the MEMO_* environment
// variables and built-in defaults.
func LoadSettings(store driven.ConfigStore) Settings {
	s := Settings{
		DatabasePath: store.GetString(KeyDatabasePath),
		Provider:     store.GetString(KeyEmbeddingProvider),
		Model:        store.GetString(KeyEmbeddingModel),
		Dimensions:   store.GetInt(KeyEmbeddingDimensions),
		BaseURL:      store.GetString(KeyEmbeddingBaseURL),
		APIKey:       store.GetString(KeyAPIKey),
	}

	if v := os.Getenv("MEMO_DB_PATH"); v != "" {
		s.DatabasePath = v
	}
	if v := os.Getenv("MEMO_EMBEDDING_PROVIDER"); v != "" {
		s.Provider = v
	}
	if v := os.Getenv("MEMO_EMBEDDING_MODEL"); v != "" {
		s.Model = v
	}
	if v := os.Getenv("MEMO_EMBEDDING_DIMENSIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.Dimensions = n
		}
	}
	if v := os.Getenv("MEMO_BASE_URL"); v != "" {
		s.BaseURL = v
	}
	if v := os.Getenv("MEMO_API_KEY"); v != "" {
		s.APIKey = v
	} else if s.APIKey == "" {
		// Provider-conventional variables as a fallback.
		if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
			s.APIKey = v
		} else if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			s.APIKey = v
		}
	}

	if s.DatabasePath == "" {
		s.DatabasePath = DefaultDatabasePath()
	}
	if s.Provider == "" {
		s.Provider = DefaultProvider
	}
	if s.Model == "" {
		s.Model = DefaultModel
	}
	if s.Dimensions <= 0 {
		s.Dimensions = DefaultDimensions
	}

	return s
}
