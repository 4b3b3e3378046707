package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/memo-labs/memo-cli/internal/adapters/driven/config/file"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the embedding provider, model and database
location. Settings live in ~/.memo/config.toml and can be overridden
per invocation with MEMO_* environment variables.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value by key.

Keys:
  database.path         global database file
  embedding.provider    openai or ollama
  embedding.model       embedding model name
  embedding.dimensions  embedding vector size
  embedding.base_url    provider endpoint override`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeyCmd = &cobra.Command{
	Use:   "key",
	Short: "Set the embedding API key",
	Long:  `Prompts for the API key without echoing it to the terminal.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsKey,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	settings := file.LoadSettings(configStore)

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Database]")
	cmd.Printf("  Path: %s\n", settings.DatabasePath)
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Provider)
	cmd.Printf("  Model: %s\n", settings.Model)
	cmd.Printf("  Dimensions: %d\n", settings.Dimensions)
	if settings.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.BaseURL)
	}
	if settings.Provider != "ollama" {
		if settings.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	cmd.Println()
	cmd.Printf("Config file: %s\n", configStore.Path())

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, value := args[0], args[1]
	switch key {
	case file.KeyDatabasePath, file.KeyEmbeddingProvider, file.KeyEmbeddingModel, file.KeyEmbeddingBaseURL:
		if err := configStore.Set(key, value); err != nil {
			return fmt.Errorf("failed to save setting: %w", err)
		}
	case file.KeyEmbeddingDimensions:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("dimensions must be a positive integer, got %q", value)
		}
		if err := configStore.Set(key, n); err != nil {
			return fmt.Errorf("failed to save setting: %w", err)
		}
	default:
		return fmt.Errorf("unknown setting %q", key)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

func runSettingsKey(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Print("API key: ")
	keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	cmd.Println()
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	if len(keyBytes) == 0 {
		return errors.New("no key entered")
	}

	if err := configStore.Set(file.KeyAPIKey, string(keyBytes)); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}

	cmd.Println("API key saved.")
	return nil
}
