package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/helmsman-ai/helmsman/internal/adapters/driven/ai"
	configfile "github.com/helmsman-ai/helmsman/internal/adapters/driven/config/file"
	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the LLM provider, embedding backend, web search
endpoint and data locations.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the LLM provider",
	Long:  `Configure the language model used for SQL translation and answer drafting.`,
	RunE:  runSettingsLLM,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider",
	Long:  `Configure the embedding backend for document retrieval. The built-in TF-IDF embedder needs no configuration.`,
	RunE:  runSettingsEmbedding,
}

var settingsWebCmd = &cobra.Command{
	Use:   "web [searxng-url]",
	Short: "Configure the web search endpoint",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsWeb,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsWebCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("configuration not loaded")
	}

	settings := ai.SettingsFromConfig(configStore)

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[LLM]")
	if settings.LLM.Provider == "" {
		cmd.Println("  Provider: (not set)")
	} else {
		cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
		cmd.Printf("  Model: %s\n", settings.LLM.Model)
		if settings.LLM.BaseURL != "" {
			cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
		}
		if settings.LLM.Provider.RequiresAPIKey() {
			if settings.LLM.APIKey != "" {
				cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
			} else {
				cmd.Printf("  API Key: (not set)\n")
			}
		}
	}
	status := "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured (SQL translation and answer drafting disabled)"
	}
	cmd.Printf("  Status: %s\n\n", status)

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	if settings.Embedding.Model != "" {
		cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		if settings.Embedding.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	cmd.Println()

	cmd.Println("[Web Search]")
	if settings.WebSearch.IsConfigured() {
		cmd.Printf("  SearxNG URL: %s\n", settings.WebSearch.BaseURL)
	} else {
		cmd.Println("  (not configured; WEB-routed queries return a degraded answer)")
	}
	cmd.Println()

	cmd.Printf("Config file: %s\n", configStore.Path())
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("configuration not loaded")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select LLM Provider")
	providers := []domain.AIProvider{domain.AIProviderOpenAI, domain.AIProviderOllama}
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	cmd.Print("Enter model name (empty for provider default): ")
	model := readLine(reader)

	cmd.Print("Enter base URL (empty for provider default): ")
	baseURL := readLine(reader)

	var apiKey string
	if provider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	settings := domain.LLMSettings{
		Provider: provider,
		Model:    model,
		BaseURL:  baseURL,
		APIKey:   apiKey,
	}

	cmd.Print("Validating configuration... ")
	if err := ai.ValidateLLMConfig(settings); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	if err := saveAll(map[string]any{
		configfile.KeyLLMProvider: string(provider),
		configfile.KeyLLMModel:    model,
		configfile.KeyLLMBaseURL:  baseURL,
		configfile.KeyLLMAPIKey:   apiKey,
	}); err != nil {
		return err
	}

	cmd.Printf("LLM provider configured: %s\n", provider.Description())
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("configuration not loaded")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select Embedding Provider")
	providers := []domain.AIProvider{domain.AIProviderTFIDF, domain.AIProviderOpenAI}
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	var model, apiKey string
	if provider.RequiresAPIKey() {
		cmd.Print("Enter model name (empty for default): ")
		model = readLine(reader)
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := saveAll(map[string]any{
		configfile.KeyEmbedProvider: string(provider),
		configfile.KeyEmbedModel:    model,
		configfile.KeyEmbedAPIKey:   apiKey,
	}); err != nil {
		return err
	}

	cmd.Printf("Embedding provider configured: %s\n", provider.Description())
	cmd.Println("Note: existing documents are re-embedded on next start.")
	return nil
}

func runSettingsWeb(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("configuration not loaded")
	}

	url := ""
	if len(args) == 1 {
		url = args[0]
	}

	if err := configStore.Set(configfile.KeyWebSearchURL, url); err != nil {
		return err
	}

	if url == "" {
		cmd.Println("Web search disabled.")
	} else {
		cmd.Printf("Web search endpoint set to %s\n", url)
	}
	return nil
}

// Helper functions.

func saveAll(values map[string]any) error {
	for key, value := range values {
		if err := configStore.Set(key, value); err != nil {
			return fmt.Errorf("saving %s: %w", key, err)
		}
	}
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
