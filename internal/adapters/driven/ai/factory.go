// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	openaiembed "github.com/helmsman-ai/helmsman/internal/adapters/driven/embedding/openai"
	"github.com/helmsman-ai/helmsman/internal/adapters/driven/embedding/tfidf"
	ollamallm "github.com/helmsman-ai/helmsman/internal/adapters/driven/llm/ollama"
	openaillm "github.com/helmsman-ai/helmsman/internal/adapters/driven/llm/openai"
	"github.com/helmsman-ai/helmsman/internal/adapters/driven/websearch/searx"
	"github.com/helmsman-ai/helmsman/internal/core/domain"
	"github.com/helmsman-ai/helmsman/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if no LLM provider is configured; the router degrades
// instead of failing.
func CreateLLMService(settings domain.LLMSettings) (driven.LLMService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
func CreateAndValidateLLMService(settings domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'helmsman settings' to fix",
			domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'helmsman settings' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the appropriate embedding service based
// on settings. The zero value falls back to the built-in TF-IDF embedder.
func CreateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case "", domain.AIProviderTFIDF:
		return tfidf.NewEmbeddingService(), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateWebSearcher creates a web search client when one is configured.
// Returns nil when web search is disabled.
func CreateWebSearcher(settings domain.WebSearchSettings) (driven.WebSearcher, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}
	return searx.NewClient(searx.Config{BaseURL: settings.BaseURL})
}

// ValidateLLMConfig validates an LLM configuration by creating a
// service and pinging it. Used by the settings command.
func ValidateLLMConfig(settings domain.LLMSettings) error {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// SettingsFromConfig assembles domain settings from the config store.
// API keys and the web search endpoint fall back to environment
// variables (OPENAI_API_KEY, SEARXNG_URL) when absent from the config
// file, so secrets can live in the environment or a .env file.
func SettingsFromConfig(cfg driven.ConfigStore) domain.Settings {
	settings := domain.DefaultSettings()

	if provider := cfg.GetString("llm.provider"); provider != "" {
		settings.LLM = domain.LLMSettings{
			Provider: domain.AIProvider(provider),
			Model:    cfg.GetString("llm.model"),
			BaseURL:  cfg.GetString("llm.base_url"),
			APIKey:   cfg.GetString("llm.api_key"),
		}
		if settings.LLM.APIKey == "" && settings.LLM.Provider == domain.AIProviderOpenAI {
			settings.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}

	if provider := cfg.GetString("embedding.provider"); provider != "" {
		settings.Embedding = domain.EmbeddingSettings{
			Provider: domain.AIProvider(provider),
			Model:    cfg.GetString("embedding.model"),
			BaseURL:  cfg.GetString("embedding.base_url"),
			APIKey:   cfg.GetString("embedding.api_key"),
		}
		if settings.Embedding.APIKey == "" && settings.Embedding.Provider == domain.AIProviderOpenAI {
			settings.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}

	settings.WebSearch = domain.WebSearchSettings{
		BaseURL: cfg.GetString("websearch.base_url"),
	}
	if settings.WebSearch.BaseURL == "" {
		settings.WebSearch.BaseURL = os.Getenv("SEARXNG_URL")
	}

	return settings
}
