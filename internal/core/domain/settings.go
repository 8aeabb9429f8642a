package domain

const unknownDescription = "Unknown"

// AIProvider identifies a service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API, or any compatible
	// endpoint such as OpenRouter.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderTFIDF is the built-in corpus-fitted TF-IDF embedder.
	// Embedding only; it is not an LLM provider.
	AIProviderTFIDF AIProvider = "tfidf"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderTFIDF:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs without network access.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderTFIDF
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI-compatible (cloud)"
	case AIProviderTFIDF:
		return "TF-IDF (built-in)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI-compatible providers).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderTFIDF {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for OpenAI-compatible providers).
	BaseURL string

	// APIKey is the API key (for OpenAI-compatible providers).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
// An empty provider falls back to TF-IDF, which needs no configuration.
func (e EmbeddingSettings) IsConfigured() bool {
	if e.Provider == "" {
		return true
	}
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// WebSearchSettings holds web search provider configuration.
type WebSearchSettings struct {
	// BaseURL is the SearxNG instance URL. Empty disables web search.
	BaseURL string
}

// IsConfigured returns true if a web search endpoint is set.
func (w WebSearchSettings) IsConfigured() bool {
	return w.BaseURL != ""
}

// Settings aggregates all configurable behaviour.
type Settings struct {
	// LLM configures the language model used for SQL translation
	// and answer drafting.
	LLM LLMSettings

	// Embedding configures the embedding backend for retrieval.
	Embedding EmbeddingSettings

	// WebSearch configures the external search provider.
	WebSearch WebSearchSettings
}

// DefaultSettings returns settings with the built-in defaults:
// TF-IDF embeddings, no LLM, no web search.
func DefaultSettings() Settings {
	return Settings{
		Embedding: EmbeddingSettings{Provider: AIProviderTFIDF},
	}
}
