package config

// AI providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// AIModels defines which model serves each generative operation
type AIModels struct {
	// Transcribe turns a speaking answer into text (fast model is fine)
	Transcribe string `json:"transcribe" mapstructure:"transcribe"`

	// Writing grades an essay against the IELTS band descriptors (quality matters)
	Writing string `json:"writing" mapstructure:"writing"`

	// Extract reads a scanned test page into question groups (vision)
	Extract string `json:"extract" mapstructure:"extract"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	Provider     string   `json:"provider" mapstructure:"provider"`
	APIKey       string   `json:"-" mapstructure:"api_key"` // Gemini, never serialized
	OpenAIAPIKey string   `json:"-" mapstructure:"openai_api_key"`
	BaseURL      string   `json:"baseUrl" mapstructure:"base_url"`
	Models       AIModels `json:"models" mapstructure:"models"`
	TimeoutMS    int      `json:"timeoutMs" mapstructure:"timeout_ms"`

	// Requests per second allowed towards the provider, and burst size
	RateLimit float64 `json:"rateLimit" mapstructure:"rate_limit"`
	Burst     int     `json:"burst" mapstructure:"burst"`
}

// DefaultAIConfig returns the default AI configuration for the given provider
func DefaultAIConfig(provider string) AIConfig {
	cfg := AIConfig{
		Provider:  provider,
		BaseURL:   "https://generativelanguage.googleapis.com/v1beta/models",
		TimeoutMS: 60000,
		RateLimit: 2,
		Burst:     4,
		Models: AIModels{
			Transcribe: "gemini-2.0-flash",
			Writing:    "gemini-2.5-flash",
			Extract:    "gemini-2.5-flash",
		},
	}
	if provider == ProviderOpenAI {
		cfg.BaseURL = ""
		cfg.Models = AIModels{
			Transcribe: "whisper-1",
			Writing:    "gpt-4o",
			Extract:    "gpt-4o",
		}
	}
	return cfg
}

// IsEnabled returns true if the selected provider has credentials
func (c *AIConfig) IsEnabled() bool {
	if c.Provider == ProviderOpenAI {
		return c.OpenAIAPIKey != ""
	}
	return c.APIKey != ""
}

// ModelEndpoint returns the full Gemini endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}
