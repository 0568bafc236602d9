package gemini

import (
	"context"

	"google.golang.org/genai"
)

type Config struct {
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`
}

// New creates a Gemini API client shared by the chat models and the embedder.
func (c *Config) New(ctx context.Context) (*genai.Client, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  c.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = c.BaseURL
	}

	return genai.NewClient(ctx, clientCfg)
}
