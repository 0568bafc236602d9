package retrieval

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/support-router-poc/server/internal/router/model"
)

// GeminiEmbedder embeds text with a Gemini embedding model. Query and
// document embeddings must come from the same model so they share one
// embedding space.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

func NewGeminiEmbedder(client *genai.Client, embeddingModel string) *GeminiEmbedder {
	return &GeminiEmbedder{client: client, model: embeddingModel}
}

func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Models.EmbedContent(ctx, e.model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, fmt.Errorf("embed content: empty response")
	}
	values := resp.Embeddings[0].Values
	if len(values) == 0 {
		return nil, fmt.Errorf("embed content: empty vector")
	}
	return values, nil
}

var _ model.Embedder = (*GeminiEmbedder)(nil)
