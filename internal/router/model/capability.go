package model

import "context"

// ContextRetriever is the vector-similarity-search capability the content
// pipeline depends on. Implementations return up to topK passages ranked most
// relevant first. Zero matches yield an empty slice, not an error; errors are
// reserved for capability failures (index unreachable, embedding failed).
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]string, error)
}

// Embedder converts text into a vector in the same embedding space as the
// indexed documents. Used by the Redis retriever and the knowledge indexer.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
