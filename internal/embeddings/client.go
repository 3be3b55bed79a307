// Package embeddings provides the embedding oracle behind the semantic index:
// a narrow client interface plus an OpenAI-backed and a deterministic local implementation.
package embeddings

import "context"

// Client generates embedding vectors for text.
// The recommender treats it as an opaque oracle; any conforming implementation
// (hosted API, local model) satisfies the contract.
type Client interface {
	// CreateEmbedding generates an embedding vector for the given text.
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)

	// CreateEmbeddings generates embedding vectors for multiple texts in a batch.
	// More efficient than calling CreateEmbedding per text during index builds.
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}
