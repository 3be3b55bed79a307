package embeddings

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"

	vecmath "github.com/moodshelf/moodshelf/pkg/embeddings"
)

// LocalClient implements Client without any network dependency.
// It hashes each whitespace token into a dimension (bag-of-words), so texts
// sharing words score higher under cosine similarity. Output is deterministic,
// which makes it suitable for tests and for running without an API key.
type LocalClient struct {
	dimensions int
}

// Ensure LocalClient implements Client interface
var _ Client = (*LocalClient)(nil)

// NewLocalClient creates a local deterministic embedding client.
// Default dimensions is 1536 to match text-embedding-3-small.
func NewLocalClient() *LocalClient {
	return &LocalClient{dimensions: defaultDimensions}
}

// NewLocalClientWithDimensions creates a local client with custom dimensions.
func NewLocalClientWithDimensions(dimensions int) *LocalClient {
	return &LocalClient{dimensions: dimensions}
}

// CreateEmbedding generates a deterministic embedding from the text's tokens.
func (c *LocalClient) CreateEmbedding(_ context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	return c.embed(text), nil
}

// CreateEmbeddings generates embeddings for multiple texts.
// Returns an error if any text is empty.
func (c *LocalClient) CreateEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("%w (index %d)", ErrEmptyInput, i)
		}

		out[i] = c.embed(text)
	}

	return out, nil
}

// embed builds a normalized bag-of-words vector: each lowercased token is
// hashed to one dimension and accumulated.
func (c *LocalClient) embed(text string) []float32 {
	vec := make([]float32, c.dimensions)

	for _, token := range strings.Fields(strings.ToLower(text)) {
		sum := sha256.Sum256([]byte(token))
		dim := binary.BigEndian.Uint32(sum[:4]) % uint32(c.dimensions)
		vec[dim]++
	}

	vecmath.NormalizeL2(vec)

	return vec
}
