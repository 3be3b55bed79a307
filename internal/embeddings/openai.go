package embeddings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
	"golang.org/x/time/rate"
)

var (
	// ErrEmptyInput is returned when an embedding is requested for empty input.
	ErrEmptyInput = errors.New("embeddings: input text is empty")
	// ErrInvalidDims is returned when dimensions is not positive.
	ErrInvalidDims = errors.New("embeddings: embedding dimensions must be positive")
	// ErrNoEmbeddingInResponse is returned when the API response contains no embedding data.
	ErrNoEmbeddingInResponse = errors.New("embeddings: no embedding in response")
	// ErrDimensionMismatch is returned when a response embedding length does not match configured dimensions.
	ErrDimensionMismatch = errors.New("embeddings: embedding dimension mismatch")
)

const defaultDimensions = 1536

// OpenAIClient calls the OpenAI embeddings API via the official SDK.
type OpenAIClient struct {
	sdk        openaisdk.Client
	dimensions int
	limiter    *rate.Limiter
}

// Ensure OpenAIClient implements Client interface
var _ Client = (*OpenAIClient)(nil)

// OpenAIOption configures the OpenAIClient.
type OpenAIOption func(*OpenAIClient)

// WithDimensions sets the requested embedding dimension (must match the index build).
func WithDimensions(dim int) OpenAIOption {
	return func(c *OpenAIClient) {
		c.dimensions = dim
	}
}

// WithRateLimit caps embedding API calls at rps requests per second. Index builds
// issue many batch requests back to back; the limiter keeps them under the
// provider's rate limits. Zero or negative rps means no limit.
func WithRateLimit(rps int) OpenAIOption {
	return func(c *OpenAIClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), rps)
		}
	}
}

// NewOpenAIClient creates an OpenAI embeddings client using the official SDK.
// Uses text-embedding-3-small.
func NewOpenAIClient(apiKey string, opts ...OpenAIOption) *OpenAIClient {
	client := &OpenAIClient{
		sdk:        openaisdk.NewClient(option.WithAPIKey(apiKey)),
		dimensions: defaultDimensions,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// CreateEmbedding returns the embedding vector for the given text.
// The returned slice length equals the configured dimensions.
func (c *OpenAIClient) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	if c.dimensions <= 0 {
		return nil, ErrInvalidDims
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.sdk.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Input: openaisdk.EmbeddingNewParamsInputUnion{
			OfString: param.NewOpt(text),
		},
		Model:      openaisdk.EmbeddingModelTextEmbedding3Small,
		Dimensions: param.NewOpt(int64(c.dimensions)),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, ErrNoEmbeddingInResponse
	}

	return c.toFloat32(resp.Data[0].Embedding)
}

// CreateEmbeddings returns embedding vectors for the given texts in one API call.
// Every text must be non-empty; the response preserves input order.
func (c *OpenAIClient) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			return nil, fmt.Errorf("%w (index %d)", ErrEmptyInput, i)
		}
	}

	if c.dimensions <= 0 {
		return nil, ErrInvalidDims
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.sdk.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Input: openaisdk.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Model:      openaisdk.EmbeddingModelTextEmbedding3Small,
		Dimensions: param.NewOpt(int64(c.dimensions)),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", ErrNoEmbeddingInResponse, len(resp.Data), len(texts))
	}

	out := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		vec, convErr := c.toFloat32(data.Embedding)
		if convErr != nil {
			return nil, convErr
		}

		out[i] = vec
	}

	return out, nil
}

func (c *OpenAIClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("embedding rate limiter: %w", err)
	}

	return nil
}

func (c *OpenAIClient) toFloat32(emb []float64) ([]float32, error) {
	if len(emb) != c.dimensions {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(emb), c.dimensions)
	}

	out := make([]float32, len(emb))
	for i := range emb {
		out[i] = float32(emb[i])
	}

	return out, nil
}
