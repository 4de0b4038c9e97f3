package retrieval

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	errx "github.com/jurislens-poc/server/internal/core/error"
)

// Embedder turns text into a vector using an OpenAI-compatible embeddings
// endpoint.
type Embedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
}

// EmbedderConfig holds the embedding provider settings.
type EmbedderConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
}

// NewEmbedder creates an OpenAI-compatible embedding provider.
func NewEmbedder(cfg EmbedderConfig) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Embedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
	}
}

// Embed returns the vector for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	resp, err := e.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, errx.BackendUnavailable(err, "embedding request failed")
	}
	if len(resp.Data) == 0 {
		return nil, errx.BackendUnavailable(fmt.Errorf("empty embedding response"), "embedding request failed")
	}
	return resp.Data[0].Embedding, nil
}

// EmbedBatch returns vectors for several texts in one request, in input order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	req := openai.EmbeddingRequest{
		Input:          texts,
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	resp, err := e.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, errx.BackendUnavailable(err, "embedding request failed")
	}
	if len(resp.Data) != len(texts) {
		return nil, errx.BackendUnavailable(
			fmt.Errorf("embedding count mismatch: got %d, want %d", len(resp.Data), len(texts)),
			"embedding request failed",
		)
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, errx.BackendUnavailable(fmt.Errorf("embedding index %d out of range", d.Index), "embedding request failed")
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}
