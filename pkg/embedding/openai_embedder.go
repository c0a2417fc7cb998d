// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package embedding

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"finrag/pkg/providererr"
)

// OpenAIEmbedder implements Embedder using OpenAI's embedding models.
type OpenAIEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
	timeout    time.Duration
}

// Model dimensions for common OpenAI embedding models.
const (
	DimensionsTextEmbedding3Small = 1536
	DimensionsTextEmbedding3Large = 3072
	DimensionsTextEmbeddingAda002 = 1536
)

// NewOpenAIEmbedder creates a new OpenAI embedder instance.
func NewOpenAIEmbedder(cfg Config) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("embedding: OpenAI API key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("embedding: model name is required")
	}
	cfg = cfg.withDefaults()

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIEmbedder{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      cfg.Model,
		dimensions: dimensionsForModel(cfg.Model),
		timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, nil
}

func dimensionsForModel(model string) int {
	switch model {
	case "text-embedding-3-small":
		return DimensionsTextEmbedding3Small
	case "text-embedding-3-large":
		return DimensionsTextEmbedding3Large
	default:
		return DimensionsTextEmbeddingAda002
	}
}

// Embed requests a single embedding, retrying transient failures per
// the fixed backoff schedule (§4.3.2).
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, providererr.Permanent("embedding.Embed", errors.New("empty text"))
	}

	var vector []float32
	err := providererr.Retry(ctx, "embedding.Embed", func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		resp, err := e.client.CreateEmbeddings(callCtx, openai.EmbeddingRequest{
			Input: []string{text},
			Model: openai.EmbeddingModel(e.model),
		})
		if err != nil {
			return providererr.Transient("embedding.Embed", err)
		}
		if len(resp.Data) == 0 {
			return providererr.Transient("embedding.Embed", errors.New("empty response"))
		}
		vector = resp.Data[0].Embedding
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vector, nil
}

// Dimensions returns D, the vector length this provider produces.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}
