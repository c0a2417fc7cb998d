// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package common

import (
	"context"
	"fmt"

	"finrag/internal/config"
	"finrag/pkg/chunking"
	"finrag/pkg/clustering"
	"finrag/pkg/embedding"
	"finrag/pkg/llm"
	"finrag/pkg/llm/openai"
	"finrag/pkg/orchestrator"
	"finrag/pkg/persist/blob"
	"finrag/pkg/persist/postgres"
	"finrag/pkg/persist/qdrant"
	"finrag/pkg/qa"
	"finrag/pkg/retrieval"
	"finrag/pkg/summarization"
	"finrag/pkg/treebuilder"
)

// System encapsulates all composed components of the RAG engine: the
// configuration it was built from, the provider clients, the optional
// enrichment backends, and the orchestrator they feed.
type System struct {
	Config              *config.Config
	Orchestrator        *orchestrator.Orchestrator
	EmbeddingDimensions int

	Postgres *postgres.Mirror
	Qdrant   *qdrant.Mirror
	Blob     *blob.Archive
}

// InitializeSystem wires providers, persistence, and the orchestrator
// from cfg, mirroring the teacher's System/InitializeSystem
// composition-root split (§4.5).
func InitializeSystem(ctx context.Context, cfg *config.Config) (*System, error) {
	sys := &System{Config: cfg}

	embedder, err := initEmbedder(cfg)
	if err != nil {
		return nil, fmt.Errorf("common: init embedder: %w", err)
	}

	summarizer, err := initSummarizer(cfg)
	if err != nil {
		return nil, fmt.Errorf("common: init summarizer: %w", err)
	}

	qaProvider, err := initQA(cfg)
	if err != nil {
		return nil, fmt.Errorf("common: init QA: %w", err)
	}

	chunker := chunking.New(chunking.Config{
		ChunkSize:    cfg.Chunking.ChunkSize,
		ChunkOverlap: cfg.Chunking.ChunkOverlap,
	})

	builder := treebuilder.New(treebuilder.Config{
		MaxDepth:            cfg.Chunking.MaxDepth,
		SummarizationLength: cfg.Clustering.SummarizationLength,
		ProviderParallelism: cfg.Retrieval.ProviderParallel,
		Clustering: clustering.Config{
			MaxClusterSize: cfg.Clustering.MaxClusterSize,
			MinClusterSize: cfg.Clustering.MinClusterSize,
			ReductionDim:   cfg.Clustering.ReductionDimension,
			MaxClusters:    cfg.Clustering.MaxClusters,
			RandomState:    cfg.Clustering.GaussianRandomState,
			MetadataKeys:   cfg.Clustering.MetadataKeys,
		},
	}, embedder, summarizer)

	retriever := retrieval.New(embedder)

	sys.EmbeddingDimensions = embedder.Dimensions()
	sys.Orchestrator = orchestrator.New(
		chunker, builder, retriever, qaProvider,
		cfg.Retrieval.TopK, retrieval.Method(cfg.Retrieval.TraversalMethod),
	)

	if err := sys.initEnrichmentBackends(ctx, embedder.Dimensions()); err != nil {
		return nil, fmt.Errorf("common: init enrichment backends: %w", err)
	}

	return sys, nil
}

func initEmbedder(cfg *config.Config) (embedding.Embedder, error) {
	var base embedding.Embedder
	switch cfg.Providers.Embedding.Provider {
	case "openai":
		e, err := embedding.NewOpenAIEmbedder(embedding.Config{
			APIKey: cfg.Providers.Embedding.APIKey,
			Model:  cfg.Providers.Embedding.Model,
		})
		if err != nil {
			return nil, err
		}
		base = e
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Providers.Embedding.Provider)
	}

	if cfg.Providers.RedisAddress == "" {
		return base, nil
	}

	client, err := embedding.NewRedisClient([]string{cfg.Providers.RedisAddress})
	if err != nil {
		return nil, err
	}
	return embedding.NewCachedEmbedder(base, client, ""), nil
}

func initSummarizer(cfg *config.Config) (summarization.Summarizer, error) {
	switch cfg.Providers.Summarization.Provider {
	case "openai":
		provider, err := newOpenAIProvider(cfg.Providers.Summarization)
		if err != nil {
			return nil, err
		}
		return summarization.NewOpenAISummarizer(provider), nil
	default:
		return nil, fmt.Errorf("unsupported summarization provider: %s", cfg.Providers.Summarization.Provider)
	}
}

func initQA(cfg *config.Config) (qa.QA, error) {
	switch cfg.Providers.QA.Provider {
	case "openai":
		provider, err := newOpenAIProvider(cfg.Providers.QA)
		if err != nil {
			return nil, err
		}
		return qa.NewOpenAIQA(provider), nil
	default:
		return nil, fmt.Errorf("unsupported QA provider: %s", cfg.Providers.QA.Provider)
	}
}

func newOpenAIProvider(pc config.ProviderConfig) (llm.Provider, error) {
	return openai.NewProvider(pc.APIKey, pc.Model, &llm.Config{
		Provider:           "openai",
		Model:              pc.Model,
		DefaultTemperature: 0.3,
		DefaultMaxTokens:   1024,
		TimeoutSeconds:     60,
	})
}

// initEnrichmentBackends wires the optional persistence mirrors
// (§6): Postgres, Qdrant, and the MinIO blob archive are all
// optional, and absence of their config sections simply leaves them
// nil.
func (s *System) initEnrichmentBackends(ctx context.Context, dim int) error {
	pc := s.Config.Persistence

	if pc.Postgres != nil {
		m, err := postgres.NewMirror(ctx, pc.Postgres.DSN, dim)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		s.Postgres = m
	}

	if pc.Qdrant != nil {
		m, err := qdrant.NewMirror(pc.Qdrant.Address, pc.Qdrant.Collection)
		if err != nil {
			return fmt.Errorf("qdrant: %w", err)
		}
		if err := m.EnsureCollection(ctx, dim); err != nil {
			return fmt.Errorf("qdrant: %w", err)
		}
		s.Qdrant = m
	}

	if pc.Blob != nil {
		a, err := blob.NewArchive(ctx, blob.Config{
			Endpoint:        pc.Blob.Endpoint,
			AccessKeyID:     pc.Blob.AccessKeyID,
			SecretAccessKey: pc.Blob.SecretAccessKey,
			BucketName:      pc.Blob.BucketName,
			UseSSL:          pc.Blob.UseSSL,
		})
		if err != nil {
			return fmt.Errorf("blob: %w", err)
		}
		s.Blob = a
	}

	return nil
}

// Close releases every connection-backed resource the system opened.
func (s *System) Close() error {
	if s.Postgres != nil {
		s.Postgres.Close()
	}
	if s.Qdrant != nil {
		return s.Qdrant.Close()
	}
	return nil
}
