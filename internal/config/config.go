// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package config loads the full configuration option list of §6 from a
// JSON file, environment variables, and optional local .env files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"finrag/pkg/retrieval"
)

// Config is the complete application configuration.
type Config struct {
	Chunking    ChunkingConfig    `json:"chunking"`
	Clustering  ClusteringConfig  `json:"clustering"`
	Retrieval   RetrievalConfig   `json:"retrieval"`
	Providers   ProvidersConfig   `json:"providers"`
	Persistence PersistenceConfig `json:"persistence"`
}

// ChunkingConfig holds the chunker's size/overlap/depth options.
type ChunkingConfig struct {
	ChunkSize    int `json:"chunk_size"`
	ChunkOverlap int `json:"chunk_overlap"`
	MaxDepth     int `json:"max_depth"`
}

// ClusteringConfig holds the clusterer's options.
type ClusteringConfig struct {
	MaxClusterSize      int      `json:"max_cluster_size"`
	MinClusterSize      int      `json:"min_cluster_size"`
	ReductionDimension  int      `json:"reduction_dimension"`
	MaxClusters         int      `json:"max_clusters"`
	GaussianRandomState int64    `json:"gaussian_random_state"`
	SummarizationLength int      `json:"summarization_length"`
	MetadataKeys        []string `json:"metadata_keys"`
}

// RetrievalConfig holds the retriever's defaults.
type RetrievalConfig struct {
	TopK             int    `json:"top_k"`
	TraversalMethod  string `json:"traversal_method"`
	ProviderParallel int    `json:"provider_parallelism"`
	TimeoutSeconds   int    `json:"provider_timeout_seconds"`
}

// ProvidersConfig holds provider selection and credentials.
type ProvidersConfig struct {
	Embedding     ProviderConfig `json:"embedding"`
	Summarization ProviderConfig `json:"summarization"`
	QA            ProviderConfig `json:"qa"`
	RedisAddress  string         `json:"redis_address,omitempty"`
}

// ProviderConfig holds one provider's selection and credentials.
type ProviderConfig struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key,omitempty"`
	Model    string `json:"model"`
}

// PersistenceConfig holds the tree's storage directory and the
// optional enrichment backend settings.
type PersistenceConfig struct {
	Dir      string          `json:"dir"`
	Postgres *PostgresConfig `json:"postgres,omitempty"`
	Qdrant   *QdrantConfig   `json:"qdrant,omitempty"`
	Blob     *BlobConfig     `json:"blob,omitempty"`
}

// PostgresConfig holds the optional Postgres mirror's connection info.
type PostgresConfig struct {
	DSN string `json:"dsn"`
}

// QdrantConfig holds the optional Qdrant mirror's connection info.
type QdrantConfig struct {
	Address    string `json:"address"`
	Collection string `json:"collection"`
}

// BlobConfig holds the optional MinIO archive's connection info.
type BlobConfig struct {
	Endpoint        string `json:"endpoint"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key,omitempty"`
	BucketName      string `json:"bucket_name"`
	UseSSL          bool   `json:"use_ssl"`
}

// DefaultConfig returns the spec's default configuration (§6).
func DefaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			ChunkSize:    512,
			ChunkOverlap: 50,
			MaxDepth:     4,
		},
		Clustering: ClusteringConfig{
			MaxClusterSize:      100,
			MinClusterSize:      5,
			ReductionDimension:  10,
			MaxClusters:         5,
			GaussianRandomState: 42,
			SummarizationLength: 200,
			MetadataKeys:        []string{"sector", "company", "year"},
		},
		Retrieval: RetrievalConfig{
			TopK:             10,
			TraversalMethod:  string(retrieval.MethodHierarchical),
			ProviderParallel: 8,
			TimeoutSeconds:   60,
		},
		Providers: ProvidersConfig{
			Embedding:     ProviderConfig{Provider: "openai", Model: "text-embedding-3-small"},
			Summarization: ProviderConfig{Provider: "openai", Model: "gpt-4o-mini"},
			QA:            ProviderConfig{Provider: "openai", Model: "gpt-4o"},
		},
		Persistence: PersistenceConfig{
			Dir: "./data/tree",
		},
	}
}

// LoadFromFile loads configuration from a JSON file, layering .env and
// environment-variable overrides for API keys on top.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFiles()

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

// applyEnvOverrides fills provider API keys and the Redis address from
// the environment when the file leaves them empty; PROVIDER_PARALLELISM,
// when set to an integer, replaces the file's value.
func applyEnvOverrides(cfg *Config) {
	if cfg.Providers.Embedding.APIKey == "" {
		cfg.Providers.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Providers.Summarization.APIKey == "" {
		cfg.Providers.Summarization.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Providers.QA.APIKey == "" {
		cfg.Providers.QA.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Providers.RedisAddress == "" {
		cfg.Providers.RedisAddress = os.Getenv("REDIS_ADDRESS")
	}
	if v := os.Getenv("PROVIDER_PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Retrieval.ProviderParallel = n
		}
	}
}

// applyDefaults fills in zero-valued fields the JSON file left unset.
func applyDefaults(cfg *Config) {
	d := DefaultConfig()

	if cfg.Chunking.ChunkSize == 0 {
		cfg.Chunking.ChunkSize = d.Chunking.ChunkSize
	}
	if cfg.Chunking.ChunkOverlap == 0 {
		cfg.Chunking.ChunkOverlap = d.Chunking.ChunkOverlap
	}
	if cfg.Chunking.MaxDepth == 0 {
		cfg.Chunking.MaxDepth = d.Chunking.MaxDepth
	}

	if cfg.Clustering.MaxClusterSize == 0 {
		cfg.Clustering.MaxClusterSize = d.Clustering.MaxClusterSize
	}
	if cfg.Clustering.MinClusterSize == 0 {
		cfg.Clustering.MinClusterSize = d.Clustering.MinClusterSize
	}
	if cfg.Clustering.ReductionDimension == 0 {
		cfg.Clustering.ReductionDimension = d.Clustering.ReductionDimension
	}
	if cfg.Clustering.MaxClusters == 0 {
		cfg.Clustering.MaxClusters = d.Clustering.MaxClusters
	}
	if cfg.Clustering.GaussianRandomState == 0 {
		cfg.Clustering.GaussianRandomState = d.Clustering.GaussianRandomState
	}
	if cfg.Clustering.SummarizationLength == 0 {
		cfg.Clustering.SummarizationLength = d.Clustering.SummarizationLength
	}
	if len(cfg.Clustering.MetadataKeys) == 0 {
		cfg.Clustering.MetadataKeys = d.Clustering.MetadataKeys
	}

	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = d.Retrieval.TopK
	}
	if cfg.Retrieval.TraversalMethod == "" {
		cfg.Retrieval.TraversalMethod = d.Retrieval.TraversalMethod
	}
	if cfg.Retrieval.ProviderParallel == 0 {
		cfg.Retrieval.ProviderParallel = d.Retrieval.ProviderParallel
	}
	if cfg.Retrieval.TimeoutSeconds == 0 {
		cfg.Retrieval.TimeoutSeconds = d.Retrieval.TimeoutSeconds
	}

	if cfg.Providers.Embedding.Provider == "" {
		cfg.Providers.Embedding = d.Providers.Embedding
	}
	if cfg.Providers.Summarization.Provider == "" {
		cfg.Providers.Summarization = d.Providers.Summarization
	}
	if cfg.Providers.QA.Provider == "" {
		cfg.Providers.QA = d.Providers.QA
	}

	if cfg.Persistence.Dir == "" {
		cfg.Persistence.Dir = d.Persistence.Dir
	}
}

// SaveToFile saves the configuration to a JSON file.
func (c *Config) SaveToFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func loadEnvFiles() {
	envFiles := []string{".env", ".env.local"}
	merged := make(map[string]string)

	for _, file := range envFiles {
		envMap, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			continue
		}
		for key, value := range envMap {
			merged[key] = value
		}
	}

	for key, value := range merged {
		current, exists := os.LookupEnv(key)
		if !exists || current == "" {
			_ = os.Setenv(key, value)
		}
	}
}
