// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantErr  bool
		validate func(*testing.T, *Config)
	}{
		{
			name:    "minimal config gets defaults",
			content: `{"providers": {"embedding": {"provider": "openai", "model": "text-embedding-3-small"}}}`,
			wantErr: false,
			validate: func(t *testing.T, c *Config) {
				if c.Chunking.ChunkSize != 512 {
					t.Errorf("expected default chunk size 512, got %d", c.Chunking.ChunkSize)
				}
				if c.Clustering.MaxClusterSize != 100 {
					t.Errorf("expected default max cluster size 100, got %d", c.Clustering.MaxClusterSize)
				}
				if c.Retrieval.TopK != 10 {
					t.Errorf("expected default top_k 10, got %d", c.Retrieval.TopK)
				}
				if len(c.Clustering.MetadataKeys) != 3 {
					t.Errorf("expected 3 default metadata keys, got %d", len(c.Clustering.MetadataKeys))
				}
			},
		},
		{
			name: "complete config keeps custom values",
			content: `{
				"chunking": {"chunk_size": 256, "chunk_overlap": 20, "max_depth": 3},
				"clustering": {"max_cluster_size": 50, "min_cluster_size": 3, "reduction_dimension": 8, "max_clusters": 4, "summarization_length": 150, "metadata_keys": ["sector", "company"]},
				"retrieval": {"top_k": 5, "traversal_method": "flattened", "provider_parallelism": 4, "provider_timeout_seconds": 30},
				"providers": {"embedding": {"provider": "openai", "model": "text-embedding-3-large", "api_key": "embed-key"}},
				"persistence": {"dir": "/tmp/tree"}
			}`,
			wantErr: false,
			validate: func(t *testing.T, c *Config) {
				if c.Chunking.ChunkSize != 256 {
					t.Errorf("expected chunk size 256, got %d", c.Chunking.ChunkSize)
				}
				if c.Retrieval.TraversalMethod != "flattened" {
					t.Errorf("expected traversal_method flattened, got %s", c.Retrieval.TraversalMethod)
				}
				if c.Providers.Embedding.APIKey != "embed-key" {
					t.Errorf("expected embed-key, got %s", c.Providers.Embedding.APIKey)
				}
				if len(c.Clustering.MetadataKeys) != 2 {
					t.Errorf("expected custom metadata_keys to survive defaulting, got %v", c.Clustering.MetadataKeys)
				}
			},
		},
		{
			name:    "invalid JSON",
			content: `{invalid json}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			tmpFile := filepath.Join(tmpDir, "config.json")

			if err := os.WriteFile(tmpFile, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("failed to write test file: %v", err)
			}

			cfg, err := LoadFromFile(tmpFile)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg == nil {
				t.Fatal("expected config, got nil")
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.json")
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestLoadFromFile_EnvOverridesAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "config.json")
	if err := os.WriteFile(tmpFile, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	cfg, err := LoadFromFile(tmpFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Providers.Embedding.APIKey != "env-key" {
		t.Errorf("expected env-key, got %s", cfg.Providers.Embedding.APIKey)
	}
	if cfg.Providers.QA.APIKey != "env-key" {
		t.Errorf("expected env-key for QA, got %s", cfg.Providers.QA.APIKey)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Chunking.ChunkSize != 512 || cfg.Chunking.ChunkOverlap != 50 || cfg.Chunking.MaxDepth != 4 {
		t.Errorf("unexpected chunking defaults: %+v", cfg.Chunking)
	}
	if cfg.Clustering.GaussianRandomState != 42 {
		t.Errorf("expected gaussian_random_state 42, got %d", cfg.Clustering.GaussianRandomState)
	}
	if cfg.Retrieval.ProviderParallel != 8 {
		t.Errorf("expected provider_parallelism 8, got %d", cfg.Retrieval.ProviderParallel)
	}
}

func TestSaveToFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers.Embedding.APIKey = "should-not-matter"

	t.Run("successful save", func(t *testing.T) {
		tmpDir := t.TempDir()
		tmpFile := filepath.Join(tmpDir, "config.json")

		if err := cfg.SaveToFile(tmpFile); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(tmpFile)
		if err != nil {
			t.Fatalf("failed to read saved file: %v", err)
		}

		var loaded Config
		if err := json.Unmarshal(data, &loaded); err != nil {
			t.Fatalf("failed to unmarshal saved config: %v", err)
		}
		if loaded.Chunking.ChunkSize != 512 {
			t.Errorf("expected chunk size 512, got %d", loaded.Chunking.ChunkSize)
		}
	})

	t.Run("invalid path", func(t *testing.T) {
		if err := cfg.SaveToFile("/nonexistent/dir/config.json"); err == nil {
			t.Error("expected error for invalid path, got nil")
		}
	})
}

func TestApplyDefaults_CustomValuesNotOverridden(t *testing.T) {
	cfg := &Config{
		Chunking:   ChunkingConfig{ChunkSize: 999, ChunkOverlap: 90, MaxDepth: 2},
		Clustering: ClusteringConfig{MaxClusterSize: 25, MetadataKeys: []string{"sector"}},
		Retrieval:  RetrievalConfig{TopK: 3, TraversalMethod: "flattened"},
	}
	applyDefaults(cfg)

	if cfg.Chunking.ChunkSize != 999 {
		t.Error("custom chunk size was overridden")
	}
	if cfg.Clustering.MaxClusterSize != 25 {
		t.Error("custom max cluster size was overridden")
	}
	if len(cfg.Clustering.MetadataKeys) != 1 {
		t.Error("custom metadata keys were overridden")
	}
	if cfg.Retrieval.TopK != 3 {
		t.Error("custom top_k was overridden")
	}
	// Untouched fields should still pick up defaults.
	if cfg.Clustering.MinClusterSize != 5 {
		t.Errorf("expected default min_cluster_size 5, got %d", cfg.Clustering.MinClusterSize)
	}
}
