// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package embedding

import (
	"context"
	"testing"
)

func TestNewOpenAIEmbedder(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid embedder with defaults",
			cfg:  Config{APIKey: "test-api-key", Model: "text-embedding-3-small"},
		},
		{
			name: "valid embedder with custom timeout",
			cfg:  Config{APIKey: "test-api-key", Model: "text-embedding-ada-002", TimeoutSeconds: 10},
		},
		{
			name:    "missing API key",
			cfg:     Config{Model: "text-embedding-3-small"},
			wantErr: true,
		},
		{
			name:    "missing model",
			cfg:     Config{APIKey: "test-api-key"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder, err := NewOpenAIEmbedder(tt.cfg)

			if tt.wantErr {
				if err == nil {
					t.Error("NewOpenAIEmbedder() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewOpenAIEmbedder() unexpected error: %v", err)
			}
			if embedder == nil {
				t.Fatal("NewOpenAIEmbedder() returned nil embedder")
			}
		})
	}
}

func TestDimensionsForModel(t *testing.T) {
	tests := []struct {
		model      string
		dimensions int
	}{
		{"text-embedding-3-small", DimensionsTextEmbedding3Small},
		{"text-embedding-3-large", DimensionsTextEmbedding3Large},
		{"text-embedding-ada-002", DimensionsTextEmbeddingAda002},
		{"unknown-model", DimensionsTextEmbeddingAda002},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := dimensionsForModel(tt.model); got != tt.dimensions {
				t.Errorf("dimensionsForModel(%s) = %v, want %v", tt.model, got, tt.dimensions)
			}
		})
	}
}

func TestOpenAIEmbedder_Embed_RejectsEmptyText(t *testing.T) {
	embedder, err := NewOpenAIEmbedder(Config{APIKey: "test-key", Model: "text-embedding-3-small"})
	if err != nil {
		t.Fatalf("failed to create embedder: %v", err)
	}

	if _, err := embedder.Embed(context.Background(), ""); err == nil {
		t.Error("Embed() with empty text: expected error, got nil")
	}
}
