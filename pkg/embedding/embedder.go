// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package embedding defines the Embedder provider contract (§6) and
// its concrete OpenAI-backed and Redis-cached implementations.
package embedding

import "context"

// Embedder produces a dense vector for a single text. Embed must be
// deterministic for a fixed provider version (§6).
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dimensions returns D, the vector length this provider produces.
	Dimensions() int
}

// Config contains configuration shared by embedding providers.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

func (c Config) withDefaults() Config {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 60
	}
	return c
}
