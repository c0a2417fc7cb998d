// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package chunking splits raw document text into overlapping,
// sentence-aligned windows and extracts document-level metadata
// (sector, company, year) that is attached to every chunk.
package chunking

import "finrag/pkg/treemodel"

// Chunk is a single contiguous slice of a document plus the metadata
// extracted once for the whole document.
type Chunk struct {
	DocumentIndex int
	Index         int
	Text          string
	// StartPos and EndPos are whitespace-token indices into the
	// document (not byte offsets), spanning [StartPos, EndPos).
	StartPos int
	EndPos   int
	Metadata treemodel.Metadata
}

// Config controls chunk size, overlap, and the tolerance window used
// when preferring a sentence boundary over a hard cut. ChunkSize and
// ChunkOverlap are both expressed in whitespace-delimited tokens
// (words), not bytes or characters.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
	// BoundaryTolerance is expressed as a fraction of ChunkSize, e.g.
	// 0.15 for the spec's "±15% of target size".
	BoundaryTolerance float64
}

// DefaultConfig returns the spec's default chunking configuration.
func DefaultConfig() Config {
	return Config{
		ChunkSize:         512,
		ChunkOverlap:      50,
		BoundaryTolerance: 0.15,
	}
}

func (c Config) withDefaults() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = 512
	}
	if c.ChunkOverlap < 0 {
		c.ChunkOverlap = 50
	}
	if c.ChunkOverlap >= c.ChunkSize {
		c.ChunkOverlap = c.ChunkSize / 4
	}
	if c.BoundaryTolerance <= 0 {
		c.BoundaryTolerance = 0.15
	}
	return c
}
