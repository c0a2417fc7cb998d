// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package clustering groups sibling nodes into clusters for the next
// tree level, using the fixed metadata hierarchy first and falling
// back to embedding-based sub-clustering when a metadata group grows
// past max_cluster_size.
package clustering

// Config controls the sub-clustering procedure used once a metadata
// group exceeds MaxClusterSize.
type Config struct {
	MaxClusterSize    int
	MinClusterSize    int
	MaxClusters       int
	ReductionDim      int
	RandomState       int64
	MetadataKeys      []string
}

// DefaultConfig returns the spec's default clustering configuration.
func DefaultConfig() Config {
	return Config{
		MaxClusterSize: 100,
		MinClusterSize: 5,
		MaxClusters:    5,
		ReductionDim:   10,
		RandomState:    42,
		MetadataKeys:   []string{"sector", "company", "year"},
	}
}

func (c Config) withDefaults() Config {
	if c.MaxClusterSize <= 0 {
		c.MaxClusterSize = 100
	}
	if c.MinClusterSize <= 0 {
		c.MinClusterSize = 5
	}
	if c.MaxClusters <= 0 {
		c.MaxClusters = 5
	}
	if c.ReductionDim <= 0 {
		c.ReductionDim = 10
	}
	if len(c.MetadataKeys) == 0 {
		c.MetadataKeys = []string{"sector", "company", "year"}
	}
	return c
}
