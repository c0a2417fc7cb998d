// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package treemodel defines the Node/Tree data model shared by the
// clustering, tree-building, retrieval, and persistence packages.
package treemodel

import "fmt"

// Sentinel metadata values used across the fixed hierarchy.
const (
	ValueAll     = "all"
	ValueUnknown = "unknown"
)

// Recognized metadata keys. Additional keys are tolerated in Metadata
// but only these participate in the fixed hierarchy grouping rules.
const (
	MetaSector      = "sector"
	MetaCompany     = "company"
	MetaYear        = "year"
	MetaNumChildren = "num_children"
	MetaClusterIdx  = "cluster_idx"
)

// MaxLevel is the highest interior level a tree can reach (§3).
const MaxLevel = 4

// Metadata is the per-node attribute map described in spec §3. Values
// for sector/company/year are either concrete domain strings, the
// sentinel "all" (aggregated away at this level), or "unknown" (never
// extracted). num_children and cluster_idx are diagnostic integers
// stored as int, not string.
type Metadata map[string]interface{}

// StringField reads a string-valued metadata field, defaulting to the
// empty string if absent or of the wrong type.
func (m Metadata) StringField(key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// IntField reads an int-valued metadata field, defaulting to 0.
func (m Metadata) IntField(key string) int {
	if v, ok := m[key]; ok {
		if i, ok := v.(int); ok {
			return i
		}
	}
	return 0
}

// Clone returns a shallow copy of the metadata map.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Node is the sole tree entity (spec §3). Nodes are created exclusively
// by the tree builder and are never mutated after construction.
type Node struct {
	ID        string
	Text      string
	Embedding []float32
	Level     int
	Children  []*Node
	Metadata  Metadata
}

// LeafID formats the deterministic id of a level-0 node, per spec §3:
// ("leaf", document_index, chunk_index).
func LeafID(documentIndex, chunkIndex int) string {
	return fmt.Sprintf("leaf-%d-%d", documentIndex, chunkIndex)
}

// InteriorID formats the deterministic id of a level>=1 node, per spec
// §3: (level, cluster_index).
func InteriorID(level, clusterIndex int) string {
	return fmt.Sprintf("L%d-%d", level, clusterIndex)
}

// IsLeaf reports whether the node is a level-0 chunk node.
func (n *Node) IsLeaf() bool {
	return n.Level == 0
}
