// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package record defines the on-disk node/index shapes shared by
// jsonstore and binarystore, kept separate from package persist so
// neither store package needs to import its own orchestrator (§6).
package record

import "finrag/pkg/treemodel"

// NodeRecord is the on-disk shape of a single node: (id, level, text,
// embedding, parent_id, metadata), per §6.
type NodeRecord struct {
	ID        string                 `json:"id"`
	Level     int                    `json:"level"`
	Text      string                 `json:"text"`
	Embedding []float32              `json:"embedding"`
	ParentID  string                 `json:"parent_id,omitempty"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// IndexConfig mirrors the build configuration captured in index.json,
// so a reloaded tree can report the settings it was built with.
type IndexConfig struct {
	ChunkSize           int `json:"chunk_size"`
	ChunkOverlap        int `json:"chunk_overlap"`
	MaxDepth            int `json:"max_depth"`
	ReductionDimension  int `json:"reduction_dimension"`
	MaxClusters         int `json:"max_clusters"`
	MinClusterSize      int `json:"min_cluster_size"`
	MaxClusterSize      int `json:"max_cluster_size"`
	SummarizationLength int `json:"summarization_length"`
}

// Index is the contents of index.json, the source of truth for D and
// level counts (§6).
type Index struct {
	D          int         `json:"d"`
	TotalNodes int         `json:"total_nodes"`
	Levels     []int       `json:"levels"`
	Config     IndexConfig `json:"config"`
}

// ToRecords flattens tree into level-then-cluster ordered records,
// suitable for either on-disk form.
func ToRecords(tree *treemodel.Tree) []NodeRecord {
	parentOf := make(map[string]string)
	for _, n := range tree.AllNodes() {
		for _, c := range n.Children {
			parentOf[c.ID] = n.ID
		}
	}

	nodes := tree.AllNodes()
	records := make([]NodeRecord, len(nodes))
	for i, n := range nodes {
		records[i] = NodeRecord{
			ID:        n.ID,
			Level:     n.Level,
			Text:      n.Text,
			Embedding: n.Embedding,
			ParentID:  parentOf[n.ID],
			Metadata:  n.Metadata,
		}
	}
	return records
}

// FromRecords rebuilds a Tree from its flattened records, relinking
// children by parent_id. Records are expected in level-then-cluster
// order (as ToRecords writes them); every node is created first, then
// each child is appended to its parent in record order.
func FromRecords(records []NodeRecord) *treemodel.Tree {
	tree := treemodel.NewTree()
	byID := make(map[string]*treemodel.Node, len(records))
	nodes := make([]*treemodel.Node, len(records))

	for i, rec := range records {
		meta := treemodel.Metadata{}
		for k, v := range rec.Metadata {
			meta[k] = normalizeMetaValue(v)
		}
		node := &treemodel.Node{
			ID:        rec.ID,
			Text:      rec.Text,
			Embedding: rec.Embedding,
			Level:     rec.Level,
			Metadata:  meta,
		}
		byID[rec.ID] = node
		nodes[i] = node
		tree.AddNode(node)
	}

	for i, rec := range records {
		if rec.ParentID == "" {
			continue
		}
		if parent, ok := byID[rec.ParentID]; ok {
			parent.Children = append(parent.Children, nodes[i])
		}
	}
	return tree
}

// normalizeMetaValue coerces JSON's float64 back to int for the
// diagnostic integer fields (num_children, cluster_idx), since
// encoding/json always decodes numbers as float64 into interface{}.
func normalizeMetaValue(v interface{}) interface{} {
	if f, ok := v.(float64); ok && f == float64(int(f)) {
		return int(f)
	}
	return v
}

// BuildIndex computes the index.json contents for tree.
func BuildIndex(tree *treemodel.Tree, d int, cfg IndexConfig) Index {
	return Index{
		D:          d,
		TotalNodes: tree.TotalNodes(),
		Levels:     tree.NodesPerLevel(),
		Config:     cfg,
	}
}
