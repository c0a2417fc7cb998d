// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package persist implements the save/load persistence layout of §6:
// a mandatory JSON form (the contract), a mandatory binary form (an
// optimization), and index.json as the source of truth for dimension
// and level counts.
package persist

import (
	"finrag/pkg/persist/record"
	"finrag/pkg/treemodel"
)

// NodeRecord, IndexConfig and Index are aliases of the record package's
// types, re-exported here so callers of persist don't need to import
// the leaf package directly.
type (
	NodeRecord  = record.NodeRecord
	IndexConfig = record.IndexConfig
	Index       = record.Index
)

// ToRecords flattens tree into level-then-cluster ordered records.
func ToRecords(tree *treemodel.Tree) []NodeRecord {
	return record.ToRecords(tree)
}

// FromRecords rebuilds a Tree from its flattened records.
func FromRecords(records []NodeRecord) *treemodel.Tree {
	return record.FromRecords(records)
}

// BuildIndex computes the index.json contents for tree.
func BuildIndex(tree *treemodel.Tree, d int, cfg IndexConfig) Index {
	return record.BuildIndex(tree, d, cfg)
}
