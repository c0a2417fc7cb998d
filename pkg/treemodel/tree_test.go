// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package treemodel_test

import (
	"testing"

	"finrag/pkg/treemodel"
)

func TestTree_RootRequiresSingleTopNode(t *testing.T) {
	tree := treemodel.NewTree()
	if _, err := tree.Root(); err == nil {
		t.Fatal("expected error on empty tree")
	}

	tree.AddNode(&treemodel.Node{ID: "L4-0", Level: 4})
	tree.AddNode(&treemodel.Node{ID: "L4-1", Level: 4})
	if _, err := tree.Root(); err == nil {
		t.Fatal("expected error when top level has more than one node")
	}
}

func TestTree_NodesPerLevelAndRoot(t *testing.T) {
	tree := treemodel.NewTree()
	leaf := &treemodel.Node{ID: treemodel.LeafID(0, 0), Level: 0}
	parent := &treemodel.Node{ID: treemodel.InteriorID(1, 0), Level: 1, Children: []*treemodel.Node{leaf}}
	tree.AddNode(leaf)
	tree.AddNode(parent)

	root, err := tree.Root()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.ID != parent.ID {
		t.Fatalf("got root %s, want %s", root.ID, parent.ID)
	}

	counts := tree.NodesPerLevel()
	if len(counts) != 2 || counts[0] != 1 || counts[1] != 1 {
		t.Fatalf("unexpected level counts: %v", counts)
	}

	if tree.TotalNodes() != 2 {
		t.Fatalf("got %d total nodes, want 2", tree.TotalNodes())
	}
}

func TestMetadata_Fields(t *testing.T) {
	m := treemodel.Metadata{
		treemodel.MetaSector:      "technology",
		treemodel.MetaNumChildren: 3,
	}

	if got := m.StringField(treemodel.MetaSector); got != "technology" {
		t.Fatalf("got %q, want technology", got)
	}
	if got := m.StringField(treemodel.MetaCompany); got != "" {
		t.Fatalf("got %q, want empty string for absent field", got)
	}
	if got := m.IntField(treemodel.MetaNumChildren); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
}
