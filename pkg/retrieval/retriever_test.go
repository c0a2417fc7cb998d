// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package retrieval_test

import (
	"context"
	"testing"

	"finrag/pkg/retrieval"
	"finrag/pkg/treemodel"
)

type fakeEmbedder struct {
	vec []float32
}

func (f fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f.vec, nil
}
func (f fakeEmbedder) Dimensions() int { return len(f.vec) }

func buildSmallTree() *treemodel.Tree {
	tree := treemodel.NewTree()

	leafA := &treemodel.Node{ID: "leaf-0-0", Text: "apple content", Level: 0, Embedding: []float32{1, 0}}
	leafB := &treemodel.Node{ID: "leaf-0-1", Text: "banana content", Level: 0, Embedding: []float32{0, 1}}
	root := &treemodel.Node{ID: "L1-0", Text: "summary", Level: 1, Embedding: []float32{0.7, 0.7}, Children: []*treemodel.Node{leafA, leafB}}

	tree.AddNode(leafA)
	tree.AddNode(leafB)
	tree.AddNode(root)
	return tree
}

func TestRetrieve_EmptyTreeReturnsErrorWithoutCallingQA(t *testing.T) {
	r := retrieval.New(fakeEmbedder{vec: []float32{1, 0}})
	_, err := r.Retrieve(context.Background(), treemodel.NewTree(), "q", 5, retrieval.MethodHierarchical)
	if err != retrieval.ErrTreeNotBuilt {
		t.Fatalf("got %v, want ErrTreeNotBuilt", err)
	}
}

func TestRetrieve_HierarchicalFavorsCloserChild(t *testing.T) {
	tree := buildSmallTree()
	r := retrieval.New(fakeEmbedder{vec: []float32{1, 0}})

	result, err := r.Retrieve(context.Background(), tree, "apple?", 2, retrieval.MethodHierarchical)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Nodes) == 0 {
		t.Fatal("expected at least one retrieved node")
	}
	if result.Nodes[0].Node.ID != "leaf-0-0" {
		t.Errorf("top result = %s, want leaf-0-0 (closer to query vector)", result.Nodes[0].Node.ID)
	}
}

func TestRetrieve_FlattenedDeduplicatesAndCapsAtK(t *testing.T) {
	tree := buildSmallTree()
	r := retrieval.New(fakeEmbedder{vec: []float32{1, 0}})

	result, err := r.Retrieve(context.Background(), tree, "apple?", 2, retrieval.MethodFlattened)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2 (capped at k)", len(result.Nodes))
	}
	seen := map[string]bool{}
	for _, n := range result.Nodes {
		if seen[n.Node.ID] {
			t.Fatalf("duplicate node %s in flattened result", n.Node.ID)
		}
		seen[n.Node.ID] = true
	}
}

func TestAssembleContext_HeaderFormat(t *testing.T) {
	scored := []retrieval.Scored{
		{Node: &treemodel.Node{ID: "leaf-0-0", Level: 0, Text: "hello"}, Score: 0.9},
	}
	ctx := retrieval.AssembleContext(scored)
	want := "[L0 #leaf-0-0]\nhello"
	if ctx != want {
		t.Errorf("got %q, want %q", ctx, want)
	}
}

func TestPreview_TruncatesAt200(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	got := retrieval.Preview(string(long), 200)
	if len(got) != 200 {
		t.Errorf("got length %d, want 200", len(got))
	}
}
