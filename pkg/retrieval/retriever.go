// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package retrieval implements the two retrieval strategies of §4.4:
// hierarchical traversal (top-down, frontier-based) and flattened
// search (global top-k), plus cosine scoring and context assembly
// shared by both.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"finrag/pkg/embedding"
	"finrag/pkg/treemodel"
)

// Method selects a retrieval strategy.
type Method string

const (
	MethodHierarchical Method = "hierarchical"
	MethodFlattened     Method = "flattened"
)

// ErrTreeNotBuilt is returned when retrieve is called against an
// empty tree (§4.4.4).
var ErrTreeNotBuilt = errors.New("retrieval: tree not built")

// Scored pairs a node with its cosine similarity against the query.
type Scored struct {
	Node  *treemodel.Node
	Score float64
}

// Result is the outcome of a Retrieve call: scored nodes in
// decreasing-score order plus the assembled context string.
type Result struct {
	Nodes   []Scored
	Context string
}

// Retriever scores and assembles nodes for a query, backed by an
// Embedder for the query vector.
type Retriever struct {
	embedder embedding.Embedder
	// LevelWeights optionally scales a node's score by its level for
	// the flattened strategy (§4.4.2 step 3); nil/missing entries
	// default to 1.0.
	LevelWeights map[int]float64
}

// New creates a Retriever.
func New(embedder embedding.Embedder) *Retriever {
	return &Retriever{embedder: embedder}
}

// Retrieve runs the named strategy against tree for query, returning
// up to k scored nodes plus the assembled context (§4.4.1-§4.4.3).
func (r *Retriever) Retrieve(ctx context.Context, tree *treemodel.Tree, query string, k int, method Method) (Result, error) {
	if tree == nil || tree.IsEmpty() {
		return Result{}, ErrTreeNotBuilt
	}

	qvec, err := r.queryEmbedding(ctx, query)
	if err != nil {
		return Result{}, err
	}

	var scored []Scored
	switch method {
	case MethodFlattened:
		scored = r.flattenedSearch(tree, qvec, k)
	default:
		scored, err = r.hierarchicalTraversal(tree, qvec, k)
		if err != nil {
			return Result{}, err
		}
	}

	return Result{Nodes: scored, Context: AssembleContext(scored)}, nil
}

func (r *Retriever) queryEmbedding(ctx context.Context, query string) ([]float32, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retrieval: query embedding failed: %w", err)
	}
	return vec, nil
}

// hierarchicalTraversal implements §4.4.1.
func (r *Retriever) hierarchicalTraversal(tree *treemodel.Tree, qvec []float32, k int) ([]Scored, error) {
	root, err := tree.Root()
	if err != nil {
		return nil, fmt.Errorf("retrieval: %w", err)
	}

	frontier := []*treemodel.Node{root}
	var accumulator []Scored

	for hasChildren(frontier) {
		var candidates []*treemodel.Node
		for _, n := range frontier {
			candidates = append(candidates, n.Children...)
		}

		scored := scoreNodes(candidates, qvec)
		sortScored(scored)

		kPerLevel := k
		if kPerLevel > len(scored) {
			kPerLevel = len(scored)
		}
		retained := scored[:kPerLevel]

		accumulator = append(accumulator, retained...)

		frontier = frontier[:0]
		for _, s := range retained {
			frontier = append(frontier, s.Node)
		}
	}

	sortScored(accumulator)
	if k < len(accumulator) {
		accumulator = accumulator[:k]
	}
	return accumulator, nil
}

func hasChildren(nodes []*treemodel.Node) bool {
	for _, n := range nodes {
		if len(n.Children) > 0 {
			return true
		}
	}
	return false
}

// flattenedSearch implements §4.4.2.
func (r *Retriever) flattenedSearch(tree *treemodel.Tree, qvec []float32, k int) []Scored {
	all := tree.AllNodes()
	scored := scoreNodes(all, qvec)

	for i := range scored {
		w := 1.0
		if r.LevelWeights != nil {
			if lw, ok := r.LevelWeights[scored[i].Node.Level]; ok {
				w = lw
			}
		}
		scored[i].Score *= w
	}

	sortScored(scored)

	seen := make(map[string]bool, len(scored))
	var out []Scored
	for _, s := range scored {
		if seen[s.Node.ID] {
			continue
		}
		seen[s.Node.ID] = true
		out = append(out, s)
		if len(out) == k {
			break
		}
	}
	return out
}

func scoreNodes(nodes []*treemodel.Node, qvec []float32) []Scored {
	out := make([]Scored, len(nodes))
	for i, n := range nodes {
		out[i] = Scored{Node: n, Score: cosineSimilarity(qvec, n.Embedding)}
	}
	return out
}

// sortScored sorts by decreasing score, ties broken by lexicographic
// node id (§4.4.1 step 2).
func sortScored(scored []Scored) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Node.ID < scored[j].Node.ID
	})
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// AssembleContext concatenates result nodes into the context string
// of §4.4.3, each prefixed with "[L{level} #{id}]".
func AssembleContext(scored []Scored) string {
	var b strings.Builder
	for i, s := range scored {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[L%d #%s]\n%s", s.Node.Level, s.Node.ID, s.Node.Text)
	}
	return b.String()
}

// Preview truncates text to its first n runes, for the retrieved_nodes
// response shape of §6 (first 200 chars).
func Preview(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n])
}
