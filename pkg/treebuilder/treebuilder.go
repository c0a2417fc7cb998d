// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package treebuilder implements build_tree (§4.3): level-0 embedding
// of chunks, then repeated clustering, summarization, and re-embedding
// up to max_depth, with bounded per-level concurrency.
package treebuilder

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"finrag/pkg/chunking"
	"finrag/pkg/clustering"
	"finrag/pkg/embedding"
	"finrag/pkg/summarization"
	"finrag/pkg/treemodel"
)

// Config controls the tree builder's depth, clustering behavior, and
// concurrency limits.
type Config struct {
	MaxDepth             int
	SummarizationLength  int
	ProviderParallelism  int
	Clustering           clustering.Config
}

// DefaultConfig returns the spec's default tree-builder configuration.
func DefaultConfig() Config {
	return Config{
		MaxDepth:            treemodel.MaxLevel,
		SummarizationLength: 200,
		ProviderParallelism: 8,
		Clustering:          clustering.DefaultConfig(),
	}
}

func (c Config) withDefaults() Config {
	if c.MaxDepth <= 0 {
		c.MaxDepth = treemodel.MaxLevel
	}
	if c.SummarizationLength <= 0 {
		c.SummarizationLength = 200
	}
	if c.ProviderParallelism <= 0 {
		c.ProviderParallelism = 8
	}
	return c
}

// Builder assembles a Tree from chunks, calling out to an Embedder and
// Summarizer per §4.3.
type Builder struct {
	cfg        Config
	embedder   embedding.Embedder
	summarizer summarization.Summarizer
	clusterer  *clustering.Clusterer
}

// New creates a Builder.
func New(cfg Config, embedder embedding.Embedder, summarizer summarization.Summarizer) *Builder {
	cfg = cfg.withDefaults()
	return &Builder{
		cfg:        cfg,
		embedder:   embedder,
		summarizer: summarizer,
		clusterer:  clustering.New(cfg.Clustering),
	}
}

// Build runs the full algorithm of §4.3 over the given chunks,
// returning the assembled Tree (with any build warnings recorded on
// it per §4.3.2).
func (b *Builder) Build(ctx context.Context, chunks []chunking.Chunk) (*treemodel.Tree, error) {
	tree := treemodel.NewTree()

	level0, warnings, err := b.buildLevel0(ctx, chunks)
	if err != nil {
		return nil, err
	}
	tree.Warnings = append(tree.Warnings, warnings...)
	for _, n := range level0 {
		tree.AddNode(n)
	}

	current := level0
	for level := 1; level <= b.cfg.MaxDepth; level++ {
		if len(current) == 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("treebuilder: canceled before level %d: %w", level, err)
		}

		parents, err := b.buildLevel(ctx, current, level)
		if err != nil {
			return nil, fmt.Errorf("treebuilder: level %d: %w", level, err)
		}
		for _, n := range parents {
			tree.AddNode(n)
		}
		current = parents

		if len(parents) == 1 {
			break // root reached; levels beyond are skipped (§4.3 step 2).
		}
	}

	return tree, nil
}

// buildLevel0 embeds every non-empty chunk and creates its level-0
// node, skipping and recording malformed (empty-text) chunks per
// §4.3.2.
func (b *Builder) buildLevel0(ctx context.Context, chunks []chunking.Chunk) ([]*treemodel.Node, []string, error) {
	type indexed struct {
		pos   int
		chunk chunking.Chunk
	}

	var valid []indexed
	var warnings []string
	for i, ch := range chunks {
		if strings.TrimSpace(ch.Text) == "" {
			warnings = append(warnings, fmt.Sprintf("level 0: skipped malformed (empty) chunk at position %d", i))
			continue
		}
		valid = append(valid, indexed{pos: i, chunk: ch})
	}

	nodes := make([]*treemodel.Node, len(valid))
	type result struct {
		idx int
		vec []float32
		err error
	}

	results := make(chan result, len(valid))
	sem := make(chan struct{}, b.cfg.ProviderParallelism)
	var wg sync.WaitGroup

	for i, v := range valid {
		i, v := i, v
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			vec, err := b.embedder.Embed(ctx, v.chunk.Text)
			results <- result{idx: i, vec: vec, err: err}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for res := range results {
		if res.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("chunk %s: %w",
				treemodel.LeafID(valid[res.idx].chunk.DocumentIndex, valid[res.idx].chunk.Index), res.err)
			continue
		}
		v := valid[res.idx]
		nodes[res.idx] = &treemodel.Node{
			ID:        treemodel.LeafID(v.chunk.DocumentIndex, v.chunk.Index),
			Text:      v.chunk.Text,
			Embedding: res.vec,
			Level:     0,
			Metadata:  v.chunk.Metadata,
		}
	}
	if firstErr != nil {
		return nil, nil, firstErr
	}

	return nodes, warnings, nil
}

// buildLevel runs one iteration of §4.3 step 2 over the given
// children, producing the next level's parent nodes in cluster order.
func (b *Builder) buildLevel(ctx context.Context, children []*treemodel.Node, level int) ([]*treemodel.Node, error) {
	clusters := b.clusterer.Cluster(children, level)
	if len(clusters) == 0 {
		return nil, nil
	}

	parents := make([]*treemodel.Node, len(clusters))
	errs := make([]error, len(clusters))

	sem := make(chan struct{}, b.cfg.ProviderParallelism)
	var wg sync.WaitGroup

	for ci, cluster := range clusters {
		ci, cluster := ci, cluster
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			node, err := b.buildParent(ctx, children, cluster, level, ci)
			if err != nil {
				errs[ci] = err
				return
			}
			parents[ci] = node
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return parents, nil
}

// buildParent concatenates a cluster's child texts, summarizes,
// re-embeds, and computes inherited metadata per §4.3.1.
func (b *Builder) buildParent(ctx context.Context, children []*treemodel.Node, cluster []int, level, clusterIdx int) (*treemodel.Node, error) {
	clusterChildren := make([]*treemodel.Node, len(cluster))
	texts := make([]string, len(cluster))
	for i, idx := range cluster {
		clusterChildren[i] = children[idx]
		texts[i] = children[idx].Text
	}

	summary, err := b.summarizer.Summarize(ctx, texts, b.cfg.SummarizationLength)
	if err != nil {
		return nil, fmt.Errorf("summarize cluster %d: %w", clusterIdx, err)
	}

	vec, err := b.embedder.Embed(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("embed summary for cluster %d: %w", clusterIdx, err)
	}

	meta := InheritMetadata(clusterChildren, level)
	meta[treemodel.MetaNumChildren] = len(clusterChildren)
	meta[treemodel.MetaClusterIdx] = clusterIdx

	return &treemodel.Node{
		ID:        treemodel.InteriorID(level, clusterIdx),
		Text:      summary,
		Embedding: vec,
		Level:     level,
		Children:  clusterChildren,
		Metadata:  meta,
	}, nil
}

// InheritMetadata computes a parent's (sector, company, year) fields
// from its children per §4.3.1 and §3 invariant 3 (the fixed squash
// schedule: level 2 squashes year, level 3 additionally squashes
// company, level 4 squashes everything).
func InheritMetadata(children []*treemodel.Node, level int) treemodel.Metadata {
	meta := treemodel.Metadata{}
	for _, field := range []string{treemodel.MetaSector, treemodel.MetaCompany, treemodel.MetaYear} {
		if squashed(field, level) {
			meta[field] = treemodel.ValueAll
			continue
		}
		meta[field] = majorityValue(children, field)
	}
	return meta
}

func squashed(field string, level int) bool {
	switch field {
	case treemodel.MetaYear:
		return level >= 2
	case treemodel.MetaCompany:
		return level >= 3
	case treemodel.MetaSector:
		return level >= 4
	default:
		return false
	}
}

// majorityValue returns the most common non-"unknown" value of field
// across children, ties broken by first appearance in child order; if
// no valid values exist, returns "unknown".
func majorityValue(children []*treemodel.Node, field string) string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	for _, c := range children {
		v := c.Metadata.StringField(field)
		if v == "" || v == treemodel.ValueUnknown {
			continue
		}
		if _, ok := firstSeen[v]; !ok {
			firstSeen[v] = order
			order++
		}
		counts[v]++
	}
	if len(counts) == 0 {
		return treemodel.ValueUnknown
	}

	best := ""
	bestCount := -1
	bestOrder := -1
	for v, n := range counts {
		if n > bestCount || (n == bestCount && firstSeen[v] < bestOrder) {
			best = v
			bestCount = n
			bestOrder = firstSeen[v]
		}
	}
	return best
}

