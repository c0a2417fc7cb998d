// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package orchestrator implements the thin coordinator of §4.5:
// add_documents, query, save, load, and statistics, composed from a
// Chunker, a TreeBuilder, a Retriever, and a QA provider.
package orchestrator

import (
	"context"
	"fmt"
	"sync/atomic"

	"finrag/pkg/chunking"
	"finrag/pkg/persist"
	"finrag/pkg/qa"
	"finrag/pkg/retrieval"
	"finrag/pkg/treebuilder"
	"finrag/pkg/treemodel"
)

// Document is a single ingestion input: raw text plus an optional
// metadata override (§6, "Input interface from the ingestion layer").
type Document struct {
	Text     string
	Metadata map[string]string
}

// QueryResponse is the response object of §6.
type QueryResponse struct {
	Answer          string
	Context         string
	Question        string
	RetrievedNodes  []RetrievedNode
	RetrievalMethod retrieval.Method
}

// RetrievedNode is one entry of QueryResponse.RetrievedNodes.
type RetrievedNode struct {
	ID          string
	Level       int
	Score       float64
	TextPreview string
}

// Statistics is the response shape of the statistics() contract.
type Statistics struct {
	TotalNodes    int
	TreeDepth     int
	NodesPerLevel []int
}

// Orchestrator coordinates chunking, tree building, retrieval, and QA
// over a single tree. The tree is published atomically: add_documents
// builds a brand-new tree and swaps it in with one pointer store, so
// concurrent queries never observe a partially-built tree (§5).
type Orchestrator struct {
	chunker     *chunking.Chunker
	builder     *treebuilder.Builder
	retriever   *retrieval.Retriever
	qaProvider  qa.QA
	defaultK    int
	defaultMeth retrieval.Method

	tree atomic.Pointer[treemodel.Tree]
}

// New creates an Orchestrator from its collaborators.
func New(chunker *chunking.Chunker, builder *treebuilder.Builder, retriever *retrieval.Retriever, qaProvider qa.QA, defaultK int, defaultMethod retrieval.Method) *Orchestrator {
	if defaultK <= 0 {
		defaultK = 10
	}
	if defaultMethod == "" {
		defaultMethod = retrieval.MethodHierarchical
	}
	return &Orchestrator{
		chunker:     chunker,
		builder:     builder,
		retriever:   retriever,
		qaProvider:  qaProvider,
		defaultK:    defaultK,
		defaultMeth: defaultMethod,
	}
}

// AddDocuments chunks and builds a tree over documents, replacing any
// existing tree (§4.5).
func (o *Orchestrator) AddDocuments(ctx context.Context, documents []Document) error {
	var chunks []chunking.Chunk
	for i, doc := range documents {
		docChunks := o.chunker.Chunk(i, doc.Text)
		applyMetadataOverride(docChunks, doc.Metadata)
		chunks = append(chunks, docChunks...)
	}

	tree, err := o.builder.Build(ctx, chunks)
	if err != nil {
		return fmt.Errorf("orchestrator: add_documents: %w", err)
	}

	o.tree.Store(tree)
	return nil
}

// applyMetadataOverride overwrites regex-extracted metadata fields
// with caller-supplied values (§6.1), leaving unspecified fields as
// extracted.
func applyMetadataOverride(chunks []chunking.Chunk, override map[string]string) {
	if len(override) == 0 {
		return
	}
	for i := range chunks {
		for k, v := range override {
			if v == "" {
				continue
			}
			chunks[i].Metadata[k] = v
		}
	}
}

// Query runs the retriever and QA provider for question, returning the
// response object of §6 (§4.5).
func (o *Orchestrator) Query(ctx context.Context, question string, k int, method retrieval.Method) (QueryResponse, error) {
	tree := o.tree.Load()
	if k <= 0 {
		k = o.defaultK
	}
	if method == "" {
		method = o.defaultMeth
	}

	result, err := o.retriever.Retrieve(ctx, tree, question, k, method)
	if err != nil {
		return QueryResponse{}, fmt.Errorf("orchestrator: query: %w", err)
	}

	answer, err := o.qaProvider.Answer(ctx, result.Context, question)
	if err != nil {
		return QueryResponse{}, fmt.Errorf("orchestrator: query: answer: %w", err)
	}

	retrieved := make([]RetrievedNode, len(result.Nodes))
	for i, s := range result.Nodes {
		retrieved[i] = RetrievedNode{
			ID:          s.Node.ID,
			Level:       s.Node.Level,
			Score:       s.Score,
			TextPreview: retrieval.Preview(s.Node.Text, 200),
		}
	}

	return QueryResponse{
		Answer:          answer,
		Context:         result.Context,
		Question:        question,
		RetrievedNodes:  retrieved,
		RetrievalMethod: method,
	}, nil
}

// Save persists the current tree to dir (§4.5, §6).
func (o *Orchestrator) Save(dir string, d int, cfg persist.IndexConfig) error {
	tree := o.tree.Load()
	if tree == nil || tree.IsEmpty() {
		return fmt.Errorf("orchestrator: save: %w", retrieval.ErrTreeNotBuilt)
	}
	return persist.Save(dir, tree, d, cfg)
}

// Load restores a tree from dir without calling any external provider
// (§4.5).
func (o *Orchestrator) Load(dir string) (persist.Index, error) {
	tree, idx, err := persist.Load(dir)
	if err != nil {
		return persist.Index{}, fmt.Errorf("orchestrator: load: %w", err)
	}
	o.tree.Store(tree)
	return idx, nil
}

// Statistics reports the current tree's shape (§4.5).
func (o *Orchestrator) Statistics() Statistics {
	tree := o.tree.Load()
	if tree == nil {
		return Statistics{}
	}
	return Statistics{
		TotalNodes:    tree.TotalNodes(),
		TreeDepth:     tree.MaxLevel(),
		NodesPerLevel: tree.NodesPerLevel(),
	}
}
