// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package orchestrator_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"finrag/pkg/chunking"
	"finrag/pkg/orchestrator"
	"finrag/pkg/persist"
	"finrag/pkg/retrieval"
	"finrag/pkg/treebuilder"
)

type fakeEmbedder struct{ dim int }

func (f fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	v := make([]float32, f.dim)
	for i := range v {
		v[i] = float32(len(text)%7) + float32(i)*0.01
	}
	return v, nil
}
func (f fakeEmbedder) Dimensions() int { return f.dim }

type fakeSummarizer struct{}

func (fakeSummarizer) Summarize(ctx context.Context, texts []string, maxTokens int) (string, error) {
	return fmt.Sprintf("SUM(%d)", len(texts)), nil
}

type fakeQA struct{}

func (fakeQA) Answer(ctx context.Context, context string, question string) (string, error) {
	return "answer to: " + question, nil
}

func newTestOrchestrator() *orchestrator.Orchestrator {
	embedder := fakeEmbedder{dim: 4}
	chunker := chunking.New(chunking.DefaultConfig())
	builder := treebuilder.New(treebuilder.DefaultConfig(), embedder, fakeSummarizer{})
	retriever := retrieval.New(embedder)
	return orchestrator.New(chunker, builder, retriever, fakeQA{}, 10, retrieval.MethodHierarchical)
}

func TestOrchestrator_QueryBeforeAddDocuments_ReturnsTreeNotBuilt(t *testing.T) {
	o := newTestOrchestrator()
	_, err := o.Query(context.Background(), "what happened?", 5, "")
	if !errors.Is(err, retrieval.ErrTreeNotBuilt) {
		t.Fatalf("got error %v, want ErrTreeNotBuilt", err)
	}
}

func TestOrchestrator_AddDocumentsThenQuery(t *testing.T) {
	o := newTestOrchestrator()
	docs := []orchestrator.Document{
		{Text: "Apple Inc. 2023 Annual Report - Technology Sector. Revenue was 383.3 billion dollars this year."},
		{Text: "JPMorgan Chase & Co. 2023 Annual Report - Finance Sector. Revenue was 158.1 billion dollars this year."},
	}

	if err := o.AddDocuments(context.Background(), docs); err != nil {
		t.Fatalf("AddDocuments() error: %v", err)
	}

	resp, err := o.Query(context.Background(), "What was the revenue?", 3, retrieval.MethodFlattened)
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if resp.Answer == "" {
		t.Error("expected non-empty answer")
	}
	if resp.RetrievalMethod != retrieval.MethodFlattened {
		t.Errorf("got method %s, want flattened", resp.RetrievalMethod)
	}
	if len(resp.RetrievedNodes) == 0 {
		t.Error("expected at least one retrieved node")
	}

	stats := o.Statistics()
	if stats.TotalNodes == 0 {
		t.Error("expected non-zero total nodes after AddDocuments")
	}
}

func TestOrchestrator_AddDocuments_MetadataOverride(t *testing.T) {
	o := newTestOrchestrator()
	docs := []orchestrator.Document{
		{
			Text:     "Some filing text with no obvious company or sector markers.",
			Metadata: map[string]string{"sector": "energy", "company": "Acme Corp", "year": "2022"},
		},
	}

	if err := o.AddDocuments(context.Background(), docs); err != nil {
		t.Fatalf("AddDocuments() error: %v", err)
	}

	stats := o.Statistics()
	if stats.TotalNodes == 0 {
		t.Fatal("expected nodes after ingesting one document")
	}
}

func TestOrchestrator_SaveLoad_Roundtrip(t *testing.T) {
	o := newTestOrchestrator()
	docs := []orchestrator.Document{
		{Text: "Apple Inc. 2023 Annual Report - Technology Sector. Strong iPhone sales drove revenue growth."},
	}
	if err := o.AddDocuments(context.Background(), docs); err != nil {
		t.Fatalf("AddDocuments() error: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "tree")
	if err := o.Save(dir, 4, persist.IndexConfig{ChunkSize: 512, MaxDepth: 4}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded := newTestOrchestrator()
	if _, err := loaded.Load(dir); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	stats := loaded.Statistics()
	if stats.TotalNodes == 0 {
		t.Error("expected non-zero stats after Load")
	}
}

func TestOrchestrator_Save_EmptyTree_ReturnsError(t *testing.T) {
	o := newTestOrchestrator()
	dir := t.TempDir()
	if err := o.Save(dir, 4, persist.IndexConfig{}); err == nil {
		t.Error("expected error saving an empty tree")
	}
}
