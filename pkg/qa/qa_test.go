// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package qa_test

import (
	"context"
	"errors"
	"testing"

	"finrag/pkg/llm"
	"finrag/pkg/qa"
)

type fakeProvider struct {
	content string
	err     error
	calls   int
}

func (f *fakeProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.content}, nil
}
func (f *fakeProvider) Name() string           { return "fake" }
func (f *fakeProvider) ModelName() string      { return "fake-model" }
func (f *fakeProvider) SupportsStreaming() bool { return false }

func TestOpenAIQA_Answer(t *testing.T) {
	provider := &fakeProvider{content: "42"}
	q := qa.NewOpenAIQA(provider)

	got, err := q.Answer(context.Background(), "[L0 #leaf-0-0] the answer is 42", "what is the answer?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "42" {
		t.Errorf("got %q, want %q", got, "42")
	}
}

func TestOpenAIQA_PropagatesFailureAfterRetries(t *testing.T) {
	provider := &fakeProvider{err: errors.New("down")}
	q := qa.NewOpenAIQA(provider)

	_, err := q.Answer(context.Background(), "context", "question")
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if provider.calls != 4 {
		t.Fatalf("got %d calls, want 4", provider.calls)
	}
}
