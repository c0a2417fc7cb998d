// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package qa

import (
	"context"
	"fmt"

	"finrag/pkg/llm"
	"finrag/pkg/providererr"
)

// OpenAIQA asks a chat completion model to answer question using the
// supplied context (§4.4.3).
type OpenAIQA struct {
	provider llm.Provider
}

// NewOpenAIQA wraps an llm.Provider (typically pkg/llm/openai.Provider)
// as a QA.
func NewOpenAIQA(provider llm.Provider) *OpenAIQA {
	return &OpenAIQA{provider: provider}
}

func (q *OpenAIQA) Answer(ctx context.Context, context_ string, question string) (string, error) {
	var answer string
	err := providererr.Retry(ctx, "qa.Answer", func(ctx context.Context) error {
		resp, err := q.provider.Complete(ctx, &llm.CompletionRequest{
			Messages: []llm.Message{
				{Role: "system", Content: "Answer the question using only the supplied context. If the context does not contain the answer, say so."},
				{Role: "user", Content: fmt.Sprintf("Context:\n%s\n\nQuestion: %s", context_, question)},
			},
		})
		if err != nil {
			return providererr.Transient("qa.Answer", err)
		}
		answer = resp.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("qa: answer failed: %w", err)
	}
	return answer, nil
}
