// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package summarization

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finrag/pkg/llm"
	"finrag/pkg/providererr"
)

// OpenAISummarizer asks a chat completion model for a summary of the
// concatenated input texts, bounded to maxTokens, falling back to
// ExtractiveSummary on provider exhaustion or an empty response
// (§6).
type OpenAISummarizer struct {
	provider llm.Provider
}

// NewOpenAISummarizer wraps an llm.Provider (typically
// pkg/llm/openai.Provider) as a Summarizer.
func NewOpenAISummarizer(provider llm.Provider) *OpenAISummarizer {
	return &OpenAISummarizer{provider: provider}
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, texts []string, maxTokens int) (string, error) {
	if len(texts) == 0 {
		return "", errors.New("summarization: no input texts")
	}

	var content string
	err := providererr.Retry(ctx, "summarization.Summarize", func(ctx context.Context) error {
		resp, err := s.provider.Complete(ctx, &llm.CompletionRequest{
			Messages: []llm.Message{
				{Role: "system", Content: "Summarize the following passages into a single concise summary."},
				{Role: "user", Content: strings.Join(texts, "\n\n")},
			},
			MaxTokens: maxTokens,
		})
		if err != nil {
			return providererr.Transient("summarization.Summarize", err)
		}
		if strings.TrimSpace(resp.Content) == "" {
			return providererr.Transient("summarization.Summarize", fmt.Errorf("empty completion"))
		}
		content = resp.Content
		return nil
	})
	if err != nil {
		return ExtractiveSummary(texts, maxTokens), nil
	}
	return content, nil
}
