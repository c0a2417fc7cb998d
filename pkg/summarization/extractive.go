// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package summarization

import (
	"regexp"
	"strings"
)

var sentenceSplit = regexp.MustCompile(`[^.!?]+[.!?]+(?:\s+|$)|[^.!?]+$`)

// ExtractiveSummary implements the §4.3.2 fallback: the first N
// sentences of the concatenated input whose combined whitespace-token
// count stays within maxTokens. Used when the Summarizer provider
// exhausts its retries.
func ExtractiveSummary(texts []string, maxTokens int) string {
	joined := strings.Join(texts, "\n\n")
	sentences := sentenceSplit.FindAllString(joined, -1)

	var out []string
	total := 0
	for _, s := range sentences {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			continue
		}
		n := len(strings.Fields(trimmed))
		if total+n > maxTokens && len(out) > 0 {
			break
		}
		out = append(out, trimmed)
		total += n
		if total >= maxTokens {
			break
		}
	}
	if len(out) == 0 && len(sentences) > 0 {
		return strings.TrimSpace(sentences[0])
	}
	return strings.Join(out, " ")
}
