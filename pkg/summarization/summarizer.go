// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package summarization defines the Summarizer provider contract (§6)
// used by the tree builder to collapse a cluster's children into a
// single parent text, plus a deterministic extractive fallback.
package summarization

import "context"

// Summarizer reduces an ordered list of child texts to a single
// summary bounded by maxTokens. Summarize must behave as a pure
// function: identical input yields identical output within a single
// build (§4.3).
type Summarizer interface {
	Summarize(ctx context.Context, texts []string, maxTokens int) (string, error)
}
