// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package qa defines the QA provider contract (§6) used by the
// orchestrator to turn the retriever's assembled context and a question into an answer.
package qa

import "context"

// QA answers a question given an assembled context string.
type QA interface {
	Answer(ctx context.Context, context string, question string) (string, error)
}
