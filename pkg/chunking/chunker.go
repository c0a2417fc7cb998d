// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package chunking

import (
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"

	"finrag/pkg/treemodel"
)

// Chunker splits document text into sentence-aligned, overlapping
// windows and attaches document-level metadata to every chunk.
type Chunker struct {
	cfg Config
	md  goldmark.Markdown
}

// New creates a Chunker. A zero Config falls back to DefaultConfig.
func New(cfg Config) *Chunker {
	return &Chunker{
		cfg: cfg.withDefaults(),
		md:  goldmark.New(),
	}
}

// token is a whitespace-delimited word's byte span within the
// document it was tokenized from.
type token struct {
	Start, End int
}

// tokenize splits document into whitespace-delimited words, recording
// each word's byte span so chunk text can be sliced back out of the
// original document.
func tokenize(document string) []token {
	var tokens []token
	start := -1
	for i, r := range document {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, token{Start: start, End: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{Start: start, End: len(document)})
	}
	return tokens
}

// Chunk splits a single document into ordered chunks, windowing over
// whitespace tokens (words) so ChunkSize/ChunkOverlap mean what the
// config says they mean. documentIndex is stitched into every chunk
// so downstream stages can form the deterministic leaf id
// (treemodel.LeafID).
func (c *Chunker) Chunk(documentIndex int, document string) []Chunk {
	if strings.TrimSpace(document) == "" {
		return nil
	}

	meta := DocumentMetadata(document)
	tokens := tokenize(document)
	if len(tokens) == 0 {
		return nil
	}

	structuralBoundaries := tokenIndices(c.structuralBoundaries(document), tokens)
	sentenceBoundaries := sentenceEndingTokens(document, tokens)

	var chunks []Chunk
	pos := 0
	idx := 0
	numTokens := len(tokens)
	tolerance := int(float64(c.cfg.ChunkSize) * c.cfg.BoundaryTolerance)

	for pos < numTokens {
		end := pos + c.cfg.ChunkSize
		if end > numTokens {
			end = numTokens
		}

		if end < numTokens {
			end = c.chooseBoundary(pos, end, tolerance, numTokens, structuralBoundaries, sentenceBoundaries)
		}
		if end <= pos {
			end = min(pos+c.cfg.ChunkSize, numTokens)
		}

		chunkText := strings.TrimSpace(document[tokens[pos].Start:tokens[end-1].End])
		if chunkText != "" {
			chunks = append(chunks, Chunk{
				DocumentIndex: documentIndex,
				Index:         idx,
				Text:          chunkText,
				StartPos:      pos,
				EndPos:        end,
				Metadata:      meta.Clone(),
			})
			idx++
		}

		if end >= numTokens {
			break
		}

		step := c.cfg.ChunkSize - c.cfg.ChunkOverlap
		if step <= 0 {
			step = c.cfg.ChunkSize / 2
		}
		next := pos + step
		if next <= pos {
			next = end
		}
		pos = next
	}

	return chunks
}

// chooseBoundary picks the cut point (a token index) closest to the
// target within the tolerance window, preferring (in order): a
// structural Markdown break, then a sentence terminator. Word
// boundaries are implicit at every candidate since chunking windows
// over tokens; falling through both tiers keeps the hard cut at
// target.
func (c *Chunker) chooseBoundary(start, target, tolerance, numTokens int, structural, sentence []int) int {
	lo := target - tolerance
	if lo < start {
		lo = start
	}
	hi := target + tolerance
	if hi > numTokens {
		hi = numTokens
	}

	if b, ok := nearestIn(structural, target, lo, hi); ok {
		return b
	}
	if b, ok := nearestIn(sentence, target, lo, hi); ok {
		return b
	}
	return target
}

func nearestIn(candidates []int, target, lo, hi int) (int, bool) {
	best := -1
	bestDist := -1
	for _, c := range candidates {
		if c < lo || c > hi {
			continue
		}
		d := abs(c - target)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best, best != -1
}

// tokenIndices maps byte offsets (e.g. Markdown block starts) to the
// token index of the first token beginning at or after each offset,
// so they can be compared against the word-indexed cut candidates.
func tokenIndices(byteOffsets []int, tokens []token) []int {
	if len(byteOffsets) == 0 {
		return nil
	}
	indices := make([]int, 0, len(byteOffsets))
	for _, offset := range byteOffsets {
		lo, hi := 0, len(tokens)
		for lo < hi {
			mid := (lo + hi) / 2
			if tokens[mid].Start < offset {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		indices = append(indices, lo)
	}
	return indices
}

// sentenceEndingTokens returns, for every token whose last byte is a
// sentence terminator, the token index immediately after it (the cut
// point that keeps the terminator at the end of the preceding chunk).
func sentenceEndingTokens(document string, tokens []token) []int {
	var ends []int
	for i, tok := range tokens {
		if tok.End == 0 {
			continue
		}
		switch document[tok.End-1] {
		case '.', '?', '!':
			ends = append(ends, i+1)
		}
	}
	return ends
}

// structuralBoundaries returns byte offsets of Markdown block breaks
// (heading starts, blank lines between paragraphs) when the document
// looks like Markdown. Plain-text filings return nil and fall back to
// the pure sentence-terminator rule.
func (c *Chunker) structuralBoundaries(document string) []int {
	if !looksLikeMarkdown(document) {
		return nil
	}

	reader := text.NewReader([]byte(document))
	doc := c.md.Parser().Parse(reader)

	var offsets []int
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		lines := n.Lines()
		if lines.Len() == 0 {
			continue
		}
		seg := lines.At(0)
		offsets = append(offsets, seg.Start)
	}
	return offsets
}

func looksLikeMarkdown(document string) bool {
	for _, line := range strings.Split(document, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "```") {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// LeafNodes converts a chunker's output into level-0 treemodel.Node
// entries, ready to be embedded and inserted into a Tree.
func LeafNodes(chunks []Chunk) []*treemodel.Node {
	nodes := make([]*treemodel.Node, 0, len(chunks))
	for _, ch := range chunks {
		nodes = append(nodes, &treemodel.Node{
			ID:       treemodel.LeafID(ch.DocumentIndex, ch.Index),
			Text:     ch.Text,
			Level:    0,
			Metadata: ch.Metadata,
		})
	}
	return nodes
}
