// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package parser

import "io"

// ParserRegistry dispatches to a Parser by file extension.
type ParserRegistry struct {
	parsers map[string]Parser
}

// NewParserRegistry creates an empty registry.
func NewParserRegistry() *ParserRegistry {
	return &ParserRegistry{parsers: make(map[string]Parser)}
}

// Register adds p under every extension it reports support for.
func (r *ParserRegistry) Register(p Parser) {
	for _, ext := range p.SupportedFormats() {
		r.parsers[ext] = p
	}
}

// GetParser returns the parser registered for extension, if any.
func (r *ParserRegistry) GetParser(extension string) (Parser, bool) {
	p, ok := r.parsers[extension]
	return p, ok
}

// ParseFile parses reader using the parser registered for extension,
// falling back to a plain-text parse when the extension is
// unrecognized.
func (r *ParserRegistry) ParseFile(reader io.Reader, sourcePath, extension string) (*Document, error) {
	if p, ok := r.GetParser(extension); ok {
		return p.Parse(reader, sourcePath)
	}
	return NewTextParser().Parse(reader, sourcePath)
}

// NewDefaultRegistry returns a registry with text, Markdown, HTML, and
// PDF parsers registered.
func NewDefaultRegistry() *ParserRegistry {
	r := NewParserRegistry()
	r.Register(NewTextParser())
	r.Register(NewMarkdownParser())
	r.Register(NewHTMLParser())
	r.Register(NewPDFParser())
	return r
}
