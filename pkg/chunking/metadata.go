// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package chunking

import (
	"regexp"
	"strings"

	"finrag/pkg/treemodel"
)

var yearPattern = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

// companyPattern matches a capitalized phrase of 1-6 words ending in a
// recognized legal suffix, e.g. "Apple Inc." or "JPMorgan Chase & Co.".
// The suffix is followed by either its own trailing period (consumed
// into the match, since "Co." and "Inc." are the canonical spellings)
// or a plain word boundary when the source text omits the period.
var companyPattern = regexp.MustCompile(
	`\b([A-Z][\w&'.-]*(?:\s+[A-Z&][\w&'.-]*){0,5}\s+(?:Inc|Corp|Corporation|Ltd|LLC|Co|Company|Group|PLC|plc|AG|SA)(?:\.|\b))`,
)

// lexiconOrder lists the case-insensitive keywords of each canonical
// sector value. Entries are checked in declared order and the first
// entry with any keyword anywhere in the document wins; where in the
// document a keyword occurs does not matter.
var lexiconOrder = []struct {
	keywords []string
	sector   string
}{
	{[]string{"technology", "software"}, "technology"},
	{[]string{"bank", "financial", "insurance"}, "finance"},
	{[]string{"healthcare", "pharmaceutical"}, "healthcare"},
	{[]string{"energy", "oil", "gas"}, "energy"},
	{[]string{"retail"}, "retail"},
	{[]string{"manufacturing"}, "manufacturing"},
	{[]string{"real estate"}, "real estate"},
	{[]string{"telecom"}, "telecom"},
}

// DocumentMetadata extracts the three recognized metadata fields from
// a whole document body, per spec §4.1. Extraction never fails: any
// field with no match is stored as "unknown".
func DocumentMetadata(document string) treemodel.Metadata {
	return treemodel.Metadata{
		treemodel.MetaYear:    extractYear(document),
		treemodel.MetaCompany: extractCompany(document),
		treemodel.MetaSector:  extractSector(document),
	}
}

func extractYear(document string) string {
	m := yearPattern.FindString(document)
	if m == "" {
		return treemodel.ValueUnknown
	}
	return m
}

func extractCompany(document string) string {
	m := companyPattern.FindString(document)
	if m == "" {
		return treemodel.ValueUnknown
	}
	// Trailing periods are trimmed only when not a legal-suffix period
	// already consumed by the pattern itself (e.g. "Inc.", "Co.").
	return strings.TrimRight(m, " \t\n,;:")
}

// extractSector scans the lexicon in its declared order and returns
// the sector of the first entry with any keyword present in the
// document, per spec §4.1 ("first match wins").
func extractSector(document string) string {
	lower := strings.ToLower(document)

	for _, entry := range lexiconOrder {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.sector
			}
		}
	}
	return treemodel.ValueUnknown
}
