// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package clustering

import (
	"sort"
	"strings"

	"finrag/pkg/treemodel"
)

// groupKeyFields returns the metadata fields (in config order) that
// participate in the fixed-hierarchy group key at level L, per spec
// §4.2's table. Level 4 uses no fields (one group for everything).
func groupKeyFields(level int, metadataKeys []string) []string {
	switch level {
	case 1:
		return metadataKeys // (sector, company, year)
	case 2:
		if len(metadataKeys) >= 2 {
			return metadataKeys[:2] // (sector, company)
		}
		return metadataKeys
	case 3:
		if len(metadataKeys) >= 1 {
			return metadataKeys[:1] // (sector)
		}
		return nil
	default:
		return nil // level 4: one group
	}
}

// groupKey builds the canonical group key string for a node's
// metadata over the given fields.
func groupKey(meta treemodel.Metadata, fields []string) string {
	if len(fields) == 0 {
		return ""
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = meta.StringField(f)
	}
	return strings.Join(parts, "\x1f")
}

// groupNodes partitions node indices into metadata groups at level L,
// preserving each group's member order (original sibling order), and
// returns the groups sorted per §4.2's ordering rule: lexicographic on
// the canonical key string, with "all"/"" sorting after concrete
// values is naturally satisfied because level 4 has a single empty-key
// group and lower levels never mix "all" with concrete values within
// one call.
func groupNodes(nodes []*treemodel.Node, level int, metadataKeys []string) [][]int {
	fields := groupKeyFields(level, metadataKeys)

	keys := make([]string, 0)
	groups := make(map[string][]int)
	for i, n := range nodes {
		k := groupKey(n.Metadata, fields)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], i)
	}

	sort.Strings(keys)

	ordered := make([][]int, 0, len(keys))
	for _, k := range keys {
		ordered = append(ordered, groups[k])
	}
	return ordered
}
