// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package clustering

import (
	"sort"

	"finrag/pkg/treemodel"
)

// Clusterer groups sibling nodes at a target level into clusters,
// combining the fixed metadata hierarchy with embedding-based
// sub-clustering for oversized groups (§4.2).
type Clusterer struct {
	cfg Config
}

// New creates a Clusterer.
func New(cfg Config) *Clusterer {
	return &Clusterer{cfg: cfg.withDefaults()}
}

// Cluster produces the ordered list of clusters for level, each
// cluster an ordered list of indices into nodes. Empty input returns
// an empty list; a single node returns one single-element cluster.
func (c *Clusterer) Cluster(nodes []*treemodel.Node, level int) [][]int {
	if len(nodes) == 0 {
		return nil
	}
	if len(nodes) == 1 {
		return [][]int{{0}}
	}

	groups := groupNodes(nodes, level, c.cfg.MetadataKeys)

	var out [][]int
	for _, g := range groups {
		subs := subcluster(nodes, g, c.cfg)
		// Within a group, sub-clusters sort by decreasing size, ties
		// broken by smallest minimum child index (§4.2's ordering rule).
		sort.SliceStable(subs, func(i, j int) bool {
			if len(subs[i]) != len(subs[j]) {
				return len(subs[i]) > len(subs[j])
			}
			return minOf(subs[i]) < minOf(subs[j])
		})
		out = append(out, subs...)
	}
	return out
}

func minOf(indices []int) int {
	m := indices[0]
	for _, v := range indices[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
