// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package clustering

import (
	"math"

	"finrag/pkg/treemodel"
)

// subcluster splits a metadata group too large for a single cluster
// into embedding-similarity sub-clusters, per §4.2 steps 1-3. indices
// are positions into the caller's full node slice; the returned
// groups use those same indices.
func subcluster(nodes []*treemodel.Node, indices []int, cfg Config) [][]int {
	if len(indices) <= cfg.MaxClusterSize {
		return [][]int{indices}
	}

	embeddings := make([][]float32, len(indices))
	for i, idx := range indices {
		embeddings[i] = nodes[idx].Embedding
	}

	reduced := randomProjection(embeddings, cfg.ReductionDim, cfg.RandomState)
	fit := fitBestK(reduced, cfg.MaxClusters, cfg.RandomState)

	buckets := make(map[int][]int)
	order := make([]int, 0)
	for localIdx, comp := range fit.assignments {
		if _, ok := buckets[comp]; !ok {
			order = append(order, comp)
		}
		buckets[comp] = append(buckets[comp], indices[localIdx])
	}

	return absorbSmallClusters(buckets, order, embeddings, indices, cfg.MinClusterSize)
}

// absorbSmallClusters merges components smaller than minSize into the
// nearest surviving cluster by centroid cosine distance (§4.2 step 3).
func absorbSmallClusters(buckets map[int][]int, order []int, embeddings [][]float32, indices []int, minSize int) [][]int {
	positionOf := make(map[int]int, len(indices))
	for pos, idx := range indices {
		positionOf[idx] = pos
	}

	var survivors, small []int
	for _, comp := range order {
		if len(buckets[comp]) < minSize && len(buckets) > 1 {
			small = append(small, comp)
		} else {
			survivors = append(survivors, comp)
		}
	}
	if len(survivors) == 0 {
		survivors = order
		small = nil
	}

	centroids := make(map[int][]float64)
	for _, comp := range survivors {
		centroids[comp] = centroidOf(buckets[comp], positionOf, embeddings)
	}

	for _, comp := range small {
		members := buckets[comp]
		target := nearestSurvivor(members, positionOf, embeddings, centroids)
		buckets[target] = append(buckets[target], members...)
		delete(buckets, comp)
	}

	out := make([][]int, 0, len(survivors))
	for _, comp := range survivors {
		if members, ok := buckets[comp]; ok {
			out = append(out, members)
		}
	}
	return out
}

func centroidOf(members []int, positionOf map[int]int, embeddings [][]float32) []float64 {
	if len(members) == 0 {
		return nil
	}
	dim := len(embeddings[positionOf[members[0]]])
	c := make([]float64, dim)
	for _, idx := range members {
		v := embeddings[positionOf[idx]]
		for d := 0; d < dim; d++ {
			c[d] += float64(v[d])
		}
	}
	for d := range c {
		c[d] /= float64(len(members))
	}
	return c
}

func nearestSurvivor(members []int, positionOf map[int]int, embeddings [][]float32, centroids map[int][]float64) int {
	memberCentroid := centroidOf(members, positionOf, embeddings)

	best := -1
	bestSim := math.Inf(-1)
	for comp, c := range centroids {
		sim := cosineSim64(memberCentroid, c)
		if sim > bestSim {
			bestSim = sim
			best = comp
		}
	}
	return best
}

func cosineSim64(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
