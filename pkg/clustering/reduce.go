// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package clustering

import (
	"math"
	"math/rand"
)

// randomProjection reduces each vector in data to targetDim via a
// fixed seeded Gaussian random projection (Johnson-Lindenstrauss
// style). It stands in for the spec's "UMAP-style manifold reduction"
// — see DESIGN.md for why a full UMAP port isn't used here — while
// satisfying the same determinism requirement: a fixed seed always
// produces the same projection matrix, so repeated builds over
// identical embeddings reduce to identical coordinates.
func randomProjection(data [][]float32, targetDim int, seed int64) [][]float64 {
	if len(data) == 0 {
		return nil
	}
	srcDim := len(data[0])
	if targetDim >= srcDim {
		out := make([][]float64, len(data))
		for i, v := range data {
			row := make([]float64, srcDim)
			for j, x := range v {
				row[j] = float64(x)
			}
			out[i] = row
		}
		return out
	}

	rng := rand.New(rand.NewSource(seed))
	proj := make([][]float64, srcDim)
	for i := range proj {
		row := make([]float64, targetDim)
		for j := range row {
			row[j] = rng.NormFloat64()
		}
		proj[i] = row
	}

	scale := 1.0
	if targetDim > 0 {
		scale = 1.0 / math.Sqrt(float64(targetDim))
	}

	out := make([][]float64, len(data))
	for i, v := range data {
		row := make([]float64, targetDim)
		for j := 0; j < targetDim; j++ {
			var sum float64
			for d := 0; d < srcDim; d++ {
				sum += float64(v[d]) * proj[d][j]
			}
			row[j] = sum * scale
		}
		out[i] = row
	}
	return out
}

