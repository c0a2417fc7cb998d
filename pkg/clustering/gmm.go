// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package clustering

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// gmmResult is the outcome of one spherical-covariance Gaussian mixture
// fit: the component count, its BIC, and the hard assignment of every
// point to its highest-probability component. The fitted centroids and
// the single pooled variance are not retained.
type gmmResult struct {
	assignments []int
	k           int
	bic         float64
}

// fitBestK fits a spherical GMM for every k in [1, maxK] via seeded
// Lloyd iteration (hard EM) and returns the fit minimizing BIC, per
// §4.2 ("Estimate the number of clusters K by minimising BIC over a
// Gaussian mixture across candidate K ... with random_state fixed for
// determinism").
func fitBestK(data [][]float64, maxK int, seed int64) gmmResult {
	n := len(data)
	if n == 0 {
		return gmmResult{}
	}
	if maxK > n {
		maxK = n
	}
	if maxK < 1 {
		maxK = 1
	}

	best := gmmResult{bic: math.Inf(1)}
	for k := 1; k <= maxK; k++ {
		fit := fitK(data, k, seed)
		if fit.bic < best.bic {
			best = fit
		}
	}
	return best
}

func fitK(data [][]float64, k int, seed int64) gmmResult {
	n := len(data)
	dim := len(data[0])
	if k >= n {
		assignments := make([]int, n)
		for i := range assignments {
			assignments[i] = i
		}
		return gmmResult{assignments: assignments, k: n, bic: math.Inf(1)}
	}

	rng := rand.New(rand.NewSource(seed + int64(k)*1_000_003))
	centroids := kMeansPlusPlusInit(data, k, rng)

	assignments := make([]int, n)
	for iter := 0; iter < 50; iter++ {
		changed := false
		for i, p := range data {
			c := nearestCentroid(p, centroids)
			if assignments[i] != c {
				assignments[i] = c
				changed = true
			}
		}
		centroids = recomputeCentroids(data, assignments, k, dim)
		if !changed && iter > 0 {
			break
		}
	}

	variance := pooledVariance(data, assignments, centroids, dim)
	logLik := logLikelihood(data, assignments, centroids, variance, dim)
	numParams := float64(k*(dim+1) + (k - 1))
	bic := -2*logLik + numParams*math.Log(float64(n))

	return gmmResult{assignments: assignments, k: k, bic: bic}
}

func kMeansPlusPlusInit(data [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(data)
	centroids := make([][]float64, 0, k)
	first := rng.Intn(n)
	centroids = append(centroids, append([]float64(nil), data[first]...))

	dists := make([]float64, n)
	for len(centroids) < k {
		var total float64
		for i, p := range data {
			d := sqDistToNearest(p, centroids)
			dists[i] = d
			total += d
		}
		if total == 0 {
			idx := len(centroids) % n
			centroids = append(centroids, append([]float64(nil), data[idx]...))
			continue
		}
		target := rng.Float64() * total
		var cum float64
		chosen := n - 1
		for i, d := range dists {
			cum += d
			if cum >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, append([]float64(nil), data[chosen]...))
	}
	return centroids
}

func sqDistToNearest(p []float64, centroids [][]float64) float64 {
	best := math.Inf(1)
	for _, c := range centroids {
		d := sqDist(p, c)
		if d < best {
			best = d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range centroids {
		d := sqDist(p, c)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func recomputeCentroids(data [][]float64, assignments []int, k, dim int) [][]float64 {
	sums := make([][]float64, k)
	counts := make([]int, k)
	for i := range sums {
		sums[i] = make([]float64, dim)
	}
	for i, p := range data {
		c := assignments[i]
		floats.Add(sums[c], p)
		counts[c]++
	}
	for c := range sums {
		if counts[c] == 0 {
			continue
		}
		floats.Scale(1/float64(counts[c]), sums[c])
	}
	return sums
}

func pooledVariance(data [][]float64, assignments []int, centroids [][]float64, dim int) float64 {
	var sumSq float64
	n := len(data)
	for i, p := range data {
		sumSq += sqDist(p, centroids[assignments[i]])
	}
	v := sumSq / float64(n*dim)
	if v < 1e-6 {
		v = 1e-6
	}
	return v
}

func logLikelihood(data [][]float64, assignments []int, centroids [][]float64, variance float64, dim int) float64 {
	var ll float64
	norm := -0.5 * float64(dim) * math.Log(2*math.Pi*variance)
	for i, p := range data {
		d := sqDist(p, centroids[assignments[i]])
		ll += norm - d/(2*variance)
	}
	return ll
}
