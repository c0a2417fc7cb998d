// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package embedding

import (
	"context"
	"testing"
)

func TestVectorCodec_Roundtrip(t *testing.T) {
	original := []float32{0.1, -0.2, 3.5, 0, 1e-8}
	encoded := encodeVector(original)
	decoded := decodeVector(encoded)

	if len(decoded) != len(original) {
		t.Fatalf("got %d elements, want %d", len(decoded), len(original))
	}
	for i := range original {
		if decoded[i] != original[i] {
			t.Errorf("element %d: got %v, want %v", i, decoded[i], original[i])
		}
	}
}

func TestCachedEmbedder_DimensionsDelegates(t *testing.T) {
	inner := fakeEmbedder{dims: 7}
	c := &CachedEmbedder{inner: inner}
	if got := c.Dimensions(); got != 7 {
		t.Errorf("Dimensions() = %d, want 7", got)
	}
}

type fakeEmbedder struct {
	dims int
	vec  []float32
	err  error
}

func (f fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f.vec, f.err
}

func (f fakeEmbedder) Dimensions() int { return f.dims }
