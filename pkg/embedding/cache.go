// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/redis/rueidis"
)

// CachedEmbedder wraps an Embedder with a Redis-backed cache keyed by
// a SHA-256 hash of the input text. A cache hit is not a provider call
// for retry-counting purposes (§6).
type CachedEmbedder struct {
	inner  Embedder
	client rueidis.Client
	prefix string
}

// NewCachedEmbedder wires inner to a rueidis client for cache lookups.
func NewCachedEmbedder(inner Embedder, client rueidis.Client, keyPrefix string) *CachedEmbedder {
	if keyPrefix == "" {
		keyPrefix = "finrag:embed:"
	}
	return &CachedEmbedder{inner: inner, client: client, prefix: keyPrefix}
}

// Embed returns the cached vector for text if present, otherwise
// delegates to the wrapped Embedder and stores the result.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.cacheKey(text)

	if v, ok := c.lookup(ctx, key); ok {
		return v, nil
	}

	vector, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, vector)
	return vector, nil
}

// Dimensions returns D, the vector length this provider produces.
func (c *CachedEmbedder) Dimensions() int {
	return c.inner.Dimensions()
}

func (c *CachedEmbedder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return c.prefix + hex.EncodeToString(sum[:])
}

func (c *CachedEmbedder) lookup(ctx context.Context, key string) ([]float32, bool) {
	resp := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	raw, err := resp.AsBytes()
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	return decodeVector(raw), true
}

func (c *CachedEmbedder) store(ctx context.Context, key string, vector []float32) {
	raw := encodeVector(vector)
	_ = c.client.Do(ctx, c.client.B().Set().Key(key).Value(rueidis.BinaryString(raw)).Build())
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(buf []byte) []float32 {
	n := len(buf) / 4
	v := make([]float32, n)
	for i := 0; i < n; i++ {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4 : i*4+4]))
	}
	return v
}

// NewRedisClient is a small convenience wrapper grounded on the
// teacher's composition-root style of constructing external clients in
// one place (cmd/common.InitializeSystem).
func NewRedisClient(addrs []string) (rueidis.Client, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{InitAddress: addrs})
	if err != nil {
		return nil, fmt.Errorf("embedding: connect redis: %w", err)
	}
	return client, nil
}
