// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package postgres mirrors tree nodes and their embeddings into
// Postgres via pgx + pgvector, for corpora too large to keep fully
// materialized on disk as JSON (§6). It is an optional enrichment
// backend: the retriever never reads from it, jsonstore/binarystore
// remain the load path.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"finrag/pkg/treemodel"
)

const createNodesTable = `
CREATE TABLE IF NOT EXISTS tree_nodes (
	id TEXT PRIMARY KEY,
	level INTEGER NOT NULL,
	text TEXT NOT NULL,
	embedding vector(%d),
	parent_id TEXT,
	metadata JSONB DEFAULT '{}'
);`

// Mirror writes a tree's nodes into Postgres, creating the table with
// the given embedding dimension if it doesn't already exist.
type Mirror struct {
	pool *pgxpool.Pool
	dim  int
}

// NewMirror connects to Postgres and ensures the tree_nodes table
// exists for the given embedding dimension.
func NewMirror(ctx context.Context, dsn string, dim int) (*Mirror, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if _, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector;"); err != nil {
		return nil, fmt.Errorf("postgres: enable vector extension: %w", err)
	}
	if _, err := pool.Exec(ctx, fmt.Sprintf(createNodesTable, dim)); err != nil {
		return nil, fmt.Errorf("postgres: create tree_nodes table: %w", err)
	}
	return &Mirror{pool: pool, dim: dim}, nil
}

// Upsert mirrors every node of tree into tree_nodes.
func (m *Mirror) Upsert(ctx context.Context, tree *treemodel.Tree) error {
	parentOf := make(map[string]string)
	for _, n := range tree.AllNodes() {
		for _, c := range n.Children {
			parentOf[c.ID] = n.ID
		}
	}

	batch := &pgx.Batch{}
	for _, n := range tree.AllNodes() {
		metaJSON, err := json.Marshal(n.Metadata)
		if err != nil {
			return fmt.Errorf("postgres: marshal metadata for %s: %w", n.ID, err)
		}
		batch.Queue(`
			INSERT INTO tree_nodes (id, level, text, embedding, parent_id, metadata)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				level = EXCLUDED.level, text = EXCLUDED.text,
				embedding = EXCLUDED.embedding, parent_id = EXCLUDED.parent_id,
				metadata = EXCLUDED.metadata`,
			n.ID, n.Level, n.Text, pgvector.NewVector(n.Embedding), parentOf[n.ID], metaJSON)
	}

	results := m.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range tree.AllNodes() {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("postgres: upsert node: %w", err)
		}
	}
	return nil
}

// Close releases the connection pool.
func (m *Mirror) Close() {
	m.pool.Close()
}
