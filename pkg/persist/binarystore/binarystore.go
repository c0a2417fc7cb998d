// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package binarystore implements the mandatory compact binary
// persistence form of §6, using encoding/gob for nodes.binary (the
// index stays in jsonstore's index.json, the single source of truth
// for D and level counts).
package binarystore

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"finrag/pkg/persist/record"
	"finrag/pkg/treemodel"
)

const NodesFile = "nodes.binary"

// Save writes tree's records as a gob-encoded nodes.binary under dir.
func Save(dir string, tree *treemodel.Tree) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("binarystore: create %s: %w", dir, err)
	}

	records := record.ToRecords(tree)

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(records); err != nil {
		return fmt.Errorf("binarystore: encode: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, NodesFile), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("binarystore: write %s: %w", dir, err)
	}
	return nil
}

// Load restores a Tree from dir's binary form.
func Load(dir string) (*treemodel.Tree, error) {
	data, err := os.ReadFile(filepath.Join(dir, NodesFile))
	if err != nil {
		return nil, fmt.Errorf("binarystore: read %s: %w", dir, err)
	}

	var records []record.NodeRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&records); err != nil {
		return nil, fmt.Errorf("binarystore: decode: %w", err)
	}
	return record.FromRecords(records), nil
}

// Exists reports whether dir holds a binary form.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, NodesFile))
	return err == nil
}
