// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package jsonstore implements the mandatory JSON persistence form of
// §6: nodes.json + index.json.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"finrag/pkg/persist/record"
	"finrag/pkg/treemodel"
)

const (
	NodesFile = "nodes.json"
	IndexFile = "index.json"
)

// Save writes tree and idx as nodes.json/index.json under dir.
func Save(dir string, tree *treemodel.Tree, idx record.Index) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("jsonstore: create %s: %w", dir, err)
	}

	records := record.ToRecords(tree)
	if err := writeJSON(filepath.Join(dir, NodesFile), records); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, IndexFile), idx); err != nil {
		return err
	}
	return nil
}

// Load restores a Tree and its Index from dir's JSON form.
func Load(dir string) (*treemodel.Tree, record.Index, error) {
	var idx record.Index
	if err := readJSON(filepath.Join(dir, IndexFile), &idx); err != nil {
		return nil, record.Index{}, err
	}

	var records []record.NodeRecord
	if err := readJSON(filepath.Join(dir, NodesFile), &records); err != nil {
		return nil, record.Index{}, err
	}

	return record.FromRecords(records), idx, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonstore: marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("jsonstore: write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("jsonstore: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("jsonstore: unmarshal %s: %w", path, err)
	}
	return nil
}
