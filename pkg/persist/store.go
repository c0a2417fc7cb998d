// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"finrag/pkg/persist/binarystore"
	"finrag/pkg/persist/jsonstore"
	"finrag/pkg/treemodel"
)

// Save writes both the JSON and binary forms of tree under dir, plus
// index.json (§6: "Both a compact binary form and a textual JSON form
// MUST be supported").
func Save(dir string, tree *treemodel.Tree, d int, cfg IndexConfig) error {
	idx := BuildIndex(tree, d, cfg)

	if err := jsonstore.Save(dir, tree, idx); err != nil {
		return err
	}
	if err := binarystore.Save(dir, tree); err != nil {
		return err
	}
	return nil
}

// Load restores a Tree from dir, trying the binary form first and
// falling back to JSON (§6). index.json is always read for the
// reported Index, regardless of which node form was used.
func Load(dir string) (*treemodel.Tree, Index, error) {
	idx, err := loadIndex(dir)
	if err != nil {
		return nil, Index{}, err
	}

	if binarystore.Exists(dir) {
		tree, err := binarystore.Load(dir)
		if err == nil {
			return tree, idx, nil
		}
	}

	tree, _, err := jsonstore.Load(dir)
	if err != nil {
		return nil, Index{}, fmt.Errorf("persist: load %s: %w", dir, err)
	}
	return tree, idx, nil
}

func loadIndex(dir string) (Index, error) {
	data, err := os.ReadFile(filepath.Join(dir, jsonstore.IndexFile))
	if err != nil {
		return Index{}, fmt.Errorf("persist: read index: %w", err)
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return Index{}, fmt.Errorf("persist: parse index: %w", err)
	}
	return idx, nil
}
