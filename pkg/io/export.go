package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

// WriteEdgesJSON encodes an edge list as indented JSON.
func WriteEdgesJSON(w io.Writer, l *taxonomy.EdgeList) error {
	return writeJSON(w, l)
}

// WriteTreeJSON encodes a nested tree as indented JSON. The output can be read
// back with [ReadTreeJSON].
func WriteTreeJSON(w io.Writer, t *taxonomy.TreeNode) error {
	return writeJSON(w, t)
}

// ExportJSON writes v as indented JSON to a file at path.
func ExportJSON(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := writeJSON(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
