package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

// Format is a row file format.
type Format string

// Row formats.
const (
	FormatHostJSON Format = "json"
	FormatCSV      Format = "csv"
)

// DetectFormat returns the row format implied by the extension of path.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatHostJSON, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer row format of %s (want .json or .csv)", path)
}

// ReadRows reads rows from the file at path, choosing the format by extension.
func ReadRows(path string, schema taxonomy.Schema) ([]taxonomy.Row, taxonomy.IngestReport, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, taxonomy.IngestReport{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, taxonomy.IngestReport{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadRowsFrom(f, format, schema)
}

// ReadRowsFrom reads rows in the given format from r. It does not close r.
func ReadRowsFrom(r io.Reader, format Format, schema taxonomy.Schema) ([]taxonomy.Row, taxonomy.IngestReport, error) {
	switch format {
	case FormatHostJSON:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, taxonomy.IngestReport{}, fmt.Errorf("read: %w", err)
		}
		return taxonomy.DecodeHostRows(data, schema)
	case FormatCSV:
		return readCSV(r, schema.WithDefaults())
	}
	return nil, taxonomy.IngestReport{}, errors.New(errors.ErrCodeInvalidFormat, "unknown row format %q", format)
}

func readCSV(r io.Reader, schema taxonomy.Schema) ([]taxonomy.Row, taxonomy.IngestReport, error) {
	var report taxonomy.IngestReport

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, report, nil
	}
	if err != nil {
		return nil, report, errors.Wrap(errors.ErrCodeInvalidInput, err, "read CSV header")
	}

	cols := columnIndex(header, schema)
	if cols.levels[0] < 0 {
		return nil, report, errors.New(errors.ErrCodeInvalidInput,
			"CSV header has no %q column", schema.LevelFields[0])
	}

	var rows []taxonomy.Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, report, errors.Wrap(errors.ErrCodeInvalidInput, err, "read CSV line %d", line)
		}

		var row taxonomy.Row
		for i, idx := range cols.levels {
			row.Levels[i] = cell(rec, idx)
		}
		if s := cell(rec, cols.metric); s != "" {
			f, perr := strconv.ParseFloat(s, 64)
			row.Weight = taxonomy.CoerceWeight(f, perr, &report)
		}
		rows = append(rows, taxonomy.NormalizeRow(row, &report))
	}
	return rows, report, nil
}

type columns struct {
	levels [taxonomy.MaxLevels]int
	metric int
}

// columnIndex maps schema fields to header positions; -1 marks a missing
// column. Names match bare or dataset-qualified, case-insensitively.
func columnIndex(header []string, schema taxonomy.Schema) columns {
	find := func(field string) int {
		for i, h := range header {
			h = strings.TrimSpace(h)
			if strings.EqualFold(h, field) ||
				strings.EqualFold(h, schema.Dataset+"."+field) {
				return i
			}
		}
		return -1
	}

	var c columns
	for i, f := range schema.LevelFields {
		c.levels[i] = find(f)
	}
	c.metric = find(schema.MetricField)
	return c
}

func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

// ReadTreeJSON decodes a nested tree written by [WriteTreeJSON].
func ReadTreeJSON(r io.Reader) (*taxonomy.TreeNode, error) {
	var tree taxonomy.TreeNode
	if err := json.NewDecoder(r).Decode(&tree); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode tree")
	}
	if tree.IsLeaf() {
		return nil, taxonomy.ErrEmptyInput
	}
	return &tree, nil
}
