package taxonomy

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/taxotree/pkg/errors"
)

// Default schema values, matching the columns the dashboard explore exposes.
const (
	DefaultDataset     = "local_mi_base_rank"
	DefaultMetricField = "global_monthly_search"
)

// DefaultLevelFields are the default hierarchy level columns, L0 first.
var DefaultLevelFields = [MaxLevels]string{"l0", "l1", "l2", "l3"}

// Schema names the host columns that carry the hierarchy levels and the metric.
// Each column is addressed as "<Dataset>.<field>"; other columns are ignored.
type Schema struct {
	Dataset     string            `json:"dataset"`
	LevelFields [MaxLevels]string `json:"level_fields"`
	MetricField string            `json:"metric_field"`
}

// DefaultSchema returns the schema of the search-volume taxonomy dataset.
func DefaultSchema() Schema {
	return Schema{
		Dataset:     DefaultDataset,
		LevelFields: DefaultLevelFields,
		MetricField: DefaultMetricField,
	}
}

// WithDefaults fills empty fields of s from DefaultSchema.
func (s Schema) WithDefaults() Schema {
	d := DefaultSchema()
	if s.Dataset == "" {
		s.Dataset = d.Dataset
	}
	for i, f := range s.LevelFields {
		if f == "" {
			s.LevelFields[i] = d.LevelFields[i]
		}
	}
	if s.MetricField == "" {
		s.MetricField = d.MetricField
	}
	return s
}

// LevelKey returns the qualified column key of level i.
func (s Schema) LevelKey(i int) string { return s.qualify(s.LevelFields[i]) }

// MetricKey returns the qualified column key of the metric.
func (s Schema) MetricKey() string { return s.qualify(s.MetricField) }

// Keys returns the MaxLevels level keys followed by the metric key.
func (s Schema) Keys() []string {
	keys := make([]string, 0, MaxLevels+1)
	for i := range s.LevelFields {
		keys = append(keys, s.LevelKey(i))
	}
	return append(keys, s.MetricKey())
}

func (s Schema) qualify(field string) string {
	if s.Dataset == "" {
		return field
	}
	return s.Dataset + "." + field
}

// IngestReport summarises what permissive parsing did to a batch.
type IngestReport struct {
	Rows           int `json:"rows"`            // rows decoded
	Skipped        int `json:"skipped"`         // rows without an L0 label
	CoercedWeights int `json:"coerced_weights"` // malformed, negative or non-finite weights set to 0
	DroppedLevels  int `json:"dropped_levels"`  // labels ignored because an earlier level was empty
}

// DecodeHostRows decodes a JSON array of host row objects into typed rows.
//
// Each recognised cell is {"value": scalar} or absent; a bare scalar is accepted
// too. String values become trimmed labels, numbers and booleans used as labels
// are formatted, and null is absent. The metric accepts numbers and numeric
// strings. Anything else is treated as absent (labels) or zero (metric) and
// counted in the report.
//
// Only a payload that is not an array of objects fails, with INVALID_INPUT.
func DecodeHostRows(data []byte, schema Schema) ([]Row, IngestReport, error) {
	schema = schema.WithDefaults()
	var report IngestReport

	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, report, errors.Wrap(errors.ErrCodeInvalidInput, err, "rows must be a JSON array of objects")
	}

	rows := make([]Row, 0, len(raw))
	for _, obj := range raw {
		rows = append(rows, decodeHostRow(obj, schema, &report))
	}
	return rows, report, nil
}

func decodeHostRow(obj map[string]json.RawMessage, schema Schema, report *IngestReport) Row {
	var row Row
	for i := range schema.LevelFields {
		row.Levels[i] = labelValue(cellValue(obj[schema.LevelKey(i)]))
	}
	row.Weight = weightValue(cellValue(obj[schema.MetricKey()]), report)
	account(&row, report)
	return row
}

// account truncates levels after the first gap and updates the report.
func account(row *Row, report *IngestReport) {
	report.Rows++
	depth := row.Depth()
	if depth == 0 {
		report.Skipped++
	}
	for i := depth; i < MaxLevels; i++ {
		if row.Levels[i] != "" {
			report.DroppedLevels++
			row.Levels[i] = ""
		}
	}
}

// cellValue unwraps {"value": x}. It returns nil for absent or malformed cells.
func cellValue(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	v, err := decodeScalar(raw)
	if err != nil {
		return nil
	}
	if m, ok := v.(map[string]any); ok {
		return m["value"]
	}
	return v
}

func decodeScalar(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func labelValue(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

func weightValue(v any, report *IngestReport) float64 {
	var (
		f   float64
		err error
	)
	switch x := v.(type) {
	case nil:
		return 0
	case json.Number:
		f, err = x.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(x), 64)
	default:
		report.CoercedWeights++
		return 0
	}
	return CoerceWeight(f, err, report)
}

// CoerceWeight applies the permissive weight rules: parse failures, negative
// and non-finite values become 0 and are counted in report (if non-nil).
func CoerceWeight(f float64, parseErr error, report *IngestReport) float64 {
	if parseErr != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		if report != nil {
			report.CoercedWeights++
		}
		return 0
	}
	return f
}

// NormalizeRow applies the ingestion rules to a row built by other readers
// (such as CSV) and records them in report.
func NormalizeRow(row Row, report *IngestReport) Row {
	for i, l := range row.Levels {
		row.Levels[i] = strings.TrimSpace(l)
	}
	account(&row, report)
	return row
}
