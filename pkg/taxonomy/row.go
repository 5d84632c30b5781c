package taxonomy

import (
	"strings"

	"github.com/matzehuels/taxotree/pkg/errors"
)

// MaxLevels is the number of hierarchy levels a row can carry.
const MaxLevels = 4

// ErrEmptyInput is returned by [BuildNestedTree] when no row reaches level 0.
// Callers show it inline in place of the chart; it is never fatal to the host.
var ErrEmptyInput = errors.New(errors.ErrCodeEmptyInput, "no data: the query returned no taxonomy rows")

// Row is one input record: up to MaxLevels category labels and a weight.
//
// Levels are positional. A level is only meaningful if every level before it is
// non-empty; labels after the first empty level are ignored by the builders.
type Row struct {
	Levels [MaxLevels]string `json:"levels"`
	Weight float64           `json:"weight"`
}

// NewRow creates a row from a weight and up to MaxLevels labels. Labels are
// trimmed; extra labels beyond MaxLevels are dropped.
func NewRow(weight float64, labels ...string) Row {
	r := Row{Weight: weight}
	for i, l := range labels {
		if i >= MaxLevels {
			break
		}
		r.Levels[i] = strings.TrimSpace(l)
	}
	return r
}

// Depth returns the number of leading non-empty levels. A row with an empty L0
// has depth 0 and contributes nothing to either hierarchy.
func (r Row) Depth() int {
	for i, l := range r.Levels {
		if l == "" {
			return i
		}
	}
	return MaxLevels
}

// Path returns the reachable labels of the row, L0 first.
func (r Row) Path() []string {
	return r.Levels[:r.Depth()]
}

// NodeStats is the per-node aggregate both builders maintain.
type NodeStats struct {
	WeightSum float64 `json:"weightSum"`
	RowCount  int     `json:"rowCount"`
}

func (s *NodeStats) add(weight float64) {
	s.WeightSum += weight
	s.RowCount++
}
