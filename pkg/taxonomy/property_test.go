package taxonomy

import (
	"math"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// A tiny alphabet so generated batches share labels across rows and levels.
var propLabels = []string{"", "a", "b", "c", "d"}

func rowsFrom(codes [][]int, weights []float64) []Row {
	n := min(len(codes), len(weights))
	rows := make([]Row, 0, n)
	for i := range n {
		var r Row
		for k, c := range codes[i] {
			if k < MaxLevels {
				r.Levels[k] = propLabels[c]
			}
		}
		r.Weight = weights[i]
		rows = append(rows, r)
	}
	return rows
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6*math.Max(1, math.Abs(a))
}

func rowGens() []gopter.Gen {
	return []gopter.Gen{
		gen.SliceOf(gen.SliceOfN(MaxLevels, gen.IntRange(0, len(propLabels)-1))),
		gen.SliceOf(gen.Float64Range(0, 10_000)),
	}
}

func TestEdgeListProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("edges are unique", prop.ForAll(
		func(codes [][]int, weights []float64) bool {
			l, err := BuildEdges(rowsFrom(codes, weights))
			if err != nil {
				return false
			}
			seen := make(map[Edge]bool, len(l.Edges))
			for _, e := range l.Edges {
				if seen[e] {
					return false
				}
				seen[e] = true
			}
			return true
		},
		rowGens()...,
	))

	properties.Property("root edges precede all other edges", prop.ForAll(
		func(codes [][]int, weights []float64) bool {
			l, _ := BuildEdges(rowsFrom(codes, weights))
			inRoots := true
			for _, e := range l.Edges {
				if !e.IsRoot() {
					inRoots = false
				} else if !inRoots {
					return false
				}
			}
			return true
		},
		rowGens()...,
	))

	properties.Property("a label is a root iff it is never a child", prop.ForAll(
		func(codes [][]int, weights []float64) bool {
			l, _ := BuildEdges(rowsFrom(codes, weights))
			child := make(map[string]bool)
			for _, e := range l.Edges {
				if !e.IsRoot() {
					child[e.Child] = true
				}
			}
			roots := make(map[string]bool)
			for _, r := range l.Roots() {
				roots[r] = true
			}
			for _, n := range l.Nodes {
				if roots[n] == child[n] {
					return false
				}
			}
			return true
		},
		rowGens()...,
	))

	properties.Property("nodes are exactly the reachable labels", prop.ForAll(
		func(codes [][]int, weights []float64) bool {
			rows := rowsFrom(codes, weights)
			l, _ := BuildEdges(rows)
			want := make(map[string]bool)
			for _, r := range rows {
				for _, label := range r.Path() {
					want[label] = true
				}
			}
			if len(l.Nodes) != len(want) {
				return false
			}
			for _, n := range l.Nodes {
				if !want[n] {
					return false
				}
			}
			return true
		},
		rowGens()...,
	))

	properties.Property("stats sum the rows that reach a label", prop.ForAll(
		func(codes [][]int, weights []float64) bool {
			rows := rowsFrom(codes, weights)
			l, _ := BuildEdges(rows)
			want := make(map[string]NodeStats)
			for _, r := range rows {
				reached := make(map[string]bool)
				for _, label := range r.Path() {
					if !reached[label] {
						reached[label] = true
						s := want[label]
						s.add(r.Weight)
						want[label] = s
					}
				}
			}
			for label, w := range want {
				got := l.Stats[label]
				if got.RowCount != w.RowCount || !approxEqual(got.WeightSum, w.WeightSum) {
					return false
				}
			}
			return len(l.Stats) == len(want)
		},
		rowGens()...,
	))

	properties.Property("stats are additive over batches", prop.ForAll(
		func(codes [][]int, weights []float64) bool {
			rows := rowsFrom(codes, weights)
			mid := len(rows) / 2
			all, _ := BuildEdges(rows)
			head, _ := BuildEdges(rows[:mid])
			tail, _ := BuildEdges(rows[mid:])
			for label, s := range all.Stats {
				h, t := head.Stats[label], tail.Stats[label]
				if s.RowCount != h.RowCount+t.RowCount || !approxEqual(s.WeightSum, h.WeightSum+t.WeightSum) {
					return false
				}
			}
			return true
		},
		rowGens()...,
	))

	properties.Property("no self edges", prop.ForAll(
		func(codes [][]int, weights []float64) bool {
			l, _ := BuildEdges(rowsFrom(codes, weights))
			for _, e := range l.Edges {
				if e.Parent == e.Child {
					return false
				}
			}
			return true
		},
		rowGens()...,
	))

	properties.TestingRun(t)
}

func TestNestedTreeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("root aggregates every reachable row", prop.ForAll(
		func(codes [][]int, weights []float64) bool {
			rows := rowsFrom(codes, weights)
			tree, err := BuildNestedTree(rows)

			var sum float64
			count := 0
			for _, r := range rows {
				if r.Depth() > 0 {
					sum += r.Weight
					count++
				}
			}
			if count == 0 {
				return err == ErrEmptyInput
			}
			return err == nil && tree.Data.RowCount == count && approxEqual(tree.Data.WeightSum, sum)
		},
		rowGens()...,
	))

	properties.Property("a parent carries at least its children", prop.ForAll(
		func(codes [][]int, weights []float64) bool {
			tree, err := BuildNestedTree(rowsFrom(codes, weights))
			if err != nil {
				return true
			}
			ok := true
			tree.Walk(func(n *TreeNode) bool {
				var sum float64
				count := 0
				for _, c := range n.Children {
					sum += c.Data.WeightSum
					count += c.Data.RowCount
					if c.Depth != n.Depth+1 {
						ok = false
					}
				}
				if count > n.Data.RowCount || sum > n.Data.WeightSum+1e-6*math.Max(1, sum) {
					ok = false
				}
				return ok
			})
			return ok
		},
		rowGens()...,
	))

	properties.Property("node IDs are unique", prop.ForAll(
		func(codes [][]int, weights []float64) bool {
			tree, err := BuildNestedTree(rowsFrom(codes, weights))
			if err != nil {
				return true
			}
			ids := make(map[string]bool)
			unique := true
			tree.Walk(func(n *TreeNode) bool {
				if ids[n.ID] {
					unique = false
				}
				ids[n.ID] = true
				return true
			})
			return unique
		},
		rowGens()...,
	))

	properties.TestingRun(t)
}

func TestFormatMetricProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("suffix follows magnitude", prop.ForAll(
		func(n float64) bool {
			s := FormatMetric(n)
			switch {
			case n >= 1_000_000:
				return strings.HasSuffix(s, "M")
			case n >= 1_000:
				return strings.HasSuffix(s, "K")
			default:
				return !strings.ContainsAny(s, "KM.")
			}
		},
		gen.Float64Range(0, 1e10),
	))

	properties.TestingRun(t)
}
