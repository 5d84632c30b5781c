package pipeline

import (
	"math"
	"testing"

	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/render"
	"github.com/matzehuels/taxotree/pkg/render/treegraph"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

func sampleRows() []taxonomy.Row {
	return []taxonomy.Row{
		taxonomy.NewRow(1200, "Apparel", "Shoes", "Boots"),
		taxonomy.NewRow(800, "Apparel", "Shoes", "Sneakers"),
		taxonomy.NewRow(2_500_000, "Apparel", "Hats"),
		taxonomy.NewRow(10, "Garden"),
	}
}

func TestOptionsValidateDefaults(t *testing.T) {
	var o Options
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if o.VizType != render.TypeTreegraph {
		t.Errorf("VizType = %q, want treegraph", o.VizType)
	}
	if len(o.Formats) != 1 || o.Formats[0] != render.FormatSVG {
		t.Errorf("Formats = %v, want [svg]", o.Formats)
	}
	if o.Treegraph.Title != treegraph.DefaultTitle {
		t.Errorf("Treegraph.Title = %q", o.Treegraph.Title)
	}
	if o.Chart.TreeHeight != 600 || o.Chart.NodeColorWithChildren != "#36c1b3" {
		t.Errorf("Chart defaults not applied: %+v", o.Chart)
	}
	if o.CollapseDepth != DefaultCollapseDepth || o.Scale != DefaultScale || o.TTL != DefaultTTL {
		t.Errorf("runtime defaults not applied: %+v", o)
	}
	if o.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent.
	before := o.Formats[0]
	if err := o.Validate(); err != nil || o.Formats[0] != before {
		t.Errorf("second Validate() changed options: %v", err)
	}
}

func TestOptionsValidateKeepsPartialTreegraph(t *testing.T) {
	o := Options{Treegraph: treegraph.Options{HideMetric: true}}
	if err := o.Validate(); err != nil {
		t.Fatal(err)
	}
	if !o.Treegraph.HideMetric || o.Treegraph.Title != "" || o.Treegraph.Height != 600 {
		t.Errorf("partial treegraph options = %+v", o.Treegraph)
	}
}

func TestOptionsValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"viz type", Options{VizType: "tower"}, errors.ErrCodeInvalidVizType},
		{"format", Options{Formats: []render.Format{"gif"}}, errors.ErrCodeInvalidFormat},
		{"colour", Options{Treegraph: treegraph.Options{BaseColor: "blue"}}, errors.ErrCodeInvalidConfig},
		{"frames", Options{Frames: MaxFrames + 1}, errors.ErrCodeInvalidInput},
		{"collapse", Options{CollapseDepth: -1}, errors.ErrCodeInvalidInput},
		{"negative scale", Options{Scale: -2}, errors.ErrCodeInvalidInput},
		{"NaN scale", Options{Scale: math.NaN()}, errors.ErrCodeInvalidInput},
		{"infinite scale", Options{Scale: math.Inf(1)}, errors.ErrCodeInvalidInput},
		{"huge scale", Options{Scale: 1e6}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsValidateNormalizes(t *testing.T) {
	o := Options{VizType: "Collapsible", Formats: []render.Format{"SVG", "json"}, Frames: 3}
	if err := o.Validate(); err != nil {
		t.Fatal(err)
	}
	if !o.IsCollapsible() {
		t.Error("VizType should be normalised to collapsible")
	}
	if o.Formats[0] != render.FormatSVG {
		t.Errorf("Formats[0] = %q", o.Formats[0])
	}
	if !o.Animate {
		t.Error("Frames > 0 should imply Animate")
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	a := Options{VizType: render.TypeCollapsible}
	b := Options{VizType: render.TypeCollapsible, Toggles: []string{"/Apparel"}}
	_ = a.Validate()
	_ = b.Validate()
	if a.LayoutKeyOpts() == b.LayoutKeyOpts() {
		t.Error("toggles should change the layout key")
	}

	c := Options{}
	d := Options{Treegraph: treegraph.Options{Title: "x", Palette: []string{"#000000"}}}
	_ = c.Validate()
	_ = d.Validate()
	if c.LayoutKeyOpts() == d.LayoutKeyOpts() {
		t.Error("treegraph styling should change the layout key")
	}
}

func TestBuild(t *testing.T) {
	h, err := Build(sampleRows(), Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if got := len(h.Edges.Nodes); got != 6 {
		t.Errorf("nodes = %d, want 6", got)
	}
	if got := h.Tree.Data.WeightSum; got != 2_502_010 {
		t.Errorf("root weight = %v", got)
	}
}

func TestBuildEmpty(t *testing.T) {
	for _, rows := range [][]taxonomy.Row{nil, {taxonomy.NewRow(5)}} {
		if _, err := Build(rows, Options{}); !errors.Is(err, errors.ErrCodeEmptyInput) {
			t.Errorf("Build(%v) = %v, want EMPTY_INPUT", rows, err)
		}
	}
}

func TestBuildStrict(t *testing.T) {
	rows := []taxonomy.Row{
		taxonomy.NewRow(1, "A", "X"),
		taxonomy.NewRow(1, "B", "X"),
	}
	if _, err := Build(rows, Options{}); err != nil {
		t.Fatalf("non-strict Build() error: %v", err)
	}
	if _, err := Build(rows, Options{Strict: true}); !errors.Is(err, errors.ErrCodeAmbiguousParent) {
		t.Errorf("strict Build() = %v, want AMBIGUOUS_PARENT", err)
	}
}
