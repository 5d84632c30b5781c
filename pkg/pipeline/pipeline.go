// Package pipeline runs the taxotree build → layout → render pipeline.
//
// The CLI and the HTTP host both go through this package so that defaults,
// validation and caching behave the same everywhere.
//
// # Stages
//
//  1. Build: fold typed rows into the edge list and the nested tree
//  2. Layout: export a tree graph (DOT plus styling) or lay out a
//     collapsible chart, optionally with a transition
//  3. Render: produce SVG, PNG, PDF or JSON artifacts
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	if err := runner.Init(ctx); err != nil {
//	    return err
//	}
//	defer runner.Close()
//
//	result, err := runner.Execute(ctx, rows, pipeline.Options{
//	    VizType: render.TypeCollapsible,
//	    Formats: []render.Format{render.FormatSVG},
//	})
//	svg := result.Artifacts[render.FormatSVG]
package pipeline

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/taxotree/pkg/cache"
	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/render"
	"github.com/matzehuels/taxotree/pkg/render/collapsible"
	"github.com/matzehuels/taxotree/pkg/render/treegraph"
)

const (
	// DefaultVizType is the renderer used when none is given.
	DefaultVizType = render.TypeTreegraph

	// DefaultCollapseDepth shows the root and its children only.
	DefaultCollapseDepth = 1

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// MaxScale caps the PNG scale factor.
	MaxScale = 10.0

	// DefaultTTL is how long cached stages live.
	DefaultTTL = 24 * time.Hour

	// MaxFrames caps the transition frames exported as JSON.
	MaxFrames = 240
)

// Options configures a pipeline run. The zero value renders a tree graph as
// SVG with the default look.
type Options struct {
	// Build options
	Strict bool `json:"strict,omitempty"`

	// Layout options
	VizType       render.Type        `json:"viz_type,omitempty"`
	Treegraph     treegraph.Options  `json:"treegraph"`
	Chart         collapsible.Config `json:"chart"`
	ChartTitle    string             `json:"chart_title,omitempty"`
	CollapseDepth int                `json:"collapse_depth,omitempty"`
	ExpandAll     bool               `json:"expand_all,omitempty"`
	Toggles       []string           `json:"toggles,omitempty"`
	Animate       bool               `json:"animate,omitempty"`

	// Render options
	Formats     []render.Format `json:"formats,omitempty"`
	Frames      int             `json:"frames,omitempty"`
	Interactive bool            `json:"interactive,omitempty"`
	Scale       float64         `json:"scale,omitempty"`

	// Runtime options
	Refresh bool          `json:"-"`
	TTL     time.Duration `json:"-"`
	Logger  *log.Logger   `json:"-"`
}

// Result holds the outputs of a pipeline run.
type Result struct {
	Hierarchy *Hierarchy
	RowsHash  string
	Layout    Layout
	Artifacts map[render.Format][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds timing and size information.
type Stats struct {
	RowCount   int
	NodeCount  int
	EdgeCount  int
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	BuildHit  bool
	LayoutHit bool
	RenderHit bool
}

// Validate checks the options and fills in defaults. It is idempotent.
func (o *Options) Validate() error {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	t, err := render.ParseType(string(o.VizType))
	if err != nil {
		return err
	}
	o.VizType = t

	if len(o.Formats) == 0 {
		o.Formats = []render.Format{render.FormatSVG}
	}
	for i, f := range o.Formats {
		pf, err := render.ParseFormat(string(f))
		if err != nil {
			return err
		}
		o.Formats[i] = pf
	}

	if isZeroTreegraph(o.Treegraph) {
		o.Treegraph.Title = treegraph.DefaultTitle
	}
	o.Treegraph = o.Treegraph.WithDefaults()
	if err := o.Treegraph.Validate(); err != nil {
		return err
	}
	o.Chart = o.Chart.WithDefaults()

	if o.CollapseDepth == 0 {
		o.CollapseDepth = DefaultCollapseDepth
	}
	if o.CollapseDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "collapse depth must be positive, got %d", o.CollapseDepth)
	}
	if o.Frames < 0 || o.Frames > MaxFrames {
		return errors.New(errors.ErrCodeInvalidInput, "frames must be between 0 and %d, got %d", MaxFrames, o.Frames)
	}
	if o.Frames > 0 {
		o.Animate = true
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if math.IsNaN(o.Scale) || o.Scale < 0 || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, %g], got %g", MaxScale, o.Scale)
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

func isZeroTreegraph(o treegraph.Options) bool {
	return o.Title == "" && o.Height == 0 && o.MarkerRadius == 0 && o.MarkerFill == "" &&
		o.BaseColor == "" && len(o.Palette) == 0 && !o.HideMetric
}

// IsCollapsible reports whether the options select the collapsible chart.
func (o *Options) IsCollapsible() bool {
	return o.VizType == render.TypeCollapsible
}

// TreeKeyOpts returns the cache key options of the build stage.
func (o *Options) TreeKeyOpts() cache.TreeKeyOpts {
	return cache.TreeKeyOpts{Strict: o.Strict}
}

// LayoutKeyOpts returns the cache key options of the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{VizType: string(o.VizType)}
	if o.IsCollapsible() {
		k.Height = o.Chart.TreeHeight
		k.Width = o.Chart.Width
		k.Collapse = o.CollapseDepth
		k.Expanded = o.ExpandAll
		k.Settings, _ = cache.HashJSON(struct {
			Chart   collapsible.Config
			Toggles []string
			Animate bool
		}{o.Chart, o.Toggles, o.Animate})
	} else {
		k.Height = float64(o.Treegraph.Height)
		k.Settings, _ = cache.HashJSON(o.Treegraph)
	}
	return k
}

// ArtifactKeyOpts returns the cache key options of one rendered format.
func (o *Options) ArtifactKeyOpts(format render.Format) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: string(format),
		Title:  o.Treegraph.Title + "|" + o.ChartTitle,
		Scale:  o.Scale,
		Frames: o.Frames,
		Colors: fmt.Sprintf("%s|%s|%t", o.Chart.NodeColorWithChildren, o.Chart.NodeColorEmpty, o.Interactive),
	}
}
