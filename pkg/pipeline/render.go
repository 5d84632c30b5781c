package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/taxotree/pkg/render"
	"github.com/matzehuels/taxotree/pkg/render/collapsible"
	"github.com/matzehuels/taxotree/pkg/render/treegraph"
)

// RenderLayout produces one artifact per requested format. Tree graphs need
// an initialised Graphviz renderer for every format except JSON.
func RenderLayout(ctx context.Context, gv *treegraph.Renderer, l Layout, opts Options) (map[render.Format][]byte, error) {
	artifacts := make(map[render.Format][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch l.Type {
		case render.TypeTreegraph:
			if l.Treegraph == nil {
				return nil, fmt.Errorf("treegraph layout missing")
			}
			switch {
			case format == render.FormatJSON:
				data, err = treegraph.RenderJSON(*l.Treegraph)
			case gv == nil:
				return nil, treegraph.ErrNotInitialized
			default:
				data, err = gv.RenderLayout(ctx, *l.Treegraph, format, opts.Scale)
			}
		case render.TypeCollapsible:
			data, err = renderCollapsible(ctx, l, format, opts)
		default:
			return nil, fmt.Errorf("unknown layout type %q", l.Type)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderCollapsible(ctx context.Context, l Layout, format render.Format, opts Options) ([]byte, error) {
	if l.Collapsible == nil {
		return nil, fmt.Errorf("collapsible layout missing")
	}
	if format == render.FormatJSON {
		var jsonOpts []collapsible.JSONOption
		if l.Transition != nil && opts.Frames > 0 {
			jsonOpts = append(jsonOpts, collapsible.WithFrames(*l.Transition, opts.Frames))
		}
		return collapsible.RenderJSON(*l.Collapsible, jsonOpts...)
	}

	var svgOpts []collapsible.SVGOption
	if opts.ChartTitle != "" {
		svgOpts = append(svgOpts, collapsible.WithTitle(opts.ChartTitle))
	}
	// Raster and print output show the end state.
	if l.Transition != nil && format == render.FormatSVG {
		svgOpts = append(svgOpts, collapsible.WithTransition(*l.Transition))
	}
	if opts.Interactive && format == render.FormatSVG {
		svgOpts = append(svgOpts, collapsible.WithInteractive(opts.Chart.NodeColorWithChildren, opts.Chart.NodeColorEmpty))
	}
	svg := collapsible.RenderSVG(*l.Collapsible, svgOpts...)

	switch format {
	case render.FormatSVG:
		return svg, nil
	case render.FormatPNG:
		return render.ToPNG(ctx, svg, opts.Scale)
	case render.FormatPDF:
		return render.ToPDF(ctx, svg)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}
