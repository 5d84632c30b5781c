package treegraph

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/taxotree/pkg/render"
)

// ErrNotInitialized is returned when a Renderer is used before Init or after
// Close.
var ErrNotInitialized = errors.New("treegraph: renderer not initialized")

// Renderer owns a Graphviz engine.
type Renderer struct {
	mu sync.Mutex
	gv *graphviz.Graphviz

	// Height is the output height in pixels; the width follows the aspect
	// ratio Graphviz produced. Zero keeps the natural size.
	Height int
}

// NewRenderer returns an uninitialised renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// Init creates the Graphviz engine. Calling Init on an initialised renderer
// is a no-op.
func (r *Renderer) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gv != nil {
		return nil
	}
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	r.gv = gv
	return nil
}

// Close releases the engine. The renderer can be initialised again.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gv == nil {
		return nil
	}
	err := r.gv.Close()
	r.gv = nil
	return err
}

// RenderSVG renders DOT source to SVG.
func (r *Renderer) RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return r.renderSVG(ctx, dot, r.Height)
}

func (r *Renderer) renderSVG(ctx context.Context, dot string, height int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gv == nil {
		return nil, ErrNotInitialized
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := r.gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes(), height), nil
}

// RenderPDF renders DOT source as PDF via SVG conversion.
func (r *Renderer) RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := r.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion.
func (r *Renderer) RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := r.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}

// RenderLayout renders an exported layout in the given format at the
// layout's own height. PNG output is scaled by scale.
func (r *Renderer) RenderLayout(ctx context.Context, l Layout, format render.Format, scale float64) ([]byte, error) {
	if format == render.FormatJSON {
		return RenderJSON(l)
	}
	svg, err := r.renderSVG(ctx, l.DOT, l.Height)
	if err != nil {
		return nil, err
	}
	switch format {
	case render.FormatSVG:
		return svg, nil
	case render.FormatPNG:
		return render.ToPNG(ctx, svg, scale)
	case render.FormatPDF:
		return render.ToPDF(ctx, svg)
	}
	return nil, fmt.Errorf("treegraph: unsupported format %q", format)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with one whose viewBox
// starts at the origin and whose size is height tall (or natural if height
// is 0).
func normalizeViewBox(svg []byte, height int) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	outW, outH := w, h
	if height > 0 {
		outH = float64(height)
		outW = w * outH / h
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, outW, outH)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
