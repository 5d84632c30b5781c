package collapsible

import "time"

// Margin is the space around the tree inside the SVG.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Config holds the chart's styling and geometry.
type Config struct {
	TreeHeight            float64       `json:"tree_height"`
	Width                 float64       `json:"width"`
	DepthSpacing          float64       `json:"depth_spacing"`
	NodeRadius            float64       `json:"node_radius"`
	NodeColorWithChildren string        `json:"node_color_with_children"`
	NodeColorEmpty        string        `json:"node_color_empty"`
	Duration              time.Duration `json:"duration"`
	Margin                Margin        `json:"margin"`
}

// DefaultConfig returns the defaults of the dashboard widget.
func DefaultConfig() Config {
	return Config{
		TreeHeight:            600,
		Width:                 960,
		DepthSpacing:          180,
		NodeRadius:            4,
		NodeColorWithChildren: "#36c1b3",
		NodeColorEmpty:        "#fff",
		Duration:              750 * time.Millisecond,
		Margin:                Margin{Top: 20, Right: 120, Bottom: 20, Left: 120},
	}
}

// WithDefaults fills unset fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.TreeHeight <= 0 {
		c.TreeHeight = d.TreeHeight
	}
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.DepthSpacing <= 0 {
		c.DepthSpacing = d.DepthSpacing
	}
	if c.NodeRadius <= 0 {
		c.NodeRadius = d.NodeRadius
	}
	if c.NodeColorWithChildren == "" {
		c.NodeColorWithChildren = d.NodeColorWithChildren
	}
	if c.NodeColorEmpty == "" {
		c.NodeColorEmpty = d.NodeColorEmpty
	}
	if c.Duration <= 0 {
		c.Duration = d.Duration
	}
	if c.Margin == (Margin{}) {
		c.Margin = d.Margin
	}
	return c
}
