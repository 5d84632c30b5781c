package collapsible

import "encoding/json"

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	transition *Transition
	frames     int
}

// WithFrames includes n frames sampled from tr.
func WithFrames(tr Transition, n int) JSONOption {
	return func(r *jsonRenderer) { r.transition = &tr; r.frames = n }
}

type jsonOutput struct {
	Type   string  `json:"type"`
	Layout Layout  `json:"layout"`
	Source string  `json:"source,omitempty"`
	Frames []Frame `json:"frames,omitempty"`
	// Duration of the transition in milliseconds.
	Duration int64 `json:"duration_ms,omitempty"`
}

// RenderJSON exports a layout, and optionally transition frames, as indented
// JSON.
func RenderJSON(l Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{Type: "collapsible", Layout: l}
	if r.transition != nil && r.frames > 0 {
		out.Source = r.transition.Source
		out.Duration = r.transition.Duration.Milliseconds()
		out.Frames = r.transition.Frames(r.frames)
	}
	return json.MarshalIndent(out, "", "  ")
}
