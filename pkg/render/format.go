package render

import (
	"strings"

	"github.com/matzehuels/taxotree/pkg/errors"
)

// Format is an output artifact format.
type Format string

// Supported formats.
const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

// Type is a renderer name.
type Type string

// Supported renderers.
const (
	TypeTreegraph   Type = "treegraph"
	TypeCollapsible Type = "collapsible"
)

// Formats lists every Format in display order.
var Formats = []Format{FormatSVG, FormatPNG, FormatPDF, FormatJSON}

// Types lists every renderer Type in display order.
var Types = []Type{TypeTreegraph, TypeCollapsible}

// ParseFormat parses a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatSVG, FormatPNG, FormatPDF, FormatJSON:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want svg, png, pdf or json)", s)
}

// ParseType parses a case-insensitive renderer name.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeTreegraph, TypeCollapsible:
		return t, nil
	}
	return "", errors.New(errors.ErrCodeInvalidVizType, "unknown renderer %q (want treegraph or collapsible)", s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}
