// Package pdf renders invoices and quotations as paginated PDF
// documents. Layout runs in two passes: a content pass that builds an
// explicit page list with measured row heights, and a stamping pass
// that writes headers and footers over the finished pages. The page
// list is independent of the PDF backend, which makes pagination
// testable with a fake text measurer.
package pdf

import (
	"fmt"

	"github.com/smallfirm/facture/internal/config"
)

// A4 in points.
const (
	pageWidth  = 595.28
	pageHeight = 841.89
)

type Color struct {
	R, G, B int
}

type Font struct {
	Size float64
	Bold bool
}

// Style carries margins and palette for one rendering run.
type Style struct {
	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64

	Normal  Color
	Light   Color
	Accent  Color
	Shading Color
}

func (s Style) printableWidth() float64 {
	return pageWidth - s.MarginLeft - s.MarginRight
}

// NewStyle builds a Style from the layout configuration.
func NewStyle(cfg config.LayoutConfig) (Style, error) {
	s := Style{
		MarginLeft:   cfg.MarginLeft,
		MarginRight:  cfg.MarginRight,
		MarginTop:    cfg.MarginTop,
		MarginBottom: cfg.MarginBottom,
	}

	for _, c := range []struct {
		hex  string
		dest *Color
	}{
		{cfg.NormalColor, &s.Normal},
		{cfg.LightColor, &s.Light},
		{cfg.AccentColor, &s.Accent},
		{cfg.ShadingColor, &s.Shading},
	} {
		parsed, err := parseHexColor(c.hex)
		if err != nil {
			return Style{}, err
		}
		*c.dest = parsed
	}

	return s, nil
}

// DefaultStyle is the stock layout used when no overlay is configured.
func DefaultStyle() Style {
	s, err := NewStyle(config.DefaultLayoutConfig())
	if err != nil {
		panic(err) // defaults are static and valid
	}
	return s
}

func parseHexColor(hex string) (Color, error) {
	var c Color
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return c, nil
}
