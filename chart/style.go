// seehuhn.de/go/ltvchart - customer value charts
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package chart

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"seehuhn.de/go/ltvchart/cohort"
)

// Style collects the fixed appearance of a figure.  Lengths are in inches
// or points, as in a typesetting system, and are converted to pixels
// using DPI.
type Style struct {
	Width, Height float64 // figure size in inches
	DPI           float64
	Pad           float64 // padding around the tight bounding box, in inches

	// Columns of the input data frame.
	XColumn, YColumn, HueColumn string

	// HueOrder lists the hue values in legend order.  Palette maps each
	// hue value to a colour in "#rrggbb" notation.
	HueOrder []string
	Palette  map[string]string

	Title, XLabel, YLabel, LegendTitle string

	TitleSize, LabelSize, TickSize, LegendSize, LegendTitleSize float64 // in points

	TitleBold bool

	Background string
	GridColor  string
	EdgeColor  string
	TextColor  string
	GridWidth  float64 // in points
	FrameWidth float64 // in points
	AxisMargin float64 // fraction of the data range added on each side

	MarkerArea      float64 // in square points
	MarkerAlpha     float64
	MarkerEdge      string
	MarkerEdgeWidth float64 // in points

	LineColor  string
	LineWidth  float64 // in points
	LineAlpha  float64
	BandAlpha  float64
	BandLevel  float64
	BandPoints int

	LegendAlpha float64 // opacity of the legend background
}

// DefaultStyle returns the style for the customer value chart: a white
// grid theme in a "talk" sized font, scaled by 0.9.
func DefaultStyle() Style {
	hue := make([]string, 0, 3)
	for _, s := range cohort.Segments() {
		hue = append(hue, string(s))
	}
	return Style{
		Width:  8,
		Height: 8,
		DPI:    64,
		Pad:    0.1,

		XColumn:   cohort.ColCost,
		YColumn:   cohort.ColValue,
		HueColumn: cohort.ColSegment,

		HueOrder: hue,
		Palette: map[string]string{
			string(cohort.Retail):     "#1f77b4",
			string(cohort.SMB):        "#ff7f0e",
			string(cohort.Enterprise): "#2ca02c",
		},

		Title:       "Customer Lifetime Value vs Acquisition Cost",
		XLabel:      "Acquisition Cost (USD)",
		YLabel:      "Customer Lifetime Value (USD)",
		LegendTitle: "Segment",

		TitleSize:       16.2,
		LabelSize:       16.2,
		TickSize:        14.85,
		LegendSize:      14.85,
		LegendTitleSize: 16.2,

		Background: "#ffffff",
		GridColor:  "#cccccc",
		EdgeColor:  "#cccccc",
		TextColor:  "#262626",
		GridWidth:  1.5,
		FrameWidth: 1.875,
		AxisMargin: 0.05,

		MarkerArea:      70,
		MarkerAlpha:     0.75,
		MarkerEdge:      "#ffffff",
		MarkerEdgeWidth: 0.4,

		LineColor:  "#000000",
		LineWidth:  1.2,
		LineAlpha:  0.7,
		BandAlpha:  0.15,
		BandLevel:  0.95,
		BandPoints: 100,

		LegendAlpha: 0.8,
	}
}

// px converts a length in points to pixels.
func (s *Style) px(pt float64) float64 {
	return pt * s.DPI / 72
}

// parseColor converts "#rrggbb" notation into a colour with the given
// opacity.
func parseColor(hex string, alpha float64) (color.NRGBA, error) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 && len(h) != 3 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", hex)
	}
	for _, r := range h {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return color.NRGBA{}, fmt.Errorf("invalid colour %q", hex)
		}
	}
	c := drawing.ColorFromHex(h)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alpha*255 + 0.5)}, nil
}
