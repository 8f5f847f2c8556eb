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

// Package chart draws a scatter plot of customer data, coloured by segment,
// together with a least squares trend line and its confidence band.
package chart

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/ltvchart/canvas"
	"seehuhn.de/go/ltvchart/raster"
)

// Figure renders data frames using a fixed style.
type Figure struct {
	Style Style
}

// New returns a figure which draws using the given style.
func New(style Style) *Figure {
	return &Figure{Style: style}
}

// Render draws the data in df and returns the image, cropped to the
// bounding box of its content plus padding.
//
// The frame must contain the columns named in the style: two float
// columns for the axes and a string column for the colour grouping.
func (f *Figure) Render(df dataframe.DataFrame) (*image.RGBA, error) {
	s := &f.Style
	pts, err := f.points(df)
	if err != nil {
		return nil, err
	}
	line, err := Fit(pts.x, pts.y)
	if err != nil {
		return nil, fmt.Errorf("fitting trend line: %w", err)
	}
	legend, err := f.legendEntries(df)
	if err != nil {
		return nil, err
	}

	cols, err := f.colours()
	if err != nil {
		return nil, err
	}
	markers := make([]color.NRGBA, len(pts.hue))
	for i, h := range pts.hue {
		col, ok := cols.markers[h]
		if !ok {
			return nil, fmt.Errorf("no colour for %s %q", s.HueColumn, h)
		}
		markers[i] = col
	}

	fc, err := f.loadFaces()
	if err != nil {
		return nil, err
	}
	defer fc.close()

	width := int(math.Round(s.Width * s.DPI))
	height := int(math.Round(s.Height * s.DPI))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid figure size %dx%d", width, height)
	}

	xAxis := newAxis(pts.x, s.AxisMargin)
	yAxis := newAxis(pts.y, s.AxisMargin)
	l := f.layout(width, height, &xAxis, &yAxis, fc)

	c := canvas.New(width, height)
	c.Clear(cols.background)

	plotArea := image.Rect(
		int(math.Floor(l.left)), int(math.Floor(l.top)),
		int(math.Ceil(l.right)), int(math.Ceil(l.bottom)))
	c.Fill(raster.Rectangle(l.left, l.top, l.right, l.bottom), cols.background)

	grid := canvas.LineStyle{Width: s.px(s.GridWidth), Color: cols.grid, Cap: graphics.LineCapButt}
	for _, t := range xAxis.ticks {
		x := crisp(xAxis.toDevice(t.Value), grid.Width)
		c.Stroke(raster.Polyline(vec.Vec2{X: x, Y: l.top}, vec.Vec2{X: x, Y: l.bottom}), grid)
	}
	for _, t := range yAxis.ticks {
		y := crisp(yAxis.toDevice(t.Value), grid.Width)
		c.Stroke(raster.Polyline(vec.Vec2{X: l.left, Y: y}, vec.Vec2{X: l.right, Y: y}), grid)
	}

	c.SetClip(plotArea)

	r := s.px(math.Sqrt(s.MarkerArea)) / 2
	edge := canvas.LineStyle{Width: s.px(s.MarkerEdgeWidth), Color: cols.markerEdge}
	for i := range pts.x {
		circle := raster.Circle(xAxis.toDevice(pts.x[i]), yAxis.toDevice(pts.y[i]), r)
		c.Fill(circle, markers[i])
		if edge.Width > 0 {
			c.Stroke(circle, edge)
		}
	}

	x0, x1 := floats.Min(pts.x), floats.Max(pts.x)
	n := max(s.BandPoints, 2)
	upper := make([]vec.Vec2, n)
	lower := make([]vec.Vec2, n)
	for i := range n {
		x := x0 + (x1-x0)*float64(i)/float64(n-1)
		lo, hi := line.Band(x, s.BandLevel)
		dx := xAxis.toDevice(x)
		upper[i] = vec.Vec2{X: dx, Y: yAxis.toDevice(hi)}
		lower[n-1-i] = vec.Vec2{X: dx, Y: yAxis.toDevice(lo)}
	}
	c.Fill(raster.Polygon(append(upper, lower...)...), cols.band)

	trend := raster.Polyline(
		vec.Vec2{X: xAxis.toDevice(x0), Y: yAxis.toDevice(line.At(x0))},
		vec.Vec2{X: xAxis.toDevice(x1), Y: yAxis.toDevice(line.At(x1))},
	)
	c.Stroke(trend, canvas.LineStyle{
		Width: s.px(s.LineWidth),
		Color: cols.line,
		Cap:   graphics.LineCapSquare,
	})

	c.ResetClip()

	c.Stroke(raster.Rectangle(l.left, l.top, l.right, l.bottom), canvas.LineStyle{
		Width: s.px(s.FrameWidth),
		Color: cols.edge,
		Join:  graphics.LineJoinMiter,
	})

	for _, t := range xAxis.ticks {
		c.Text(t.Label, xAxis.toDevice(t.Value), l.bottom+l.tickPad, fc.tick, cols.text, canvas.TopCenter)
	}
	for _, t := range yAxis.ticks {
		c.Text(t.Label, l.left-l.tickPad, yAxis.toDevice(t.Value), fc.tick, cols.text, canvas.CenterRight)
	}

	midX := (l.left + l.right) / 2
	midY := (l.top + l.bottom) / 2
	c.Text(s.Title, midX, l.top-l.titlePad, fc.title, cols.text, canvas.BottomCenter)
	c.Text(s.XLabel, midX, l.bottom+l.tickPad+l.tickHeight+l.labelPad, fc.label, cols.text, canvas.TopCenter)
	c.TextVertical(s.YLabel, l.left-l.tickPad-l.tickWidth-l.labelPad, midY, fc.label, cols.text, canvas.BottomCenter)

	f.drawLegend(c, l, legend, cols, fc, r)

	return f.crop(c, cols.background), nil
}

// points holds the rows of the data frame which have finite coordinates.
type points struct {
	x, y []float64
	hue  []string
}

func (f *Figure) points(df dataframe.DataFrame) (*points, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("invalid data frame: %w", df.Err)
	}
	if df.Nrow() == 0 {
		return nil, errors.New("empty data frame")
	}

	s := &f.Style
	x, err := floatColumn(df, s.XColumn)
	if err != nil {
		return nil, err
	}
	y, err := floatColumn(df, s.YColumn)
	if err != nil {
		return nil, err
	}
	hue, err := column(df, s.HueColumn, series.String)
	if err != nil {
		return nil, err
	}
	labels := hue.Records()

	res := &points{}
	for i := range x {
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) || math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			continue
		}
		res.x = append(res.x, x[i])
		res.y = append(res.y, y[i])
		res.hue = append(res.hue, labels[i])
	}
	return res, nil
}

func column(df dataframe.DataFrame, name string, tp series.Type) (series.Series, error) {
	if !slices.Contains(df.Names(), name) {
		return series.Series{}, fmt.Errorf("missing column %q", name)
	}
	col := df.Col(name)
	if col.Err != nil {
		return series.Series{}, fmt.Errorf("column %q: %w", name, col.Err)
	}
	if got := col.Type(); got != tp {
		return series.Series{}, fmt.Errorf("column %q has type %s, want %s", name, got, tp)
	}
	return col, nil
}

func floatColumn(df dataframe.DataFrame, name string) ([]float64, error) {
	col, err := column(df, name, series.Float)
	if err != nil {
		return nil, err
	}
	return col.Float(), nil
}

// legendEntries returns the hue values which occur in df, in legend order.
func (f *Figure) legendEntries(df dataframe.DataFrame) ([]string, error) {
	s := &f.Style
	var res []string
	for _, h := range s.HueOrder {
		sub := df.Filter(dataframe.F{
			Colname:    s.HueColumn,
			Comparator: series.Eq,
			Comparando: h,
		})
		if sub.Err != nil {
			return nil, fmt.Errorf("selecting %s %q: %w", s.HueColumn, h, sub.Err)
		}
		if sub.Nrow() > 0 {
			res = append(res, h)
		}
	}
	return res, nil
}

type colours struct {
	background, grid, edge, text color.NRGBA
	markers                      map[string]color.NRGBA
	markerEdge                   color.NRGBA
	line, band                   color.NRGBA
	legend                       color.NRGBA
}

func (f *Figure) colours() (*colours, error) {
	s := &f.Style
	res := &colours{markers: make(map[string]color.NRGBA, len(s.Palette))}
	named := []struct {
		dst   *color.NRGBA
		hex   string
		alpha float64
	}{
		{&res.background, s.Background, 1},
		{&res.grid, s.GridColor, 1},
		{&res.edge, s.EdgeColor, 1},
		{&res.text, s.TextColor, 1},
		{&res.markerEdge, s.MarkerEdge, s.MarkerAlpha},
		{&res.line, s.LineColor, s.LineAlpha},
		{&res.band, s.LineColor, s.BandAlpha},
		{&res.legend, s.Background, s.LegendAlpha},
	}
	for _, c := range named {
		col, err := parseColor(c.hex, c.alpha)
		if err != nil {
			return nil, err
		}
		*c.dst = col
	}
	for name, hex := range s.Palette {
		col, err := parseColor(hex, s.MarkerAlpha)
		if err != nil {
			return nil, fmt.Errorf("palette entry %q: %w", name, err)
		}
		res.markers[name] = col
	}
	return res, nil
}

type faces struct {
	title, label, tick, legend, legendTitle font.Face
}

func (f *Figure) loadFaces() (*faces, error) {
	s := &f.Style
	res := &faces{}
	fields := []struct {
		dst  *font.Face
		size float64
		bold bool
	}{
		{&res.title, s.TitleSize, s.TitleBold},
		{&res.label, s.LabelSize, false},
		{&res.tick, s.TickSize, false},
		{&res.legend, s.LegendSize, false},
		{&res.legendTitle, s.LegendTitleSize, false},
	}
	for _, fld := range fields {
		face, err := canvas.LoadFace(fld.size, s.DPI, fld.bold)
		if err != nil {
			res.close()
			return nil, fmt.Errorf("loading font: %w", err)
		}
		*fld.dst = face
	}
	return res, nil
}

func (fc *faces) close() {
	for _, face := range []font.Face{fc.title, fc.label, fc.tick, fc.legend, fc.legendTitle} {
		if face != nil {
			face.Close()
		}
	}
}

// axis maps data values to device coordinates.
type axis struct {
	min, max float64 // visible data range
	lo, hi   float64 // device coordinates of min and max
	ticks    []plot.Tick
}

// newAxis returns an axis which shows the range of values, extended by the
// given fraction on both sides.  Only labelled ticks inside the range are
// kept.
func newAxis(values []float64, margin float64) axis {
	lo, hi := floats.Min(values), floats.Max(values)
	if hi == lo {
		lo -= 0.5
		hi += 0.5
	}
	d := (hi - lo) * margin
	a := axis{min: lo - d, max: hi + d}
	for _, t := range (plot.DefaultTicks{}).Ticks(a.min, a.max) {
		if t.Label == "" || t.Value < a.min || t.Value > a.max {
			continue
		}
		a.ticks = append(a.ticks, t)
	}
	return a
}

func (a *axis) toDevice(v float64) float64 {
	return a.lo + (v-a.min)/(a.max-a.min)*(a.hi-a.lo)
}

// layout records the position of the axes and the spacing of the
// surrounding labels, in pixels.
type layout struct {
	left, right, top, bottom float64

	tickPad, labelPad, titlePad float64
	tickWidth, tickHeight       float64
}

func (f *Figure) layout(width, height int, xAxis, yAxis *axis, fc *faces) *layout {
	s := &f.Style
	l := &layout{
		tickPad:  s.px(5.25),
		labelPad: s.px(6),
		titlePad: s.px(9),
	}

	var tickW, lastHalf int
	for _, t := range yAxis.ticks {
		w, _ := canvas.Measure(t.Label, fc.tick)
		tickW = max(tickW, w)
	}
	for _, t := range xAxis.ticks {
		w, _ := canvas.Measure(t.Label, fc.tick)
		lastHalf = max(lastHalf, (w+1)/2)
	}
	_, tickH := canvas.Measure("0", fc.tick)
	_, labelH := canvas.Measure(s.XLabel, fc.label)
	_, titleH := canvas.Measure(s.Title, fc.title)
	l.tickWidth = float64(tickW)
	l.tickHeight = float64(tickH)

	margin := 2.5 * s.Pad * s.DPI
	l.left = margin + float64(labelH) + l.labelPad + l.tickWidth + l.tickPad
	l.right = float64(width) - margin - float64(lastHalf)
	l.top = margin + float64(titleH) + l.titlePad
	l.bottom = float64(height) - margin - float64(labelH) - l.labelPad - l.tickHeight - l.tickPad

	xAxis.lo, xAxis.hi = l.left, l.right
	yAxis.lo, yAxis.hi = l.bottom, l.top
	return l
}

// drawLegend draws a framed legend in the upper left corner of the axes.
// Spacing follows the legend font size.
func (f *Figure) drawLegend(c *canvas.Canvas, l *layout, entries []string, cols *colours, fc *faces, markerRadius float64) {
	if len(entries) == 0 {
		return
	}
	s := &f.Style
	fs := s.px(s.LegendSize)
	borderAxes := 0.5 * fs
	borderPad := 0.4 * fs
	spacing := 0.5 * fs
	handleLen := 2 * fs
	handlePad := 0.8 * fs

	titleW, titleH := canvas.Measure(s.LegendTitle, fc.legendTitle)
	var labelW, labelH int
	for _, e := range entries {
		w, h := canvas.Measure(e, fc.legend)
		labelW = max(labelW, w)
		labelH = max(labelH, h)
	}

	inner := max(float64(titleW), handleLen+handlePad+float64(labelW))
	boxW := 2*borderPad + inner
	boxH := 2*borderPad + float64(titleH) + float64(len(entries))*(spacing+float64(labelH))

	x0 := l.left + borderAxes
	y0 := l.top + borderAxes
	box := raster.Rectangle(x0, y0, x0+boxW, y0+boxH)
	c.Fill(box, cols.legend)
	c.Stroke(box, canvas.LineStyle{Width: s.px(s.GridWidth), Color: cols.edge, Join: graphics.LineJoinMiter})

	c.Text(s.LegendTitle, x0+boxW/2, y0+borderPad, fc.legendTitle, cols.text, canvas.TopCenter)

	edge := canvas.LineStyle{Width: s.px(s.MarkerEdgeWidth), Color: cols.markerEdge}
	y := y0 + borderPad + float64(titleH) + spacing + float64(labelH)/2
	for _, e := range entries {
		mark := raster.Circle(x0+borderPad+handleLen/2, y, markerRadius)
		c.Fill(mark, cols.markers[e])
		if edge.Width > 0 {
			c.Stroke(mark, edge)
		}
		c.Text(e, x0+borderPad+handleLen+handlePad, y, fc.legend, cols.text, canvas.CenterLeft)
		y += float64(labelH) + spacing
	}
}

// crop returns a copy of the canvas, restricted to the bounding box of
// all pixels which differ from bg, extended by the style's padding.
func (f *Figure) crop(c *canvas.Canvas, bg color.NRGBA) *image.RGBA {
	img := c.Image()
	content := c.ContentBounds(bg)
	if content.Empty() {
		return img
	}
	pad := int(math.Round(f.Style.Pad * f.Style.DPI))
	r := content.Inset(-pad).Intersect(img.Rect)

	res := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(res, res.Rect, img, r.Min, draw.Src)
	return res
}

// crisp moves a line coordinate so that a line of width w is aligned with
// the pixel grid.
func crisp(v, w float64) float64 {
	if int(math.Round(w))%2 == 1 {
		return math.Floor(v) + 0.5
	}
	return math.Round(v)
}
