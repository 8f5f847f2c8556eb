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

// Package canvas paints filled and stroked paths, and text, onto an RGBA
// image.
//
// Device coordinates have the origin in the top-left corner of the image,
// with y increasing downwards.  Colours are given with straight (not
// premultiplied) alpha and are composited using the "over" operator.
package canvas

import (
	"image"
	"image/color"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/ltvchart/raster"
)

// LineStyle describes how a path is stroked.
type LineStyle struct {
	Width float64 // in pixels
	Color color.NRGBA
	Cap   graphics.LineCapStyle
	Join  graphics.LineJoinStyle
}

// Canvas is an RGBA image together with a rasteriser.
type Canvas struct {
	img  *image.RGBA
	r    *raster.Rasteriser
	clip image.Rectangle
}

// New allocates a transparent canvas of the given size.
func New(width, height int) *Canvas {
	clip := rect.Rect{URx: float64(width), URy: float64(height)}
	b := image.Rect(0, 0, width, height)
	return &Canvas{
		img:  image.NewRGBA(b),
		r:    raster.NewRasteriser(clip),
		clip: b,
	}
}

// Image returns the underlying image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Rect
}

// SetClip restricts Fill and Stroke to the rectangle r.
func (c *Canvas) SetClip(r image.Rectangle) {
	c.clip = r.Intersect(c.img.Rect)
}

// ResetClip removes the clip rectangle.
func (c *Canvas) ResetClip() {
	c.clip = c.img.Rect
}

// Clear sets every pixel to col, ignoring what was there before.
func (c *Canvas) Clear(col color.NRGBA) {
	pm := color.RGBAModel.Convert(col).(color.RGBA)
	pix := c.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = pm.R
		pix[i+1] = pm.G
		pix[i+2] = pm.B
		pix[i+3] = pm.A
	}
}

// Fill paints the interior of p, using the nonzero winding rule.
func (c *Canvas) Fill(p path.Path, col color.NRGBA) {
	c.resetRasteriser()
	c.r.FillNonZero(p, c.painter(col))
}

// Stroke paints the outline of p.
func (c *Canvas) Stroke(p path.Path, style LineStyle) {
	c.resetRasteriser()
	c.r.Width = style.Width
	c.r.Cap = style.Cap
	c.r.Join = style.Join
	c.r.Stroke(p, c.painter(style.Color))
}

func (c *Canvas) resetRasteriser() {
	b := c.clip
	c.r.Reset(rect.Rect{
		LLx: float64(b.Min.X),
		LLy: float64(b.Min.Y),
		URx: float64(b.Max.X),
		URy: float64(b.Max.Y),
	})
}

// painter returns a callback which composites col, weighted by the
// coverage, over the image.
func (c *Canvas) painter(col color.NRGBA) raster.Emit {
	alpha := float32(col.A) / 255
	return func(y, xMin int, coverage []float32) {
		offs := c.img.PixOffset(xMin, y)
		for i, cov := range coverage {
			blend(c.img.Pix[offs+4*i:offs+4*i+4], col, cov*alpha)
		}
	}
}

// blend composites the colour col with opacity a over the premultiplied
// pixel px.
func blend(px []uint8, col color.NRGBA, a float32) {
	if a <= 0 {
		return
	}
	if a >= 1 {
		px[0], px[1], px[2], px[3] = col.R, col.G, col.B, 255
		return
	}
	keep := 1 - a
	px[0] = uint8(float32(col.R)*a + float32(px[0])*keep + 0.5)
	px[1] = uint8(float32(col.G)*a + float32(px[1])*keep + 0.5)
	px[2] = uint8(float32(col.B)*a + float32(px[2])*keep + 0.5)
	px[3] = uint8(255*a + float32(px[3])*keep + 0.5)
}

// ContentBounds returns the smallest rectangle containing all pixels which
// differ from bg.  If the canvas is uniformly bg, the empty rectangle is
// returned.
func (c *Canvas) ContentBounds(bg color.NRGBA) image.Rectangle {
	pm := color.RGBAModel.Convert(bg).(color.RGBA)
	b := c.img.Rect
	res := image.Rectangle{}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := c.img.Pix[c.img.PixOffset(b.Min.X, y):c.img.PixOffset(b.Max.X-1, y)+4]
		for x := b.Min.X; x < b.Max.X; x++ {
			px := row[4*(x-b.Min.X):]
			if px[0] == pm.R && px[1] == pm.G && px[2] == pm.B && px[3] == pm.A {
				continue
			}
			res = res.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return res
}
