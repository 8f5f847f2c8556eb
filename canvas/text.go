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

package canvas

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	regular = sync.OnceValues(func() (*opentype.Font, error) { return opentype.Parse(goregular.TTF) })
	bold    = sync.OnceValues(func() (*opentype.Font, error) { return opentype.Parse(gobold.TTF) })
)

// LoadFace returns a Go font face of the given size in points, for output
// at the given resolution.
func LoadFace(size, dpi float64, isBold bool) (font.Face, error) {
	load := regular
	if isBold {
		load = bold
	}
	f, err := load()
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
}

// Anchor selects the point of a text box which is placed at the given
// position.  H is 0 for the left edge, 0.5 for the centre and 1 for the
// right edge.  V is 0 for the top (ascent), 0.5 for the middle and 1 for
// the bottom (descent).
type Anchor struct {
	H, V float64
}

// Commonly used anchors.
var (
	TopLeft      = Anchor{0, 0}
	TopCenter    = Anchor{0.5, 0}
	CenterLeft   = Anchor{0, 0.5}
	CenterRight  = Anchor{1, 0.5}
	Center       = Anchor{0.5, 0.5}
	BottomCenter = Anchor{0.5, 1}
)

// Measure returns the width of s and the line height of face, in pixels.
func Measure(s string, face font.Face) (w, h int) {
	m := face.Metrics()
	return font.MeasureString(face, s).Ceil(), (m.Ascent + m.Descent).Ceil()
}

// Text draws s horizontally, so that the anchor point of its box lies at
// (x, y).
func (c *Canvas) Text(s string, x, y float64, face font.Face, col color.NRGBA, a Anchor) {
	w, h := Measure(s, face)
	left := x - a.H*float64(w)
	top := y - a.V*float64(h)
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(left * 64),
			Y: fixed.Int26_6(top*64) + face.Metrics().Ascent,
		},
	}
	d.DrawString(s)
}

// TextVertical draws s rotated by 90 degrees counter-clockwise, reading
// from bottom to top.  The anchor refers to the rotated box: H selects
// along the text direction and V across it, as for Text.
func (c *Canvas) TextVertical(s string, x, y float64, face font.Face, col color.NRGBA, a Anchor) {
	w, h := Measure(s, face)
	if w <= 0 || h <= 0 {
		return
	}
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.Point26_6{Y: face.Metrics().Ascent},
	}
	d.DrawString(s)

	// After rotation the box is h wide and w high.  Text position u along
	// the line maps to device y = bottom-u, and v below the top of the
	// line maps to device x = left+v.
	left := int(x - a.V*float64(h) + 0.5)
	bottom := int(y + a.H*float64(w) + 0.5)
	alpha := float32(col.A) / 255 / 255
	bounds := c.img.Rect
	for v := range h {
		for u := range w {
			m := mask.Pix[v*mask.Stride+u]
			if m == 0 {
				continue
			}
			p := image.Pt(left+v, bottom-1-u)
			if !p.In(bounds) {
				continue
			}
			offs := c.img.PixOffset(p.X, p.Y)
			blend(c.img.Pix[offs:offs+4], col, float32(m)*alpha)
		}
	}
}
