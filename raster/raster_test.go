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

package raster

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// grid collects coverage values into a w×h buffer.
type grid struct {
	w, h int
	pix  []float32
}

func newGrid(w, h int) *grid {
	return &grid{w: w, h: h, pix: make([]float32, w*h)}
}

func (g *grid) emit(y, xMin int, coverage []float32) {
	copy(g.pix[y*g.w+xMin:], coverage)
}

func (g *grid) at(x, y int) float32 {
	return g.pix[y*g.w+x]
}

func (g *grid) total() float64 {
	var sum float64
	for _, c := range g.pix {
		sum += float64(c)
	}
	return sum
}

func clipRect(w, h int) rect.Rect {
	return rect.Rect{URx: float64(w), URy: float64(h)}
}

// The triangle (0,0)→(10,0)→(10,1) has the diagonal edge y = x/10,
// so pixel x has coverage (2x+1)/20.
func TestTriangleCoverage(t *testing.T) {
	g := newGrid(10, 1)
	r := NewRasteriser(clipRect(10, 1))
	r.FillNonZero(Polygon(
		vec.Vec2{X: 0, Y: 0},
		vec.Vec2{X: 10, Y: 0},
		vec.Vec2{X: 10, Y: 1},
	), g.emit)

	for x := range 10 {
		want := float32(2*x+1) / 20
		if got := g.at(x, 0); math.Abs(float64(got-want)) > 1e-6 {
			t.Errorf("pixel %d: got %.4f, want %.4f", x, got, want)
		}
	}
}

func TestRectangleCoverage(t *testing.T) {
	g := newGrid(10, 5)
	r := NewRasteriser(clipRect(10, 5))
	r.FillNonZero(Rectangle(2.5, 1, 6.5, 3), g.emit)

	for y := range 5 {
		for x := range 10 {
			var want float32
			if y == 1 || y == 2 {
				switch {
				case x == 2 || x == 6:
					want = 0.5
				case x > 2 && x < 6:
					want = 1
				}
			}
			if got := g.at(x, y); math.Abs(float64(got-want)) > 1e-6 {
				t.Errorf("pixel (%d,%d): got %.4f, want %.4f", x, y, got, want)
			}
		}
	}
}

func TestCircleArea(t *testing.T) {
	const radius = 20.0
	g := newGrid(64, 64)
	r := NewRasteriser(clipRect(64, 64))
	r.FillNonZero(Circle(32, 32, radius), g.emit)

	// the flattened curve lies inside the circle and loses about 1%
	want := math.Pi * radius * radius
	if got := g.total(); got > want || (want-got)/want > 0.02 {
		t.Errorf("circle area: got %.2f, want %.2f", got, want)
	}
	if c := g.at(32, 32); math.Abs(float64(c)-1) > 1e-5 {
		t.Errorf("centre coverage: got %.4f, want 1", c)
	}
	if c := g.at(2, 2); c != 0 {
		t.Errorf("corner coverage: got %.4f, want 0", c)
	}
}

func TestFillRules(t *testing.T) {
	// two nested squares with the same orientation
	nested := func(yield func(path.Command, []vec.Vec2) bool) {
		for cmd, pts := range Rectangle(0, 0, 10, 10) {
			if !yield(cmd, pts) {
				return
			}
		}
		for cmd, pts := range Rectangle(3, 3, 7, 7) {
			if !yield(cmd, pts) {
				return
			}
		}
	}

	cases := []struct {
		name   string
		fill   func(r *Rasteriser, p path.Path, emit Emit)
		centre float32
	}{
		{"nonzero", (*Rasteriser).FillNonZero, 1},
		{"evenodd", (*Rasteriser).FillEvenOdd, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newGrid(10, 10)
			r := NewRasteriser(clipRect(10, 10))
			tc.fill(r, nested, g.emit)
			if got := g.at(5, 5); got != tc.centre {
				t.Errorf("centre: got %.4f, want %.4f", got, tc.centre)
			}
			if got := g.at(1, 1); got != 1 {
				t.Errorf("ring: got %.4f, want 1", got)
			}
		})
	}
}

func TestClipping(t *testing.T) {
	g := newGrid(10, 2)
	r := NewRasteriser(clipRect(10, 2))
	r.FillNonZero(Rectangle(-5, 0, 3, 1), g.emit)

	for x := range 10 {
		var want float32
		if x < 3 {
			want = 1
		}
		if got := g.at(x, 0); got != want {
			t.Errorf("pixel %d: got %.4f, want %.4f", x, got, want)
		}
	}
	if got := g.total(); got != 3 {
		t.Errorf("total coverage: got %.4f, want 3", got)
	}
}

func TestCTM(t *testing.T) {
	g := newGrid(16, 16)
	r := NewRasteriser(clipRect(16, 16))
	r.CTM = matrix.Matrix{4, 0, 0, 4, 0, 0}
	r.FillNonZero(Rectangle(1, 1, 2, 2), g.emit)

	if got := g.total(); math.Abs(got-16) > 1e-4 {
		t.Errorf("area: got %.4f, want 16", got)
	}
	if got := g.at(5, 5); got != 1 {
		t.Errorf("inside: got %.4f, want 1", got)
	}
}

func TestStrokeCaps(t *testing.T) {
	line := Polyline(vec.Vec2{X: 10, Y: 32}, vec.Vec2{X: 54, Y: 32})
	const width = 8.0
	base := 44 * width

	cases := []struct {
		cap  graphics.LineCapStyle
		want float64
		tol  float64
	}{
		{graphics.LineCapButt, base, 1e-3},
		{graphics.LineCapSquare, base + width*width, 1e-3},
		{graphics.LineCapRound, base + math.Pi*width*width/4, 1.5},
	}
	for _, tc := range cases {
		t.Run(tc.cap.String(), func(t *testing.T) {
			g := newGrid(64, 64)
			r := NewRasteriser(clipRect(64, 64))
			r.Width = width
			r.Cap = tc.cap
			r.Stroke(line, g.emit)
			if got := g.total(); math.Abs(got-tc.want) > tc.tol {
				t.Errorf("area: got %.3f, want %.3f", got, tc.want)
			}
		})
	}
}

func TestStrokeJoins(t *testing.T) {
	corner := Polyline(
		vec.Vec2{X: 10, Y: 40},
		vec.Vec2{X: 30, Y: 40},
		vec.Vec2{X: 30, Y: 10},
	)

	area := func(join graphics.LineJoinStyle) float64 {
		g := newGrid(64, 64)
		r := NewRasteriser(clipRect(64, 64))
		r.Width = 6
		r.Join = join
		r.Stroke(corner, g.emit)
		return g.total()
	}

	// For a right angle with half-width 3, the outer corner adds 9 for a
	// miter, 9π/4 for a round join and 4.5 for a bevel.
	miter := area(graphics.LineJoinMiter)
	round := area(graphics.LineJoinRound)
	bevel := area(graphics.LineJoinBevel)
	if !(miter > round && round > bevel) {
		t.Errorf("expected miter > round > bevel, got %.3f, %.3f, %.3f", miter, round, bevel)
	}
	if d := miter - bevel; math.Abs(d-4.5) > 1e-3 {
		t.Errorf("miter - bevel: got %.4f, want 4.5", d)
	}
}

func TestStrokeClosedSquare(t *testing.T) {
	g := newGrid(32, 32)
	r := NewRasteriser(clipRect(32, 32))
	r.Width = 2
	r.Stroke(Rectangle(8, 8, 24, 24), g.emit)

	// outer 18×18 minus inner 14×14, with mitered corners
	want := 18.0*18 - 14*14
	if got := g.total(); math.Abs(got-want) > 1e-3 {
		t.Errorf("area: got %.3f, want %.3f", got, want)
	}
	if got := g.at(16, 16); got != 0 {
		t.Errorf("interior: got %.4f, want 0", got)
	}
}

func TestReset(t *testing.T) {
	r := NewRasteriser(clipRect(4, 4))
	r.Width = 7
	r.Cap = graphics.LineCapRound
	r.CTM = matrix.Matrix{2, 0, 0, 2, 0, 0}

	clip := clipRect(8, 8)
	r.Reset(clip)
	if r.Width != 1 || r.Cap != graphics.LineCapButt || r.CTM != matrix.Identity {
		t.Errorf("Reset kept old parameters: width=%g cap=%v ctm=%v", r.Width, r.Cap, r.CTM)
	}
	if r.Clip != clip {
		t.Errorf("clip: got %v, want %v", r.Clip, clip)
	}
}

func TestEmptyPath(t *testing.T) {
	r := NewRasteriser(clipRect(4, 4))
	called := false
	r.FillNonZero(Polyline(), func(int, int, []float32) { called = true })
	r.Stroke(Polyline(), func(int, int, []float32) { called = true })
	if called {
		t.Error("empty path produced output")
	}
}
