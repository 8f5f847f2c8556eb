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

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Stroke paints the outline of p, using Width, Cap, Join and MiterLimit.
//
// The outline is built as a union of convex pieces (one quadrilateral per
// segment, plus the joins and caps).  All pieces are given the same
// orientation and are filled together with the nonzero rule, so that
// overlaps are painted exactly once.
func (r *Rasteriser) Stroke(p path.Path, emit Emit) {
	r.flattenSubpaths(p)

	r.outline = r.outline[:0]
	r.outlineStart = r.outlineStart[:0]
	d := r.Width / 2
	for i := range r.flatStart {
		pts := r.subpath(i)
		if len(pts) == 1 {
			// a subpath without direction only shows with round caps
			if r.Cap == graphics.LineCapRound {
				r.addDisc(pts[0], d)
			}
			continue
		}
		r.strokePolyline(pts, r.flatClosed[i], d)
	}

	r.beginEdges()
	for i := range r.outlineStart {
		poly := r.polygon(i)
		for j := range poly {
			r.addEdge(poly[j], poly[(j+1)%len(poly)])
		}
	}
	r.fill(fillNonZero, emit)
}

// flattenSubpaths converts p into polylines.  Consecutive duplicate
// points are dropped.
func (r *Rasteriser) flattenSubpaths(p path.Path) {
	r.flat = r.flat[:0]
	r.flatStart = r.flatStart[:0]
	r.flatClosed = r.flatClosed[:0]

	open := false
	appendPt := func(q vec.Vec2) {
		last := r.flat[len(r.flat)-1]
		if q.Sub(last).Length() >= zeroLengthThreshold {
			r.flat = append(r.flat, q)
		}
	}
	line := func(_, b vec.Vec2) { appendPt(b) }

	var cur vec.Vec2
	for cmd, pts := range p {
		if cmd != path.CmdMoveTo && !open {
			if cmd == path.CmdClose {
				continue
			}
			// drawing without a current subpath starts one at the
			// current point
			r.startSubpath(cur)
			open = true
		}
		switch cmd {
		case path.CmdMoveTo:
			r.startSubpath(pts[0])
			cur = pts[0]
			open = true
		case path.CmdLineTo:
			appendPt(pts[0])
			cur = pts[0]
		case path.CmdQuadTo:
			r.flattenQuadratic(cur, pts[0], pts[1], line)
			cur = pts[1]
		case path.CmdCubeTo:
			r.flattenCubic(cur, pts[0], pts[1], pts[2], line)
			cur = pts[2]
		case path.CmdClose:
			start := r.flat[r.flatStart[len(r.flatStart)-1]]
			r.flatClosed[len(r.flatClosed)-1] = true
			cur = start
			open = false
		}
	}
}

func (r *Rasteriser) startSubpath(q vec.Vec2) {
	r.flatStart = append(r.flatStart, len(r.flat))
	r.flatClosed = append(r.flatClosed, false)
	r.flat = append(r.flat, q)
}

// subpath returns the points of flattened subpath i.
func (r *Rasteriser) subpath(i int) []vec.Vec2 {
	end := len(r.flat)
	if i+1 < len(r.flatStart) {
		end = r.flatStart[i+1]
	}
	return r.flat[r.flatStart[i]:end]
}

// polygon returns outline polygon i.
func (r *Rasteriser) polygon(i int) []vec.Vec2 {
	end := len(r.outline)
	if i+1 < len(r.outlineStart) {
		end = r.outlineStart[i+1]
	}
	return r.outline[r.outlineStart[i]:end]
}

// strokePolyline adds the outline pieces for one polyline with half-width d.
func (r *Rasteriser) strokePolyline(pts []vec.Vec2, closed bool, d float64) {
	n := len(pts)
	if closed && pts[n-1].Sub(pts[0]).Length() < zeroLengthThreshold {
		n--
		pts = pts[:n]
	}
	if n < 2 {
		if r.Cap == graphics.LineCapRound {
			r.addDisc(pts[0], d)
		}
		return
	}

	segs := n - 1
	if closed {
		segs = n
	}
	for i := range segs {
		a, b := pts[i], pts[(i+1)%n]
		t := unit(b.Sub(a))
		nrm := vec.Vec2{X: -t.Y, Y: t.X}.Mul(d)
		r.addPolygon(a.Add(nrm), b.Add(nrm), b.Sub(nrm), a.Sub(nrm))
	}

	// joins at the interior vertices, and at the start of closed paths
	for i := range n {
		if !closed && (i == 0 || i == n-1) {
			continue
		}
		prev, next := pts[(i+n-1)%n], pts[(i+1)%n]
		r.addJoin(pts[i], unit(pts[i].Sub(prev)), unit(next.Sub(pts[i])), d)
	}

	if !closed {
		r.addCap(pts[0], unit(pts[0].Sub(pts[1])), d)
		r.addCap(pts[n-1], unit(pts[n-1].Sub(pts[n-2])), d)
	}
}

// addJoin fills the gap on the outer side of the corner at p, where the
// direction changes from t1 to t2.
func (r *Rasteriser) addJoin(p, t1, t2 vec.Vec2, d float64) {
	sin := t1.X*t2.Y - t1.Y*t2.X
	cos := t1.Dot(t2)
	if math.Abs(sin) < collinearityThreshold && cos > 0 {
		return
	}
	if cos < cuspCosineThreshold {
		// the path doubles back: treat the corner as two line ends
		r.addCap(p, t1, d)
		r.addCap(p, t2.Mul(-1), d)
		return
	}

	// The outer side of a left turn is on the right, and vice versa.
	side := -1.0
	if sin < 0 {
		side = 1
	}
	n1 := vec.Vec2{X: -t1.Y, Y: t1.X}.Mul(side * d)
	n2 := vec.Vec2{X: -t2.Y, Y: t2.X}.Mul(side * d)

	switch r.Join {
	case graphics.LineJoinRound:
		r.addDisc(p, d)
	case graphics.LineJoinMiter:
		// The miter length, relative to the line width, is 1/sin(φ/2)
		// where φ is the angle between the two segments.
		sinHalf := math.Sqrt((1 + cos) / 2)
		if sinHalf > 0 && 1/sinHalf <= r.MiterLimit+1e-10 {
			bisector := unit(n1.Add(n2))
			tip := p.Add(bisector.Mul(d / sinHalf))
			r.addPolygon(p, p.Add(n1), tip, p.Add(n2))
			return
		}
		r.addPolygon(p, p.Add(n1), p.Add(n2))
	default:
		r.addPolygon(p, p.Add(n1), p.Add(n2))
	}
}

// addCap adds the cap at the end point p, where t points away from the line.
func (r *Rasteriser) addCap(p, t vec.Vec2, d float64) {
	switch r.Cap {
	case graphics.LineCapRound:
		r.addDisc(p, d)
	case graphics.LineCapSquare:
		nrm := vec.Vec2{X: -t.Y, Y: t.X}.Mul(d)
		ext := p.Add(t.Mul(d))
		r.addPolygon(p.Add(nrm), ext.Add(nrm), ext.Sub(nrm), p.Sub(nrm))
	}
}

// addDisc adds a polygon approximating the circle of radius d around c.
func (r *Rasteriser) addDisc(c vec.Vec2, d float64) {
	devR := max(r.deviceLinear(vec.Vec2{X: d}).Length(), r.deviceLinear(vec.Vec2{Y: d}).Length())
	// a finer tolerance than for curves keeps small dots round
	tol := r.Flatness / 4
	n := 8
	if devR > tol {
		step := 2 * math.Acos(1-tol/devR)
		n = max(n, int(math.Ceil(2*math.Pi/step)))
	}

	start := len(r.outline)
	for i := range n {
		phi := 2 * math.Pi * float64(i) / float64(n)
		r.outline = append(r.outline, vec.Vec2{
			X: c.X + d*math.Cos(phi),
			Y: c.Y + d*math.Sin(phi),
		})
	}
	r.outlineStart = append(r.outlineStart, start)
}

// addPolygon appends a convex polygon to the outline, in counter-clockwise
// order.  Degenerate polygons are dropped.
func (r *Rasteriser) addPolygon(pts ...vec.Vec2) {
	var a float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		a += p.X*q.Y - q.X*p.Y
	}
	if math.Abs(a) < zeroLengthThreshold {
		return
	}

	start := len(r.outline)
	if a > 0 {
		r.outline = append(r.outline, pts...)
	} else {
		for i := len(pts) - 1; i >= 0; i-- {
			r.outline = append(r.outline, pts[i])
		}
	}
	r.outlineStart = append(r.outlineStart, start)
}

func unit(v vec.Vec2) vec.Vec2 {
	return v.Mul(1 / v.Length())
}
