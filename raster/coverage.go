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

import "math"

// Each scanline keeps two numbers per pixel:
//
//	cover[i]: the signed height of all edge pieces inside pixel column i
//	area[i]:  the same heights, weighted by the part of the pixel which
//	          lies to the right of the edge
//
// Scanning from left to right, the winding number of pixel i is the sum of
// cover[j] for j < i, plus area[i].  Edge pieces to the left of the output
// window are folded into column 0 with full weight.

// accumulate adds the contribution of e to the scanline [top, bot).
// The buffers cover the device columns xMin, ..., xMax-1.
func accumulate(e *edge, top, bot float64, cover, area []float32, xMin, xMax int) {
	yt := max(top, e.y0)
	yb := min(bot, e.y1)
	if yb <= yt {
		return
	}

	xt := e.x0 + e.dxdy*(yt-e.y0)
	xb := e.x0 + e.dxdy*(yb-e.y0)
	left, right := min(xt, xb), max(xt, xb)
	pixLeft := int(math.Floor(left))
	pixRight := int(math.Floor(right))

	switch {
	case pixRight < xMin:
		h := e.dir * float32(yb-yt)
		cover[0] += h
		area[0] += h
		return
	case pixLeft >= xMax:
		return
	case pixLeft == pixRight:
		addPiece(e, yt, yb, pixLeft, cover, area, xMin, xMax)
		return
	}

	// The edge crosses several pixel columns within this scanline.
	// Split it at the column boundaries.
	dydx := 1 / e.dxdy
	for pix := pixLeft; pix <= pixRight; pix++ {
		ya := e.y0 + dydx*(float64(pix)-e.x0)
		yc := e.y0 + dydx*(float64(pix+1)-e.x0)
		lo := max(min(ya, yc), yt)
		hi := min(max(ya, yc), yb)
		if hi <= lo {
			continue
		}
		addPiece(e, lo, hi, pix, cover, area, xMin, xMax)
	}
}

// addPiece records the part of e between lo and hi, which lies inside
// the pixel column pix.
func addPiece(e *edge, lo, hi float64, pix int, cover, area []float32, xMin, xMax int) {
	h := e.dir * float32(hi-lo)
	if pix < xMin {
		cover[0] += h
		area[0] += h
		return
	}
	if pix >= xMax {
		return
	}
	xMid := e.x0 + e.dxdy*((lo+hi)/2-e.y0)
	frac := xMid - float64(pix)
	i := pix - xMin
	cover[i] += h
	area[i] += h * float32(1-frac)
}

// integrateNonZero turns the accumulated values into coverage, using the
// nonzero winding rule.  The result is stored in cover.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		w := acc + area[i]
		acc += cover[i]
		cover[i] = min(abs32(w), 1)
	}
}

// integrateEvenOdd turns the accumulated values into coverage, using the
// even-odd rule.  The result is stored in cover.
func integrateEvenOdd(cover, area []float32) {
	var acc float32
	for i := range cover {
		w := abs32(acc + area[i])
		acc += cover[i]
		m := w - 2*float32(int(w/2))
		cover[i] = 1 - abs32(1-m)
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// trimZeros strips leading and trailing zeros.  If all values are zero,
// nil is returned.
func trimZeros(row []float32) ([]float32, int) {
	lo, hi := 0, len(row)
	for lo < hi && row[lo] == 0 {
		lo++
	}
	if lo == hi {
		return nil, 0
	}
	for row[hi-1] == 0 {
		hi--
	}
	return row[lo:hi], lo
}
