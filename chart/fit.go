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
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Line is a straight line fitted to data by ordinary least squares.
type Line struct {
	Intercept float64
	Slope     float64

	n     int
	meanX float64
	sxx   float64 // sum of squared deviations of x
	s2    float64 // residual variance
}

// Fit computes the least squares line through the points (x[i], y[i]).
// At least three points with distinct x values are required.
func Fit(x, y []float64) (Line, error) {
	if len(x) != len(y) {
		return Line{}, errors.New("x and y have different lengths")
	}
	n := len(x)
	if n < 3 {
		return Line{}, errors.New("need at least three points")
	}

	meanX := stat.Mean(x, nil)
	var sxx float64
	for _, xi := range x {
		d := xi - meanX
		sxx += d * d
	}
	if !(sxx > 0) {
		return Line{}, errors.New("x values have zero variance")
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)

	var rss float64
	for i := range x {
		r := y[i] - (alpha + beta*x[i])
		rss += r * r
	}

	return Line{
		Intercept: alpha,
		Slope:     beta,
		n:         n,
		meanX:     meanX,
		sxx:       sxx,
		s2:        rss / float64(n-2),
	}, nil
}

// At returns the fitted value at x.
func (l Line) At(x float64) float64 {
	return l.Intercept + l.Slope*x
}

// Band returns a confidence interval for the mean response at x.  The
// level is the coverage probability, for example 0.95.
func (l Line) Band(x, level float64) (lo, hi float64) {
	y := l.At(x)
	if l.n < 3 {
		return y, y
	}
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(l.n - 2)}.Quantile((1 + level) / 2)
	d := x - l.meanX
	se := math.Sqrt(l.s2 * (1/float64(l.n) + d*d/l.sxx))
	return y - t*se, y + t*se
}
