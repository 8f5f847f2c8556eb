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

// Package cohort generates a synthetic customer cohort.
//
// Each customer has an acquisition cost, a lifetime value which grows
// with the cost, and a segment.  Generation is deterministic for a given
// seed.
package cohort

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat/distuv"
)

// Column names used in the data frame.
const (
	ColCost    = "acquisition_cost"
	ColValue   = "customer_ltv"
	ColSegment = "segment"
)

// Share is the probability of a segment.
type Share struct {
	Segment Segment
	P       float64
}

// Params describes the distribution of a cohort.
//
// Acquisition costs are Gamma(CostShape, CostScale) plus Normal noise with
// standard deviation CostNoise.  Lifetime values are the cost times a
// Normal(ValueFactor, ValueFactorSD) factor, plus Normal noise with
// standard deviation ValueNoise.  Both are clipped to their ranges after
// all values have been drawn.
type Params struct {
	Seed uint64
	Size int

	CostShape float64
	CostScale float64
	CostNoise float64
	CostMin   float64
	CostMax   float64

	ValueFactor   float64
	ValueFactorSD float64
	ValueNoise    float64
	ValueMin      float64
	ValueMax      float64

	Mix []Share
}

// DefaultParams returns the parameters of the standard cohort:
// 600 customers, seed 123.
func DefaultParams() Params {
	return Params{
		Seed: 123,
		Size: 600,

		CostShape: 2.0,
		CostScale: 30.0,
		CostNoise: 5,
		CostMin:   5,
		CostMax:   1000,

		ValueFactor:   3.5,
		ValueFactorSD: 0.7,
		ValueNoise:    200,
		ValueMin:      50,
		ValueMax:      20000,

		Mix: []Share{
			{Retail, 0.6},
			{SMB, 0.3},
			{Enterprise, 0.1},
		},
	}
}

// Validate checks that p describes a valid distribution.
func (p Params) Validate() error {
	switch {
	case p.Size <= 0:
		return fmt.Errorf("invalid cohort size %d", p.Size)
	case !(p.CostShape > 0) || !(p.CostScale > 0):
		return fmt.Errorf("invalid gamma parameters (shape %g, scale %g)", p.CostShape, p.CostScale)
	case p.CostNoise < 0 || p.ValueFactorSD < 0 || p.ValueNoise < 0:
		return errors.New("negative noise level")
	case !(p.CostMin <= p.CostMax):
		return fmt.Errorf("invalid cost range [%g, %g]", p.CostMin, p.CostMax)
	case !(p.ValueMin <= p.ValueMax):
		return fmt.Errorf("invalid value range [%g, %g]", p.ValueMin, p.ValueMax)
	case len(p.Mix) == 0:
		return errors.New("no segments")
	}

	var total float64
	seen := make(map[Segment]bool, len(p.Mix))
	for _, s := range p.Mix {
		if _, err := ParseSegment(string(s.Segment)); err != nil {
			return err
		}
		if seen[s.Segment] {
			return fmt.Errorf("duplicate segment %q", s.Segment)
		}
		seen[s.Segment] = true
		if !(s.P >= 0) {
			return fmt.Errorf("invalid probability %g for segment %q", s.P, s.Segment)
		}
		total += s.P
	}
	if math.Abs(total-1) > 1e-9 {
		return fmt.Errorf("segment probabilities sum to %g", total)
	}
	return nil
}

// Customer is one row of a cohort.
type Customer struct {
	AcquisitionCost float64
	LTV             float64
	Segment         Segment
}

// Table is a generated cohort.
type Table struct {
	rows []Customer
}

// Generate draws a cohort from the distribution described by p.
//
// All variates are taken from a single PCG stream seeded with p.Seed, in
// blocks: first all gamma costs, then the cost noise, the value factors,
// the value noise, and finally the segments.
func Generate(p Params) (*Table, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	src := rand.NewPCG(p.Seed, p.Seed)
	n := p.Size

	cost := draw(n, distuv.Gamma{Alpha: p.CostShape, Beta: 1 / p.CostScale, Src: src})
	addTo(cost, draw(n, normal(0, p.CostNoise, src)))

	factor := draw(n, normal(p.ValueFactor, p.ValueFactorSD, src))
	noise := draw(n, normal(0, p.ValueNoise, src))
	value := make([]float64, n)
	for i := range value {
		value[i] = cost[i]*factor[i] + noise[i]
	}

	weights := make([]float64, len(p.Mix))
	for i, s := range p.Mix {
		weights[i] = s.P
	}
	choice := distuv.NewCategorical(weights, src)

	rows := make([]Customer, n)
	for i := range rows {
		rows[i] = Customer{
			AcquisitionCost: clip(cost[i], p.CostMin, p.CostMax),
			LTV:             clip(value[i], p.ValueMin, p.ValueMax),
			Segment:         p.Mix[int(choice.Rand())].Segment,
		}
	}
	return &Table{rows: rows}, nil
}

// MustGenerate is like Generate but panics if p is invalid.
func MustGenerate(p Params) *Table {
	t, err := Generate(p)
	if err != nil {
		panic(err)
	}
	return t
}

type sampler interface {
	Rand() float64
}

func draw(n int, s sampler) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = s.Rand()
	}
	return res
}

// normal returns a normal distribution.  A zero standard deviation gives
// a point mass, but still consumes variates from src.
func normal(mu, sigma float64, src rand.Source) distuv.Normal {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: src}
}

func addTo(dst, x []float64) {
	for i := range dst {
		dst[i] += x[i]
	}
}

func clip(x, lo, hi float64) float64 {
	return min(max(x, lo), hi)
}

// Len returns the number of customers.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the customers.  The slice must not be modified.
func (t *Table) Rows() []Customer {
	return t.rows
}

// Costs returns the acquisition costs.
func (t *Table) Costs() []float64 {
	res := make([]float64, len(t.rows))
	for i, c := range t.rows {
		res[i] = c.AcquisitionCost
	}
	return res
}

// Values returns the customer lifetime values.
func (t *Table) Values() []float64 {
	res := make([]float64, len(t.rows))
	for i, c := range t.rows {
		res[i] = c.LTV
	}
	return res
}

// Segments returns the segment of every customer.
func (t *Table) Segments() []Segment {
	res := make([]Segment, len(t.rows))
	for i, c := range t.rows {
		res[i] = c.Segment
	}
	return res
}

// Frame returns the cohort as a data frame with the columns ColCost,
// ColValue (both float) and ColSegment (string).
func (t *Table) Frame() dataframe.DataFrame {
	seg := make([]string, len(t.rows))
	for i, c := range t.rows {
		seg[i] = string(c.Segment)
	}
	return dataframe.New(
		series.New(t.Costs(), series.Float, ColCost),
		series.New(t.Values(), series.Float, ColValue),
		series.New(seg, series.String, ColSegment),
	)
}
