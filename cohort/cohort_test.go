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

package cohort

import (
	"math"
	"slices"
	"testing"

	"github.com/go-gota/gota/series"
)

func TestDeterministic(t *testing.T) {
	p := DefaultParams()
	a := MustGenerate(p)
	b := MustGenerate(p)

	if !slices.Equal(a.Costs(), b.Costs()) {
		t.Error("acquisition costs differ between runs")
	}
	if !slices.Equal(a.Values(), b.Values()) {
		t.Error("lifetime values differ between runs")
	}
	if !slices.Equal(a.Segments(), b.Segments()) {
		t.Error("segments differ between runs")
	}

	p.Seed = 124
	c := MustGenerate(p)
	if slices.Equal(a.Costs(), c.Costs()) {
		t.Error("different seeds gave the same costs")
	}
}

func TestBounds(t *testing.T) {
	p := DefaultParams()
	tab := MustGenerate(p)

	for i, c := range tab.Rows() {
		if c.AcquisitionCost < 5 || c.AcquisitionCost > 1000 {
			t.Errorf("row %d: acquisition cost %g out of range", i, c.AcquisitionCost)
		}
		if c.LTV < 50 || c.LTV > 20000 {
			t.Errorf("row %d: lifetime value %g out of range", i, c.LTV)
		}
	}
}

func TestClipping(t *testing.T) {
	p := DefaultParams()
	p.CostMax = 40
	p.ValueMin = 100
	tab := MustGenerate(p)

	var atMax, atMin int
	for _, c := range tab.Rows() {
		if c.AcquisitionCost > 40 || c.LTV < 100 {
			t.Fatalf("value outside of clip range: %+v", c)
		}
		if c.AcquisitionCost == 40 {
			atMax++
		}
		if c.LTV == 100 {
			atMin++
		}
	}
	if atMax == 0 || atMin == 0 {
		t.Errorf("clipping not applied: %d costs at max, %d values at min", atMax, atMin)
	}
}

func TestSegments(t *testing.T) {
	p := DefaultParams()
	tab := MustGenerate(p)

	counts := make(map[Segment]int)
	for _, s := range tab.Segments() {
		if _, err := ParseSegment(string(s)); err != nil {
			t.Fatal(err)
		}
		counts[s]++
	}
	for _, share := range p.Mix {
		got := float64(counts[share.Segment]) / float64(tab.Len())
		if math.Abs(got-share.P) > 0.07 {
			t.Errorf("segment %s: fraction %.3f, want about %.1f", share.Segment, got, share.P)
		}
	}
}

func TestCorrelation(t *testing.T) {
	tab := MustGenerate(DefaultParams())
	x, y := tab.Costs(), tab.Values()

	var mx, my float64
	for i := range x {
		mx += x[i]
		my += y[i]
	}
	mx /= float64(len(x))
	my /= float64(len(y))
	var sxy, sxx, syy float64
	for i := range x {
		sxy += (x[i] - mx) * (y[i] - my)
		sxx += (x[i] - mx) * (x[i] - mx)
		syy += (y[i] - my) * (y[i] - my)
	}
	if r := sxy / math.Sqrt(sxx*syy); r < 0.3 {
		t.Errorf("cost and value are only weakly correlated: r = %.3f", r)
	}
}

func TestFrame(t *testing.T) {
	p := DefaultParams()
	p.Seed = 123
	p.Size = 600
	df := MustGenerate(p).Frame()
	if df.Err != nil {
		t.Fatal(df.Err)
	}

	if df.Nrow() != 600 {
		t.Errorf("got %d rows, want 600", df.Nrow())
	}
	wantNames := []string{ColCost, ColValue, ColSegment}
	if names := df.Names(); !slices.Equal(names, wantNames) {
		t.Errorf("columns: got %v, want %v", names, wantNames)
	}
	wantTypes := []series.Type{series.Float, series.Float, series.String}
	if types := df.Types(); !slices.Equal(types, wantTypes) {
		t.Errorf("column types: got %v, want %v", types, wantTypes)
	}
}

func TestInvalidParams(t *testing.T) {
	cases := []struct {
		name   string
		modify func(p *Params)
	}{
		{"zero size", func(p *Params) { p.Size = 0 }},
		{"negative shape", func(p *Params) { p.CostShape = -1 }},
		{"zero scale", func(p *Params) { p.CostScale = 0 }},
		{"negative noise", func(p *Params) { p.ValueNoise = -3 }},
		{"inverted cost range", func(p *Params) { p.CostMin, p.CostMax = 10, 5 }},
		{"inverted value range", func(p *Params) { p.ValueMin = math.NaN() }},
		{"no segments", func(p *Params) { p.Mix = nil }},
		{"bad sum", func(p *Params) { p.Mix = []Share{{Retail, 0.5}, {SMB, 0.3}} }},
		{"negative probability", func(p *Params) { p.Mix = []Share{{Retail, 1.2}, {SMB, -0.2}} }},
		{"unknown segment", func(p *Params) { p.Mix = []Share{{"Government", 1}} }},
		{"duplicate segment", func(p *Params) { p.Mix = []Share{{SMB, 0.5}, {SMB, 0.5}} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.modify(&p)
			if _, err := Generate(p); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestMustGeneratePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustGenerate did not panic")
		}
	}()
	p := DefaultParams()
	p.Size = -1
	MustGenerate(p)
}

func TestParseSegment(t *testing.T) {
	for _, s := range Segments() {
		got, err := ParseSegment(string(s))
		if err != nil || got != s {
			t.Errorf("ParseSegment(%q) = %q, %v", s, got, err)
		}
	}
	if _, err := ParseSegment("retail"); err == nil {
		t.Error("segment names should be case sensitive")
	}
}
