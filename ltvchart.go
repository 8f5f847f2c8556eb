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

// Package ltvchart generates a synthetic customer cohort and saves a chart
// of customer lifetime value against acquisition cost as a PNG image of a
// fixed size.
package ltvchart

import (
	"fmt"
	"log/slog"

	"seehuhn.de/go/ltvchart/chart"
	"seehuhn.de/go/ltvchart/cohort"
	"seehuhn.de/go/ltvchart/normalize"
)

// Options controls a run of the chart pipeline.
type Options struct {
	Path   string // output file
	Size   int    // width and height of the output, in pixels
	Params cohort.Params
	Style  chart.Style

	// Logger receives progress messages.  If nil, nothing is logged.
	Logger *slog.Logger
}

// DefaultOptions returns the options for the standard chart, written to
// "chart.png" in the current directory.
func DefaultOptions() Options {
	return Options{
		Path:   "chart.png",
		Size:   512,
		Params: cohort.DefaultParams(),
		Style:  chart.DefaultStyle(),
	}
}

// Result describes the file written by Run.
type Result struct {
	Path          string
	Width, Height int
	Resized       bool // whether the rendered image had to be resampled
}

// Run generates the cohort, renders the chart, saves it and makes sure the
// saved image has the requested size.
func Run(opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tab, err := cohort.Generate(opts.Params)
	if err != nil {
		return Result{}, fmt.Errorf("generating cohort: %w", err)
	}
	logger.Debug("generated cohort", "rows", tab.Len(), "seed", opts.Params.Seed)

	img, err := chart.New(opts.Style).Render(tab.Frame())
	if err != nil {
		return Result{}, fmt.Errorf("rendering chart: %w", err)
	}
	b := img.Bounds()
	logger.Debug("rendered chart", "width", b.Dx(), "height", b.Dy())

	if err := chart.SavePNG(opts.Path, img); err != nil {
		return Result{}, fmt.Errorf("saving chart: %w", err)
	}

	resized, err := normalize.File(opts.Path, opts.Size, opts.Size)
	if err != nil {
		return Result{}, fmt.Errorf("normalizing %s: %w", opts.Path, err)
	}
	logger.Info("normalized image", "path", opts.Path, "size", opts.Size, "resized", resized)

	return Result{
		Path:    opts.Path,
		Width:   opts.Size,
		Height:  opts.Size,
		Resized: resized,
	}, nil
}
