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

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"seehuhn.de/go/ltvchart"
)

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ltvchart",
		Short: "Plot customer lifetime value against acquisition cost",
		Long: `Generates a synthetic cohort of customers and writes a scatter plot of
lifetime value against acquisition cost, coloured by segment and with a
least squares trend line, to chart.png (512x512 pixels).`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runChart,
	}
}

func runChart(cmd *cobra.Command, _ []string) error {
	opts := ltvchart.DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	res, err := ltvchart.Run(opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s (%dx%d)\n", res.Path, res.Width, res.Height)
	return nil
}
