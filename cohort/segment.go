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

import "fmt"

// Segment is a customer grouping.
type Segment string

// The known segments.
const (
	Retail     Segment = "Retail"
	SMB        Segment = "SMB"
	Enterprise Segment = "Enterprise"
)

// Segments returns all segments, in legend order.
func Segments() []Segment {
	return []Segment{Retail, SMB, Enterprise}
}

// ParseSegment converts a segment name into a Segment.
func ParseSegment(s string) (Segment, error) {
	switch seg := Segment(s); seg {
	case Retail, SMB, Enterprise:
		return seg, nil
	}
	return "", fmt.Errorf("unknown segment %q", s)
}
