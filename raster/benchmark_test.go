package raster

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/vec"
)

// markerCentres spreads n marker positions over a size×size canvas.
func markerCentres(n, size int) []vec.Vec2 {
	res := make([]vec.Vec2, n)
	for i := range res {
		res[i] = vec.Vec2{
			X: float64((i*37)%size) + 0.3,
			Y: float64((i*91)%size) + 0.7,
		}
	}
	return res
}

// BenchmarkRasteriserMarkers draws small circular markers, as used for
// scatter plots.
func BenchmarkRasteriserMarkers(b *testing.B) {
	for _, n := range []int{100, 600, 5000} {
		b.Run(fmt.Sprintf("%d", n), func(b *testing.B) {
			const size = 512
			clip := clipRect(size, size)
			r := NewRasteriser(clip)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			emit := func(y, xMin int, coverage []float32) {
				row := dst.Pix[y*dst.Stride+xMin:]
				for i, c := range coverage {
					row[i] = uint8(c * 255)
				}
			}
			centres := markerCentres(n, size)

			b.ReportAllocs()
			for b.Loop() {
				for _, c := range centres {
					r.FillNonZero(Circle(c.X, c.Y, 3.7), emit)
				}
			}
		})
	}
}

// BenchmarkVectorMarkers draws the same markers with x/image/vector.
func BenchmarkVectorMarkers(b *testing.B) {
	for _, n := range []int{100, 600, 5000} {
		b.Run(fmt.Sprintf("%d", n), func(b *testing.B) {
			const size = 512
			r := vector.NewRasterizer(size, size)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			src := image.NewUniform(color.Alpha{255})
			centres := markerCentres(n, size)

			b.ReportAllocs()
			for b.Loop() {
				for _, c := range centres {
					r.Reset(size, size)
					addCircleToVector(r, float32(c.X), float32(c.Y), 3.7)
					r.Draw(dst, dst.Bounds(), src, image.Point{})
				}
			}
		})
	}
}

func addCircleToVector(r *vector.Rasterizer, cx, cy, radius float32) {
	const k = float32(kappa)
	kr := k * radius
	r.MoveTo(cx+radius, cy)
	r.CubeTo(cx+radius, cy+kr, cx+kr, cy+radius, cx, cy+radius)
	r.CubeTo(cx-kr, cy+radius, cx-radius, cy+kr, cx-radius, cy)
	r.CubeTo(cx-radius, cy-kr, cx-kr, cy-radius, cx, cy-radius)
	r.CubeTo(cx+kr, cy-radius, cx+radius, cy-kr, cx+radius, cy)
	r.ClosePath()
}

// BenchmarkStrokeLine measures a thin stroked line across the canvas, as
// used for grid lines and the regression line.
func BenchmarkStrokeLine(b *testing.B) {
	r := NewRasteriser(clipRect(512, 512))
	r.Width = 1.07
	line := Polyline(vec.Vec2{X: 40, Y: 470}, vec.Vec2{X: 490, Y: 30})
	emit := func(y, xMin int, coverage []float32) {}

	b.ReportAllocs()
	for b.Loop() {
		r.Stroke(line, emit)
	}
}
