// Package geometry holds small integer point and vector types shared by the
// puzzle solutions.
package geometry

// Point is a location on an integer grid. Y grows upward.
type Point struct {
	X, Y int64
}

// Vector is a displacement between two Points.
type Vector struct {
	X, Y int64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y int64) Point { return Point{x, y} }

// Vec is shorthand for Vector{x, y}.
func Vec(x, y int64) Vector { return Vector{x, y} }

// Add returns p displaced by v.
func (p Point) Add(v Vector) Point {
	return Point{p.X + v.X, p.Y + v.Y}
}

var (
	Left  = Vector{-1, 0}
	Right = Vector{1, 0}
	Down  = Vector{0, -1}
)

// Bounds is an inclusive axis-aligned rectangle.
type Bounds struct {
	Min, Max Point
}

// Contains reports whether p lies within b.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// BoundsOf returns the smallest Bounds containing every point in ps.
// If ps is empty, the result contains no points.
func BoundsOf[S ~[]Point](ps S) Bounds {
	if len(ps) == 0 {
		return Bounds{Min: Point{0, 0}, Max: Point{-1, -1}}
	}
	b := Bounds{Min: ps[0], Max: ps[0]}
	for _, p := range ps[1:] {
		b.Min.X = min(b.Min.X, p.X)
		b.Min.Y = min(b.Min.Y, p.Y)
		b.Max.X = max(b.Max.X, p.X)
		b.Max.Y = max(b.Max.Y, p.Y)
	}
	return b
}
