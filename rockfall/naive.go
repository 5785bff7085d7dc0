package rockfall

import (
	"bytes"
	"io"
	"math"

	"github.com/cespare/aoc2022/geometry"
)

// Shapes as cell offsets from their bottom-left corner.
var naiveShapes = [NumShapes][]geometry.Vector{
	{vec(0, 0), vec(1, 0), vec(2, 0), vec(3, 0)},
	{vec(1, 0), vec(0, 1), vec(1, 1), vec(2, 1), vec(1, 2)},
	{vec(0, 0), vec(1, 0), vec(2, 0), vec(2, 1), vec(2, 2)},
	{vec(0, 0), vec(0, 1), vec(0, 2), vec(0, 3)},
	{vec(0, 0), vec(1, 0), vec(0, 1), vec(1, 1)},
}

var vec = geometry.Vec

// shaft is every cell above the floor and between the walls.
var shaft = geometry.Bounds{
	Min: geometry.Pt(0, 1),
	Max: geometry.Pt(Width-1, math.MaxInt64),
}

// A NaiveTower is the result of SimulateNaive: every settled cell, stored
// individually.
type NaiveTower struct {
	rocks map[geometry.Point]struct{}
	top   int64
}

// SimulateNaive drops target shapes one cell-move at a time into a chamber
// stored as a set of points. It has none of Simulation's shortcuts and is
// meant as a reference for checking it.
func SimulateNaive(jets *JetSchedule, target int64) *NaiveTower {
	js := jets.Clone()
	js.Reset()
	t := &NaiveTower{rocks: make(map[geometry.Point]struct{})}
	for i := int64(0); i < target; i++ {
		shape := naiveShapes[i%NumShapes]
		pos := geometry.Pt(2, t.top+4)
		for {
			push := geometry.Right
			if js.Next() == Left {
				push = geometry.Left
			}
			if t.fits(shape, pos.Add(push)) {
				pos = pos.Add(push)
			}
			if !t.fits(shape, pos.Add(geometry.Down)) {
				break
			}
			pos = pos.Add(geometry.Down)
		}
		for _, v := range shape {
			p := pos.Add(v)
			t.rocks[p] = struct{}{}
			t.top = max(t.top, p.Y)
		}
	}
	return t
}

func (t *NaiveTower) fits(shape []geometry.Vector, at geometry.Point) bool {
	for _, v := range shape {
		p := at.Add(v)
		if !shaft.Contains(p) {
			return false
		}
		if _, ok := t.rocks[p]; ok {
			return false
		}
	}
	return true
}

// Height is the height of the tower.
func (t *NaiveTower) Height() int64 { return t.top }

// Bounds is the smallest rectangle containing every settled cell.
func (t *NaiveTower) Bounds() geometry.Bounds {
	ps := make([]geometry.Point, 0, len(t.rocks))
	for p := range t.rocks {
		ps = append(ps, p)
	}
	return geometry.BoundsOf(ps)
}

// Render writes the top rows rows of the tower in the same form as
// Simulation.Render.
func (t *NaiveTower) Render(w io.Writer, rows int) error {
	var b bytes.Buffer
	for y := t.top; y > t.top-int64(rows); y-- {
		if y == 0 {
			b.WriteString(floorLine)
			break
		}
		b.WriteByte('|')
		for x := int64(0); x < Width; x++ {
			if _, ok := t.rocks[geometry.Pt(x, y)]; ok {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteString("|\n")
	}
	_, err := w.Write(b.Bytes())
	return err
}
