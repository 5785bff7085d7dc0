package rockfall

import "fmt"

// A Row is one horizontal slice of the chamber. Bits 7 (leftmost) through 1
// (rightmost) are the seven playable columns; every other bit is a wall and
// is permanently set in chamber rows, so a single AND detects both wall and
// rock collisions.
type Row uint16

const (
	Width = 7 // playable columns

	wallMask Row = 0xff01
	openRow      = wallMask
	floorRow Row = 0xffff
)

// column returns the mask for playable column x (0 is leftmost).
func column(x int) Row {
	return 1 << (Width - x)
}

// A Shape is a falling piece: up to four row masks, bottom row first.
type Shape struct {
	rows   [4]Row
	height int
}

// Height is the number of rows the shape occupies.
func (s Shape) Height() int { return s.height }

// Row returns the mask of the shape's i'th row counting from the bottom.
func (s Shape) Row(i int) Row { return s.rows[i] }

func (s Shape) shift(j Jet) Shape {
	for i := 0; i < s.height; i++ {
		if j == Left {
			s.rows[i] <<= 1
		} else {
			s.rows[i] >>= 1
		}
	}
	return s
}

// touchesWall reports whether any bit of s lies outside the playable columns.
func (s Shape) touchesWall() bool {
	for i := 0; i < s.height; i++ {
		if s.rows[i]&wallMask != 0 {
			return true
		}
	}
	return false
}

func (s Shape) String() string {
	b := make([]byte, 0, s.height*(Width+1))
	for i := s.height - 1; i >= 0; i-- {
		for x := 0; x < Width; x++ {
			if s.rows[i]&column(x) != 0 {
				b = append(b, '#')
			} else {
				b = append(b, '.')
			}
		}
		b = append(b, '\n')
	}
	return string(b)
}

// NumShapes is the size of the shape cycle.
const NumShapes = 5

// Shapes at their spawn column: left edge two columns from the left wall.
var shapes = [NumShapes]Shape{
	{rows: [4]Row{0x3c}, height: 1},             // ####
	{rows: [4]Row{0x10, 0x38, 0x10}, height: 3}, // .#. / ### / .#.
	{rows: [4]Row{0x38, 0x08, 0x08}, height: 3}, // ..# / ..# / ###
	{rows: [4]Row{0x20, 0x20, 0x20, 0x20}, height: 4},
	{rows: [4]Row{0x30, 0x30}, height: 2},
}

// ShapeFor returns the shape that spawns at position i of the cycle.
func ShapeFor(i int64) Shape {
	if i < 0 {
		panic(fmt.Sprintf("rockfall: negative shape index %d", i))
	}
	return shapes[i%NumShapes]
}

// spawnJets is the number of jets that act on a new shape before it can
// possibly reach existing rock. A shape spawns with three empty rows under
// it, so it is pushed, falls, is pushed, falls, is pushed, falls, and is
// pushed once more while still above the highest rock.
const spawnJets = 4

// shiftTable[s][combo] is shape s after the four spawn jets encoded in combo
// (first jet in the high bit) have been applied in an empty chamber.
var shiftTable = buildShiftTable()

func buildShiftTable() [NumShapes][1 << spawnJets]Shape {
	var t [NumShapes][1 << spawnJets]Shape
	for si, s := range shapes {
		for combo := range 1 << spawnJets {
			cur := s
			for k := spawnJets - 1; k >= 0; k-- {
				j := Jet(combo >> k & 1)
				if next := cur.shift(j); !next.touchesWall() {
					cur = next
				}
			}
			t[si][combo] = cur
		}
	}
	return t
}
