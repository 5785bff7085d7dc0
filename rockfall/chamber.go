package rockfall

import (
	"encoding/binary"
	"fmt"
)

// headroom is the number of rows above the highest rock that must stay
// resident: a shape spawns with its bottom four rows up and is at most four
// rows tall.
const headroom = 8

// A Chamber is the occupancy grid of the shaft, stored as a ring of rows.
//
// Only a window of rows near the top is resident. When the ring fills up,
// rows below the deepest cell a falling shape could still reach are wiped
// and reused for new rows at the top, up to half the ring at a time. If the
// tower has an open shaft so deep that nothing can be evicted, the ring
// doubles instead. Memory use stays bounded by how deep rock can still fall,
// not by how tall the tower gets.
type Chamber struct {
	rows  []Row
	start int   // slot holding row base
	base  int64 // lowest resident absolute row
	top   int64 // highest occupied absolute row; 0 is the floor
}

// MinCapacity is the smallest initial ring size.
const MinCapacity = 4 * headroom

// NewChamber returns an empty chamber that starts with room for capacity
// rows.
func NewChamber(capacity int) *Chamber {
	if capacity < MinCapacity {
		panic(fmt.Sprintf("rockfall: chamber capacity %d too small", capacity))
	}
	c := &Chamber{rows: make([]Row, capacity)}
	for i := range c.rows {
		c.rows[i] = openRow
	}
	c.rows[0] = floorRow
	return c
}

func (c *Chamber) slot(n int64) int {
	if n < c.base || n >= c.base+int64(len(c.rows)) {
		panic(fmt.Sprintf("rockfall: row %d outside resident window [%d, %d)",
			n, c.base, c.base+int64(len(c.rows))))
	}
	return (c.start + int(n-c.base)) % len(c.rows)
}

// Row returns the occupancy of absolute row n, walls included.
// It panics if n is not resident.
func (c *Chamber) Row(n int64) Row {
	return c.rows[c.slot(n)]
}

// MarkOccupied sets the cells of mask in row n.
func (c *Chamber) MarkOccupied(n int64, mask Row) {
	c.rows[c.slot(n)] |= mask
}

// AdvanceTop records that row top now holds rock. If that leaves too little
// room above the tower, unreachable rows are evicted or the ring grows.
func (c *Chamber) AdvanceTop(top int64) {
	if top <= c.top {
		return
	}
	c.top = top
	for c.Used()+headroom >= int64(len(c.rows)) {
		if !c.compact() {
			c.grow()
		}
	}
}

// Reachable returns the lowest row in which a falling shape could still
// occupy a cell. Shape cells only move down or sideways through open cells,
// so this sweeps down from the open row above the tower, spreading
// sideways within each row.
func (c *Chamber) Reachable() int64 {
	reach := ^c.Row(c.top+1) // every column is open above the top
	low := c.top + 1
	for n := c.top; n >= c.base; n-- {
		open := ^c.Row(n)
		reach &= open
		for reach != 0 {
			spread := (reach | reach<<1 | reach>>1) & open
			if spread == reach {
				break
			}
			reach = spread
		}
		if reach == 0 {
			break
		}
		low = n
	}
	return low
}

// compact evicts rows that can never be touched again, at most half the
// ring. A shape resting on row r tests row r-1, so that row is kept too.
// It reports whether anything was evicted.
func (c *Chamber) compact() bool {
	evict := min(c.Reachable()-1-c.base, int64(len(c.rows)/2))
	if evict <= 0 {
		return false
	}
	for i := 0; i < int(evict); i++ {
		c.rows[(c.start+i)%len(c.rows)] = openRow
	}
	c.start = (c.start + int(evict)) % len(c.rows)
	c.base += evict
	return true
}

// grow doubles the ring, keeping every resident row.
func (c *Chamber) grow() {
	rows := make([]Row, 2*len(c.rows))
	for i := range rows {
		if i < len(c.rows) {
			rows[i] = c.rows[(c.start+i)%len(c.rows)]
		} else {
			rows[i] = openRow
		}
	}
	c.rows = rows
	c.start = 0
}

// Skip relabels every resident row delta rows higher. The contents of the
// window are unchanged; only the absolute row numbers move.
func (c *Chamber) Skip(delta int64) {
	if delta < 0 {
		panic(fmt.Sprintf("rockfall: negative chamber skip %d", delta))
	}
	c.base += delta
	c.top += delta
}

// Height is the absolute index of the highest occupied row, which is also
// the height of the tower above the floor.
func (c *Chamber) Height() int64 { return c.top }

// Base is the lowest resident absolute row.
func (c *Chamber) Base() int64 { return c.base }

// Used is the number of resident rows from the base up to the highest rock.
func (c *Chamber) Used() int64 { return c.top - c.base + 1 }

// Capacity is the number of rows the ring currently holds.
func (c *Chamber) Capacity() int { return len(c.rows) }

// SizeBytes is the memory held by the ring.
func (c *Chamber) SizeBytes() uint64 { return uint64(len(c.rows)) * 2 }

// Skyline appends the top n rows, highest first, to buf.
func (c *Chamber) Skyline(n int, buf []byte) []byte {
	for i := int64(0); i < int64(n); i++ {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(c.Row(c.top-i)))
	}
	return buf
}
