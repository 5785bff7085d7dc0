// Package rockfall simulates rocks falling into a seven-wide chamber while
// jets of gas push them sideways, and reports how tall the tower grows.
//
// Rows are bit masks with the chamber walls built in, so collision with a
// wall or with settled rock is a single AND. The chamber is a ring buffer,
// and a cycle detector lets very long runs skip whole periods arithmetically.
package rockfall

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Options tunes a Simulation.
type Options struct {
	// Capacity is the number of chamber rows kept in memory to begin with.
	// The ring grows if rock can still fall deeper than it holds.
	Capacity int
	// SkylineRows is how many rows from the top fingerprint a state for
	// cycle detection.
	SkylineRows int
	// MinHeight is the tower height below which no cycle detection is done.
	MinHeight int64
	// Confirmations is how many times in a row the same period must be
	// observed before it is trusted.
	Confirmations int
	// NoCycles turns cycle detection off; every shape is simulated.
	NoCycles bool
}

// DefaultOptions returns the settings used for the puzzle.
func DefaultOptions() Options {
	return Options{
		Capacity:      1024,
		SkylineRows:   100,
		MinHeight:     100,
		Confirmations: 2,
	}
}

func (o Options) validate() error {
	if o.Capacity < MinCapacity {
		return fmt.Errorf("rockfall: capacity %d is less than %d", o.Capacity, MinCapacity)
	}
	if o.NoCycles {
		return nil
	}
	if o.SkylineRows < 1 {
		return errors.New("rockfall: skyline must have at least one row")
	}
	if need := 2 * (o.SkylineRows + headroom); o.Capacity < need {
		return fmt.Errorf("rockfall: capacity %d cannot hold a %d-row skyline (need %d)",
			o.Capacity, o.SkylineRows, need)
	}
	if o.MinHeight < int64(o.SkylineRows) {
		return fmt.Errorf("rockfall: min height %d is below skyline rows %d", o.MinHeight, o.SkylineRows)
	}
	if o.Confirmations < 1 {
		return errors.New("rockfall: confirmations must be at least 1")
	}
	return nil
}

// A Simulation is a single run: it owns its chamber, its place in the jet
// pattern, and its cycle detector. Independent Simulations share nothing.
type Simulation struct {
	chamber  *Chamber
	jets     *JetSchedule
	steps    int64
	detector *cycleDetector // nil if cycle detection is off
}

// New starts a simulation with an empty chamber at the beginning of the jet
// pattern. jets is not modified.
func New(jets *JetSchedule, opts Options) (*Simulation, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	js := jets.Clone()
	js.Reset()
	s := &Simulation{
		chamber: NewChamber(opts.Capacity),
		jets:    js,
	}
	if !opts.NoCycles {
		s.detector = newCycleDetector(opts)
	}
	return s, nil
}

// Run drops shapes until target of them have settled, skipping whole cycles
// once one is confirmed, and returns the tower height.
func (s *Simulation) Run(target int64) int64 {
	for s.steps < target {
		s.Drop()
		if s.detector != nil && s.detector.state == Confirmed {
			s.skipCycles(target)
		}
	}
	return s.chamber.Height()
}

// Drop lets exactly one shape fall until it settles.
func (s *Simulation) Drop() {
	s.drop()
	if s.detector != nil {
		s.detector.observe(s.steps, int(s.steps%NumShapes), s.jets.Cursor(), s.chamber)
	}
}

func (s *Simulation) drop() {
	c := s.chamber
	// The four spawn jets can only be stopped by the walls, so they come
	// straight from the table, leaving the shape just above the tower.
	sh := shiftTable[s.steps%NumShapes][s.jets.next4()]
	bottom := c.Height() + 1
	for !s.collides(sh, bottom-1) {
		bottom--
		if next := sh.shift(s.jets.Next()); !s.collides(next, bottom) {
			sh = next
		}
	}
	for i := 0; i < sh.height; i++ {
		c.MarkOccupied(bottom+int64(i), sh.rows[i])
	}
	c.AdvanceTop(bottom + int64(sh.height) - 1)
	s.steps++
}

func (s *Simulation) collides(sh Shape, bottom int64) bool {
	for i := 0; i < sh.height; i++ {
		if sh.rows[i]&s.chamber.Row(bottom+int64(i)) != 0 {
			return true
		}
	}
	return false
}

// skipCycles advances by as many whole periods as fit before target.
func (s *Simulation) skipCycles(target int64) {
	d := s.detector
	if d.length <= 0 || d.delta <= 0 || d.length%NumShapes != 0 {
		panic(fmt.Sprintf("rockfall: inconsistent cycle (length %d, delta %d)", d.length, d.delta))
	}
	n := (target - s.steps) / d.length
	if n <= 0 {
		return
	}
	s.steps += n * d.length
	s.chamber.Skip(n * d.delta)
}

// Steps is the number of shapes that have settled, including skipped ones.
func (s *Simulation) Steps() int64 { return s.steps }

// Height is the current tower height.
func (s *Simulation) Height() int64 { return s.chamber.Height() }

// Chamber exposes the simulation's chamber for inspection.
func (s *Simulation) Chamber() *Chamber { return s.chamber }

// CycleStatus reports the cycle detector's progress. If detection is off,
// the state is always Searching.
func (s *Simulation) CycleStatus() CycleStatus {
	if s.detector == nil {
		return CycleStatus{}
	}
	return s.detector.status()
}

// Render writes up to rows rows from the top of the tower, highest first,
// in the usual "|..##...|" form. The floor, if reached, is drawn as
// "+-------+".
func (s *Simulation) Render(w io.Writer, rows int) error {
	c := s.chamber
	var b bytes.Buffer
	for n := c.Height(); n > c.Height()-int64(rows) && n >= c.Base(); n-- {
		if n == 0 {
			b.WriteString(floorLine)
			break
		}
		r := c.Row(n)
		b.WriteByte('|')
		for x := 0; x < Width; x++ {
			if r&column(x) != 0 {
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

const floorLine = "+-------+\n"
