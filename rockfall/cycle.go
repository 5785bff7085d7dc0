package rockfall

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/kamstrup/intmap"
)

// CycleState is the progress of the cycle detector.
type CycleState int

const (
	Searching CycleState = iota
	Candidate
	Confirmed
)

func (s CycleState) String() string {
	switch s {
	case Searching:
		return "searching"
	case Candidate:
		return "candidate"
	case Confirmed:
		return "confirmed"
	}
	return fmt.Sprintf("CycleState(%d)", int(s))
}

// CycleStatus is a snapshot of the cycle detector.
type CycleStatus struct {
	State CycleState
	// Length and Delta are the number of shapes in one period and the
	// height the tower gains over it. They are zero while Searching.
	Length  int64
	Delta   int64
	Matches int
	Keys    int // distinct skyline keys recorded
}

// An observation is the simulation state right after a shape settled.
// state holds the next shape index, the jet cursor, and the skyline rows,
// and is compared in full on a hash hit.
type observation struct {
	steps  int64
	height int64
	state  []byte
}

// cycleDetector watches the skyline after every settle and proposes a period
// once the same state has recurred. A period is trusted only after the same
// (length, delta) has been seen confirmations times in a row.
type cycleDetector struct {
	skylineRows   int
	minHeight     int64
	confirmations int

	state   CycleState
	length  int64
	delta   int64
	matches int

	seen *intmap.Map[uint64, []observation]
	buf  []byte
}

func newCycleDetector(opts Options) *cycleDetector {
	return &cycleDetector{
		skylineRows:   opts.SkylineRows,
		minHeight:     opts.MinHeight,
		confirmations: opts.Confirmations,
		seen:          intmap.New[uint64, []observation](1024),
	}
}

// observe records the state after a settle and reports whether this
// observation confirmed a cycle.
func (d *cycleDetector) observe(steps int64, shape int, jet int, c *Chamber) bool {
	if d.state == Confirmed || c.Height() < d.minHeight {
		return false
	}
	d.buf = append(d.buf[:0], byte(shape))
	d.buf = binary.AppendUvarint(d.buf, uint64(jet))
	d.buf = c.Skyline(d.skylineRows, d.buf)
	key := xxhash.Sum64(d.buf)

	obs, _ := d.seen.Get(key)
	var prev *observation
	for i := len(obs) - 1; i >= 0; i-- {
		if bytes.Equal(obs[i].state, d.buf) {
			prev = &obs[i]
			break
		}
	}
	length, delta := int64(0), int64(0)
	if prev != nil {
		length = steps - prev.steps
		delta = c.Height() - prev.height
	}
	d.seen.Put(key, append(obs, observation{
		steps:  steps,
		height: c.Height(),
		state:  bytes.Clone(d.buf),
	}))
	if prev == nil {
		return false
	}

	if d.state == Candidate && length == d.length && delta == d.delta {
		d.matches++
	} else {
		d.state = Candidate
		d.length = length
		d.delta = delta
		d.matches = 1
	}
	if d.matches < d.confirmations {
		return false
	}
	d.state = Confirmed
	d.seen = nil
	return true
}

func (d *cycleDetector) status() CycleStatus {
	st := CycleStatus{
		State:   d.state,
		Length:  d.length,
		Delta:   d.delta,
		Matches: d.matches,
	}
	if d.seen != nil {
		st.Keys = d.seen.Len()
	}
	return st
}
