package rockfall

import (
	"errors"
	"fmt"
	"strings"
)

// A Jet is a single horizontal push.
type Jet uint8

const (
	Left Jet = iota
	Right
)

func (j Jet) String() string {
	switch j {
	case Left:
		return "<"
	case Right:
		return ">"
	}
	return fmt.Sprintf("Jet(%d)", uint8(j))
}

// ErrNoJets is returned by ParseJets for input with no jets in it.
var ErrNoJets = errors.New("rockfall: empty jet pattern")

// UnexpectedJetCharacterError reports a character in the jet pattern that is
// neither '<' nor '>'.
type UnexpectedJetCharacterError struct {
	Char rune
	Pos  int
}

func (e *UnexpectedJetCharacterError) Error() string {
	return fmt.Sprintf("rockfall: unexpected jet character %q at position %d", e.Char, e.Pos)
}

// A JetSchedule is the jet pattern repeated forever.
type JetSchedule struct {
	jets   []Jet
	cursor int
}

// ParseJets parses a jet pattern such as ">>><<><>". Surrounding whitespace
// is ignored.
func ParseJets(s string) (*JetSchedule, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrNoJets
	}
	jets := make([]Jet, 0, len(s))
	for i, c := range s {
		switch c {
		case '<':
			jets = append(jets, Left)
		case '>':
			jets = append(jets, Right)
		default:
			return nil, &UnexpectedJetCharacterError{Char: c, Pos: i}
		}
	}
	return &JetSchedule{jets: jets}, nil
}

// Next returns the current jet and advances the schedule.
func (js *JetSchedule) Next() Jet {
	j := js.jets[js.cursor]
	js.cursor++
	if js.cursor == len(js.jets) {
		js.cursor = 0
	}
	return j
}

// next4 consumes four jets and packs them, first jet in the high bit, into
// an index for shiftTable.
func (js *JetSchedule) next4() int {
	var combo int
	for range spawnJets {
		combo = combo<<1 | int(js.Next())
	}
	return combo
}

// Len is the length of one repetition of the pattern.
func (js *JetSchedule) Len() int { return len(js.jets) }

// Cursor is the index of the jet that Next will return.
func (js *JetSchedule) Cursor() int { return js.cursor }

// Reset rewinds the schedule to the start of the pattern.
func (js *JetSchedule) Reset() { js.cursor = 0 }

// Clone returns an independent copy of js positioned at the same cursor.
func (js *JetSchedule) Clone() *JetSchedule {
	return &JetSchedule{jets: js.jets, cursor: js.cursor}
}

func (js *JetSchedule) String() string {
	var b strings.Builder
	b.Grow(len(js.jets))
	for _, j := range js.jets {
		b.WriteString(j.String())
	}
	return b.String()
}
