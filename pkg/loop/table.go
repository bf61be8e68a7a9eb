// Package loop finds, for each loop of the reference structure, where a subject
// structure's matching region can be spliced in, and scores the candidate swap.
package loop

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

var (
	ErrInvalidLoopTable = errors.New("invalid loop table")
	ErrUnresolvedLoop   = errors.New("loop boundaries could not be resolved")
)

type Kind int

const (
	NTerminal Kind = iota
	Internal
	CTerminal
)

func (k Kind) String() string {
	switch k {
	case NTerminal:
		return "N"
	case CTerminal:
		return "C"
	}
	return "internal"
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "N":
		*k = NTerminal
	case "C":
		*k = CTerminal
	case "internal":
		*k = Internal
	default:
		return fmt.Errorf("unknown loop kind %q", b)
	}
	return nil
}

// Definition is one loop of the reference: an inclusive range in external numbering.
type Definition struct {
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	Ordinal int    `json:"ordinal,omitempty"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

func NTerm(start, end int) Definition {
	return Definition{Name: "N", Kind: NTerminal, Start: start, End: end}
}

func CTerm(start, end int) Definition {
	return Definition{Name: "C", Kind: CTerminal, Start: start, End: end}
}

func Numbered(ordinal, start, end int) Definition {
	return Definition{Name: strconv.Itoa(ordinal), Kind: Internal, Ordinal: ordinal, Start: start, End: end}
}

// Bounded is a loop with the search limits set by its neighbours. A nil limit means the
// loop is first (Lower) or last (Upper) and the alignment ends are used instead.
type Bounded struct {
	Definition
	Lower *int `json:"lower,omitempty"`
	Upper *int `json:"upper,omitempty"`
}

// Table is an ordered loop table: N-terminal, internal loops by ordinal, C-terminal.
type Table struct {
	loops []Definition
}

// NewTable orders and validates loops.
func NewTable(loops []Definition) (Table, error) {
	sorted := append([]Definition(nil), loops...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Kind != sorted[j].Kind {
			return sorted[i].Kind < sorted[j].Kind
		}
		return sorted[i].Ordinal < sorted[j].Ordinal
	})

	names := make(map[string]bool, len(sorted))
	for i, l := range sorted {
		if l.Name == "" {
			return Table{}, fmt.Errorf("%w: loop %d has no name", ErrInvalidLoopTable, i)
		}
		if names[l.Name] {
			return Table{}, fmt.Errorf("%w: duplicate loop %s", ErrInvalidLoopTable, l.Name)
		}
		names[l.Name] = true
		if l.End < l.Start {
			return Table{}, fmt.Errorf("%w: loop %s ends (%d) before it starts (%d)", ErrInvalidLoopTable, l.Name, l.End, l.Start)
		}
		if i > 0 {
			prev := sorted[i-1]
			if l.Kind == Internal && prev.Kind == Internal && l.Ordinal == prev.Ordinal {
				return Table{}, fmt.Errorf("%w: duplicate ordinal %d", ErrInvalidLoopTable, l.Ordinal)
			}
			if l.Start <= prev.End {
				return Table{}, fmt.Errorf("%w: loop %s (%d-%d) overlaps or precedes loop %s (%d-%d)",
					ErrInvalidLoopTable, l.Name, l.Start, l.End, prev.Name, prev.Start, prev.End)
			}
		}
	}
	return Table{loops: sorted}, nil
}

func (t Table) Len() int { return len(t.loops) }

func (t Table) Loops() []Definition {
	return append([]Definition(nil), t.loops...)
}

// Boundaries returns every loop with its search limits: one past the previous loop's end
// and one before the next loop's start.
func (t Table) Boundaries() []Bounded {
	out := make([]Bounded, len(t.loops))
	for i, l := range t.loops {
		out[i].Definition = l
		if i > 0 {
			lower := t.loops[i-1].End + 1
			out[i].Lower = &lower
		}
		if i < len(t.loops)-1 {
			upper := t.loops[i+1].Start - 1
			out[i].Upper = &upper
		}
	}
	return out
}

// Lookup finds a loop by name.
func (t Table) Lookup(name string) (Bounded, bool) {
	for _, b := range t.Boundaries() {
		if b.Name == name {
			return b, true
		}
	}
	return Bounded{}, false
}
