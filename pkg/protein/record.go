// Package protein runs the loop swap analysis for reference/subject pairs.
package protein

import (
	"github.com/yumyai/loopswap/pkg/align"
	"github.com/yumyai/loopswap/pkg/loop"
	"github.com/yumyai/loopswap/pkg/residue"
	"github.com/yumyai/loopswap/pkg/triad"
)

// Record is the analysis of one reference/subject pair. Loops are in loop table order;
// loops that could not be analysed are listed in LoopFailures instead.
type Record struct {
	Reference    string                      `json:"reference"`
	Subject      string                      `json:"subject"`
	Summary      align.Summary               `json:"summary"`
	Alignment    residue.StructuralAlignment `json:"alignment"`
	Triad        triad.Mapping               `json:"triad"`
	Loops        []loop.Match                `json:"loops"`
	LoopFailures map[string]string           `json:"loop_failures,omitempty"`
}

func (r Record) Loop(name string) (loop.Match, bool) {
	for _, m := range r.Loops {
		if m.Loop.Name == name {
			return m, true
		}
	}
	return loop.Match{}, false
}

// Targets returns the loops flagged as possible swap targets.
func (r Record) Targets() []loop.Match {
	var out []loop.Match
	for _, m := range r.Loops {
		if m.Suitability.PossibleTarget {
			out = append(out, m)
		}
	}
	return out
}
