// Package triad carries the catalytic triad of the reference over to the subject.
package triad

import (
	"fmt"

	"github.com/yumyai/loopswap/pkg/residue"
)

// Spec gives the reference external number of each triad role.
type Spec struct {
	Nucleophile int `json:"nucleophile" yaml:"N"`
	Histidine   int `json:"histidine" yaml:"H"`
	Acid        int `json:"acid" yaml:"A"`
}

// Residue is a mapped subject residue.
type Residue struct {
	Number int  `json:"number"`
	Type   byte `json:"type"`
}

func (r *Residue) String() string {
	if r == nil {
		return "None"
	}
	return fmt.Sprintf("%c%d", r.Type, r.Number)
}

// Mapping holds the accepted subject residues; a role is nil when unmapped or of the
// wrong chemistry.
type Mapping struct {
	Nucleophile *Residue `json:"nucleophile,omitempty"`
	Histidine   *Residue `json:"histidine,omitempty"`
	Acid        *Residue `json:"acid,omitempty"`
}

var accepted = struct{ nucleophile, histidine, acid string }{
	nucleophile: "ACS",
	histidine:   "H",
	acid:        "DE",
}

// Map looks up each role in the alignment. When several columns carry the role's reference
// number, the last one with a subject residue wins.
func Map(spec Spec, aln residue.StructuralAlignment) Mapping {
	return Mapping{
		Nucleophile: role(aln, spec.Nucleophile, accepted.nucleophile),
		Histidine:   role(aln, spec.Histidine, accepted.histidine),
		Acid:        role(aln, spec.Acid, accepted.acid),
	}
}

func role(aln residue.StructuralAlignment, number int, types string) *Residue {
	cols := aln.ReferenceColumns(number)
	for i := len(cols) - 1; i >= 0; i-- {
		c := cols[i]
		if c.Subject.Number == nil {
			continue
		}
		if !contains(types, c.Subject.Letter) {
			return nil
		}
		return &Residue{Number: *c.Subject.Number, Type: c.Subject.Letter}
	}
	return nil
}

func contains(s string, c byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return true
		}
	}
	return false
}
