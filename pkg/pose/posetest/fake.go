// Package posetest provides an in-memory pose.Structure for tests.
package posetest

import (
	"fmt"

	"github.com/TuftsBCB/structure"
	"github.com/yumyai/loopswap/pkg/pose"
)

// Residue is one fixture residue.
type Residue struct {
	Letter   byte
	Number   int
	SecStruc byte
	CA       structure.Coords
}

// Fake is a structure assembled from fixture residues. Chains, when set, are
// the per-chain views returned by Chain; the fake itself is the whole complex.
type Fake struct {
	Name     string
	Residues []Residue
	Chains   []*Fake
}

// New builds a single-chain fake from a sequence, numbering residues from
// first, with CA atoms laid out 3.8 Å apart on the x axis.
func New(name, sequence string, first int) *Fake {
	f := &Fake{Name: name}
	for i := 0; i < len(sequence); i++ {
		f.Residues = append(f.Residues, Residue{
			Letter:   sequence[i],
			Number:   first + i,
			SecStruc: 'L',
			CA:       structure.Coords{X: 3.8 * float64(i)},
		})
	}
	return f
}

// Complex joins chains into one structure with pose numbering running across all of them.
func Complex(name string, chains ...*Fake) *Fake {
	f := &Fake{Name: name, Chains: chains}
	for _, c := range chains {
		f.Residues = append(f.Residues, c.Residues...)
	}
	return f
}

func (f *Fake) ID() string { return f.Name }

func (f *Fake) ResidueCount() int { return len(f.Residues) }

func (f *Fake) ExternalNumber(p int) (int, error) {
	r, err := f.residue(p)
	if err != nil {
		return 0, err
	}
	return r.Number, nil
}

func (f *Fake) Sequence() string {
	bs := make([]byte, len(f.Residues))
	for i, r := range f.Residues {
		bs[i] = r.Letter
	}
	return string(bs)
}

func (f *Fake) SecondaryStructure() (string, error) {
	bs := make([]byte, len(f.Residues))
	for i, r := range f.Residues {
		bs[i] = r.SecStruc
	}
	return string(bs), nil
}

func (f *Fake) CA(p int) (structure.Coords, error) {
	r, err := f.residue(p)
	if err != nil {
		return structure.Coords{}, err
	}
	return r.CA, nil
}

func (f *Fake) ChainCount() int {
	if len(f.Chains) == 0 {
		return 1
	}
	return len(f.Chains)
}

func (f *Fake) Chain(index int) (pose.Structure, error) {
	if len(f.Chains) == 0 && index == 1 {
		return f, nil
	}
	if index < 1 || index > len(f.Chains) {
		return nil, fmt.Errorf("%w: %d in %s", pose.ErrNoChain, index, f.Name)
	}
	return f.Chains[index-1], nil
}

// SetCA moves the CA of pose p.
func (f *Fake) SetCA(p int, c structure.Coords) {
	f.Residues[p-1].CA = c
}

func (f *Fake) residue(p int) (Residue, error) {
	if err := pose.CheckPose(f, p); err != nil {
		return Residue{}, err
	}
	return f.Residues[p-1], nil
}

// RMSD is a pose.RangeRMSD that returns a fixed value and records its calls.
type RMSD struct {
	Value float64
	Err   error
	Calls []Call
}

type Call struct {
	A, B   string
	RA, RB pose.Range
}

func (r *RMSD) RMSDOverRange(a pose.Structure, ra pose.Range, b pose.Structure, rb pose.Range) (float64, error) {
	r.Calls = append(r.Calls, Call{A: a.ID(), B: b.ID(), RA: ra, RB: rb})
	if r.Err != nil {
		return 0, r.Err
	}
	return r.Value, nil
}
