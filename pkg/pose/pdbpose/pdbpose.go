// Package pdbpose exposes a PDB entry read by github.com/TuftsBCB/io/pdb as a pose.Structure.
//
// Pose numbering runs over the ATOM residues of the first model of every chain, in file order.
// Secondary structure is taken from the HELIX and SHEET records of the same file.
package pdbpose

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/TuftsBCB/io/pdb"
	"github.com/TuftsBCB/structure"
	"github.com/yumyai/loopswap/pkg/pose"
)

type Structure struct {
	id       string
	residues []*pdb.Residue
	chains   []byte // chain ident per pose
	ss       []byte // nil when the file has no HELIX/SHEET records
	idents   []byte // distinct chains in order
}

// Load reads a PDB file (optionally gzipped) and names the structure after
// the file's base name.
func Load(path string) (*Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) == ".gz" {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		data, err = io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
	}
	return Parse(IDFromPath(path), path, data)
}

// Parse builds a structure from raw PDB text.
func Parse(id, path string, data []byte) (*Structure, error) {
	entry, err := pdb.Read(bytes.NewReader(data), path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	s := FromEntry(id, entry)
	spans, err := readSecondary(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("secondary structure %s: %w", path, err)
	}
	if len(spans) > 0 {
		s.ss = assign(s, spans)
	}
	return s, nil
}

// FromEntry wraps an already parsed entry. The result has no secondary structure.
func FromEntry(id string, entry *pdb.Entry) *Structure {
	s := &Structure{id: id}
	for _, chain := range entry.Chains {
		if len(chain.Models) == 0 {
			continue
		}
		added := false
		for _, r := range chain.Models[0].Residues {
			if !isPolymer(r) {
				continue
			}
			s.residues = append(s.residues, r)
			s.chains = append(s.chains, chain.Ident)
			added = true
		}
		if added {
			s.idents = append(s.idents, chain.Ident)
		}
	}
	return s
}

// IDFromPath is the file name without directory and extensions, e.g. "1lvm" for "data/1lvm.pdb.gz".
func IDFromPath(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

// isPolymer drops ligand residues made only of HETATM records.
func isPolymer(r *pdb.Residue) bool {
	for _, a := range r.Atoms {
		if !a.Het {
			return true
		}
	}
	return false
}

func (s *Structure) ID() string { return s.id }

func (s *Structure) ResidueCount() int { return len(s.residues) }

func (s *Structure) ExternalNumber(p int) (int, error) {
	if err := pose.CheckPose(s, p); err != nil {
		return 0, err
	}
	return s.residues[p-1].SequenceNum, nil
}

func (s *Structure) Sequence() string {
	var b strings.Builder
	b.Grow(len(s.residues))
	for _, r := range s.residues {
		b.WriteByte(byte(r.Name))
	}
	return b.String()
}

func (s *Structure) SecondaryStructure() (string, error) {
	if s.ss == nil {
		return "", fmt.Errorf("%w: %s", pose.ErrNoSecondaryStructure, s.id)
	}
	return string(s.ss), nil
}

// SetSecondaryStructure overrides the per-residue assignment, e.g. with DSSP output.
func (s *Structure) SetSecondaryStructure(ss string) error {
	if len(ss) != len(s.residues) {
		return fmt.Errorf("secondary structure for %s has %d letters, want %d", s.id, len(ss), len(s.residues))
	}
	s.ss = []byte(ss)
	return nil
}

func (s *Structure) CA(p int) (structure.Coords, error) {
	if err := pose.CheckPose(s, p); err != nil {
		return structure.Coords{}, err
	}
	r := s.residues[p-1]
	c, ok := r.Ca()
	if !ok {
		return structure.Coords{}, fmt.Errorf("%w: %s residue %d", pose.ErrMissingAlphaCarbon, s.id, r.SequenceNum)
	}
	return c, nil
}

func (s *Structure) ChainCount() int { return len(s.idents) }

func (s *Structure) Chain(index int) (pose.Structure, error) {
	if index < 1 || index > len(s.idents) {
		return nil, fmt.Errorf("%w: %d in %s", pose.ErrNoChain, index, s.id)
	}
	ident := s.idents[index-1]
	sub := &Structure{id: s.id + string(ident), idents: []byte{ident}}
	for i, r := range s.residues {
		if s.chains[i] != ident {
			continue
		}
		sub.residues = append(sub.residues, r)
		sub.chains = append(sub.chains, ident)
		if s.ss != nil {
			sub.ss = append(sub.ss, s.ss[i])
		}
	}
	return sub, nil
}

// RMSD superposes CA atoms with the QCP method from github.com/TuftsBCB/structure.
type RMSD struct{}

func (RMSD) RMSDOverRange(a pose.Structure, ra pose.Range, b pose.Structure, rb pose.Range) (float64, error) {
	if ra.Len() != rb.Len() {
		return 0, fmt.Errorf("%w: %s %s vs %s %s", pose.ErrRangeLengthMismatch, a.ID(), ra, b.ID(), rb)
	}
	if ra.Len() == 0 {
		return 0, fmt.Errorf("%w: empty range %s", pose.ErrRangeLengthMismatch, ra)
	}
	ca, err := coords(a, ra)
	if err != nil {
		return 0, err
	}
	cb, err := coords(b, rb)
	if err != nil {
		return 0, err
	}
	return structure.RMSD(ca, cb), nil
}

func coords(s pose.Structure, r pose.Range) ([]structure.Coords, error) {
	out := make([]structure.Coords, 0, r.Len())
	for p := r.Start; p <= r.End; p++ {
		c, err := s.CA(p)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
