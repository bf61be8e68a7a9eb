package residue

import (
	"fmt"
	"strings"

	"github.com/yumyai/loopswap/pkg/align"
	"github.com/yumyai/loopswap/pkg/pose"
)

const seedLength = 6

// isGap reports symbols that do not consume a residue of the structure.
func isGap(c byte) bool {
	switch c {
	case '-', '.', ' ', 'x', 'X':
		return true
	}
	return false
}

// anchor returns the 0-based position in s's sequence where row's residues begin.
func anchor(row string, s pose.Structure) (int, error) {
	var b strings.Builder
	for i := 0; i < len(row) && b.Len() < seedLength; i++ {
		if !isGap(row[i]) {
			b.WriteByte(upper(row[i]))
		}
	}
	seed := b.String()
	idx := strings.Index(s.Sequence(), seed)
	if idx < 0 {
		return 0, fmt.Errorf("%w: %q in %s", ErrAnchorNotFound, seed, s.ID())
	}
	return idx, nil
}

// walker hands out pose numbers for one side of the alignment. fallback is the structure's
// own secondary structure, used where the alignment row leaves a residue blank.
type walker struct {
	s        pose.Structure
	row      string
	ss       string
	fallback string
	pose     int
}

func newWalker(s pose.Structure, row, ss string, start int) *walker {
	w := &walker{s: s, row: row, ss: ss, pose: start}
	if fallback, err := s.SecondaryStructure(); err == nil {
		w.fallback = fallback
	}
	return w
}

func (w *walker) secondary(col int) byte {
	c := w.ss[col]
	if c == ' ' && w.pose-1 < len(w.fallback) {
		c = w.fallback[w.pose-1]
	}
	return upper(c)
}

func (w *walker) side(col int) (Side, byte, error) {
	c := w.row[col]
	if isGap(c) {
		return Side{}, 0, nil
	}
	w.pose++
	num, err := w.s.ExternalNumber(w.pose)
	if err != nil {
		return Side{}, 0, fmt.Errorf("column %d: %w", col, err)
	}
	return Side{
		Pose:     intPtr(w.pose),
		Number:   intPtr(num),
		SecStruc: w.secondary(col),
	}, c, nil
}

// MapAlignedResidues walks the alignment columns and numbers each side against its
// structure. Columns with neither side present are skipped.
func MapAlignedResidues(aln align.Alignment, ref, subj pose.Structure) (StructuralAlignment, error) {
	for _, row := range []string{aln.RefSS, aln.Ident, aln.SubjSeq, aln.SubjSS} {
		if len(row) != aln.Len() {
			return StructuralAlignment{}, fmt.Errorf("%w: rows differ in length", align.ErrMalformedAlignment)
		}
	}
	refStart, err := anchor(aln.RefSeq, ref)
	if err != nil {
		return StructuralAlignment{}, err
	}
	subjStart, err := anchor(aln.SubjSeq, subj)
	if err != nil {
		return StructuralAlignment{}, err
	}

	rw := newWalker(ref, aln.RefSeq, aln.RefSS, refStart)
	sw := newWalker(subj, aln.SubjSeq, aln.SubjSS, subjStart)

	columns := make([]AlignedResidue, 0, aln.Len())
	for col := 0; col < aln.Len(); col++ {
		r, rl, err := rw.side(col)
		if err != nil {
			return StructuralAlignment{}, err
		}
		s, sl, err := sw.side(col)
		if err != nil {
			return StructuralAlignment{}, err
		}
		if !r.Present() && !s.Present() {
			continue
		}
		ar, err := NewAlignedResidue(col, r, rl, s, sl, aln.Ident[col])
		if err != nil {
			return StructuralAlignment{}, err
		}
		columns = append(columns, ar)
	}
	return StructuralAlignment{columns: columns}, nil
}
