package loop

import (
	"errors"
	"fmt"

	"github.com/TuftsBCB/structure"
	"github.com/yumyai/loopswap/logger"
	"github.com/yumyai/loopswap/pkg/pose"
	"github.com/yumyai/loopswap/pkg/residue"
	"go.uber.org/zap"
)

// Pair is a matched column in external numbering.
type Pair struct {
	Reference int `json:"reference"`
	Subject   int `json:"subject"`
}

// Flank holds the aligned columns beside a loop, nearest and farthest from the body,
// over all aligned columns and over those where the subject is in a beta strand.
type Flank struct {
	Nearest      *Pair `json:"nearest,omitempty"`
	Farthest     *Pair `json:"farthest,omitempty"`
	NearestBeta  *Pair `json:"nearest_beta,omitempty"`
	FarthestBeta *Pair `json:"farthest_beta,omitempty"`
}

type Overlap struct {
	Beta bool `json:"beta"`
	// Size is farthest.Subject - nearest.Subject + 1, unset without any match.
	Size *int `json:"size,omitempty"`
}

// Limits are the N and C search boundaries of a loop on one structure.
type Limits struct {
	N *int `json:"n,omitempty"`
	C *int `json:"c,omitempty"`
}

type Sizes struct {
	Reference    int  `json:"reference"`
	Subject      int  `json:"subject"`
	LengthsMatch bool `json:"lengths_match"`
}

// Proximity of the subject loop to the substrate chain of the reference complex.
type Proximity struct {
	Near            bool     `json:"near"`
	ClosestDistance *float64 `json:"closest_distance,omitempty"`
	// Residues are 1-based substrate residue indices within SubstrateDistance.
	Residues     []int   `json:"residues"`
	ResidueCount int     `json:"residue_count"`
	FeatureSize  float64 `json:"feature_size"`
}

// Match is the swap analysis of one loop against one subject.
type Match struct {
	Loop      Definition `json:"loop"`
	Subject   string     `json:"subject"`
	Reference Limits     `json:"reference_limits"`
	// SubjectLimits are the trimmed subject boundaries.
	SubjectLimits Limits      `json:"subject_limits"`
	NFlank        Flank       `json:"n_flank"`
	CFlank        Flank       `json:"c_flank"`
	NOverlap      Overlap     `json:"n_overlap"`
	COverlap      Overlap     `json:"c_overlap"`
	NSplice       *Pair       `json:"n_splice,omitempty"`
	CSplice       *Pair       `json:"c_splice,omitempty"`
	Size          Sizes       `json:"size"`
	RMSD          *float64    `json:"rmsd,omitempty"`
	Proximity     *Proximity  `json:"proximity,omitempty"`
	Suitability   Suitability `json:"suitability"`
}

// Matcher compares reference loops with a subject. Reference and Subject are the structures
// the alignment was numbered against. RMSD may be nil to skip the same-length check.
type Matcher struct {
	Reference pose.Structure
	Subject   pose.Structure
	RMSD      pose.RangeRMSD
}

// Match analyses one loop. It returns ErrUnresolvedLoop when the subject boundaries of the
// loop cannot be found in the alignment. Structure errors are returned as is.
func (m Matcher) Match(loop Bounded, aln residue.StructuralAlignment, subject string) (Match, error) {
	log := logger.With(zap.String("subject", subject), zap.String("loop", loop.Name))

	nLimit, cLimit, err := searchLimits(loop, aln)
	if err != nil {
		return Match{}, err
	}

	hood := aln.ReferenceSlice(nLimit, cLimit)
	trimmed, subjN, subjC := trim(hood)
	nSide, body, cSide := partition(trimmed, loop.Start, loop.End)

	out := Match{
		Loop:          loop.Definition,
		Subject:       subject,
		Reference:     Limits{N: &nLimit, C: &cLimit},
		SubjectLimits: Limits{N: subjN, C: subjC},
		NFlank:        classify(reversed(nSide)),
		CFlank:        classify(cSide),
	}
	out.NOverlap = overlap(out.NFlank)
	out.COverlap = overlap(out.CFlank)
	out.NSplice = splice(out.NFlank)
	out.CSplice = splice(out.CFlank)

	refSize, ok := span(out.NSplice, out.CSplice, out.Reference, func(p *Pair) int { return p.Reference })
	if !ok {
		return Match{}, fmt.Errorf("%w: %s reference size", ErrUnresolvedLoop, loop.Name)
	}
	subjSize, ok := span(out.NSplice, out.CSplice, out.SubjectLimits, func(p *Pair) int { return p.Subject })
	if !ok {
		return Match{}, fmt.Errorf("%w: %s subject size against %s", ErrUnresolvedLoop, loop.Name, subject)
	}
	out.Size = Sizes{Reference: refSize, Subject: subjSize, LengthsMatch: refSize == subjSize}

	if out.Size.LengthsMatch && out.NSplice != nil && out.CSplice != nil && m.RMSD != nil {
		rmsd, err := m.spliceRMSD(aln, *out.NSplice, *out.CSplice)
		switch {
		case errors.Is(err, pose.ErrRangeLengthMismatch):
			// residues missing from one of the files, usually a disordered loop
			log.Debug("rmsd skipped", zap.Error(err))
		case err != nil:
			return Match{}, err
		default:
			out.RMSD = &rmsd
		}
	}

	if m.Reference.ChainCount() == 2 {
		prox, err := m.proximity(body)
		if err != nil {
			return Match{}, err
		}
		out.Proximity = prox
	}

	out.Suitability = Evaluate(out)
	log.Debug("matched loop",
		zap.Int("reference_size", out.Size.Reference),
		zap.Int("subject_size", out.Size.Subject),
		zap.Bool("possible_target", out.Suitability.PossibleTarget))
	return out, nil
}

// searchLimits falls back to the alignment ends for terminal loops.
func searchLimits(loop Bounded, aln residue.StructuralAlignment) (int, int, error) {
	var n, c int
	if loop.Lower != nil {
		n = *loop.Lower
	} else if first, ok := aln.FirstReference(); ok {
		n = first
	} else {
		return 0, 0, fmt.Errorf("%w: %s has no N limit", ErrUnresolvedLoop, loop.Name)
	}
	if loop.Upper != nil {
		c = *loop.Upper
	} else if last, ok := aln.LastReference(); ok {
		c = last
	} else {
		return 0, 0, fmt.Errorf("%w: %s has no C limit", ErrUnresolvedLoop, loop.Name)
	}
	return n, c, nil
}

// trim drops unaligned columns from both ends. The subject limits default to the outermost
// subject numbers and move in to the first aligned column found from each end.
func trim(hood []residue.AlignedResidue) ([]residue.AlignedResidue, *int, *int) {
	var subjN, subjC *int
	lo, hi := len(hood), -1
	for i, c := range hood {
		if subjN == nil && c.Subject.Number != nil {
			subjN = intp(*c.Subject.Number)
		}
		if matched(c) {
			subjN, lo = intp(*c.Subject.Number), i
			break
		}
	}
	for i := len(hood) - 1; i >= 0; i-- {
		c := hood[i]
		if subjC == nil && c.Subject.Number != nil {
			subjC = intp(*c.Subject.Number)
		}
		if matched(c) {
			subjC, hi = intp(*c.Subject.Number), i
			break
		}
	}
	if hi < lo {
		return nil, subjN, subjC
	}
	return hood[lo : hi+1], subjN, subjC
}

// partition splits the trimmed neighbourhood around the loop body. When no reference
// residue of the loop is aligned the body is whatever lies between the flanks.
func partition(cols []residue.AlignedResidue, start, end int) (nSide, body, cSide []residue.AlignedResidue) {
	first, last := -1, -1
	for i, c := range cols {
		n := c.Reference.Number
		if n == nil {
			continue
		}
		if first < 0 && *n >= start {
			first = i
		}
		if *n <= end {
			last = i
		}
	}
	// no column at or past the loop start: everything is N flank. With no column at or
	// before the end, last stays -1 and everything is C flank.
	if first < 0 {
		first = len(cols)
	}
	lo, hi := first, last+1
	if hi < lo {
		lo, hi = hi, lo
	}
	return cols[:lo], cols[lo:hi], cols[hi:]
}

func reversed(cols []residue.AlignedResidue) []residue.AlignedResidue {
	out := make([]residue.AlignedResidue, len(cols))
	for i, c := range cols {
		out[len(cols)-1-i] = c
	}
	return out
}

// classify takes flank columns ordered from the loop outwards.
func classify(cols []residue.AlignedResidue) Flank {
	var aligned, beta []Pair
	for _, c := range cols {
		if !matched(c) {
			continue
		}
		p := Pair{Reference: *c.Reference.Number, Subject: *c.Subject.Number}
		aligned = append(aligned, p)
		if c.Subject.SecStruc == 'E' {
			beta = append(beta, p)
		}
	}
	var f Flank
	if len(aligned) > 0 {
		f.Nearest, f.Farthest = &aligned[0], &aligned[len(aligned)-1]
	}
	if len(beta) > 0 {
		f.NearestBeta, f.FarthestBeta = &beta[0], &beta[len(beta)-1]
	}
	return f
}

func overlap(f Flank) Overlap {
	switch {
	case f.NearestBeta != nil:
		size := 1 + f.FarthestBeta.Subject - f.NearestBeta.Subject
		return Overlap{Beta: true, Size: &size}
	case f.Nearest != nil:
		size := 1 + f.Farthest.Subject - f.Nearest.Subject
		return Overlap{Size: &size}
	}
	return Overlap{}
}

func splice(f Flank) *Pair {
	if f.NearestBeta != nil {
		return f.NearestBeta
	}
	return f.Nearest
}

// span is C - N on one structure, substituting its limits for missing splices.
func span(n, c *Pair, limits Limits, number func(*Pair) int) (int, bool) {
	var lo, hi int
	switch {
	case n != nil:
		lo = number(n)
	case limits.N != nil:
		lo = *limits.N
	default:
		return 0, false
	}
	switch {
	case c != nil:
		hi = number(c)
	case limits.C != nil:
		hi = *limits.C
	default:
		return 0, false
	}
	return hi - lo, true
}

// spliceRMSD recovers the pose ranges between the splices, the reference side by reference
// number and the subject side by subject number.
func (m Matcher) spliceRMSD(aln residue.StructuralAlignment, n, c Pair) (float64, error) {
	refN, okRN := aln.ByReference(n.Reference)
	refC, okRC := aln.ByReference(c.Reference)
	subjN, okSN := aln.BySubject(n.Subject)
	subjC, okSC := aln.BySubject(c.Subject)
	if !okRN || !okRC || !okSN || !okSC ||
		refN.Reference.Pose == nil || refC.Reference.Pose == nil ||
		subjN.Subject.Pose == nil || subjC.Subject.Pose == nil {
		return 0, fmt.Errorf("%w: splice columns %+v/%+v not in alignment", ErrUnresolvedLoop, n, c)
	}
	ra := pose.Range{Start: *refN.Reference.Pose, End: *refC.Reference.Pose}
	rb := pose.Range{Start: *subjN.Subject.Pose, End: *subjC.Subject.Pose}
	if ra.Len() != rb.Len() {
		return 0, fmt.Errorf("%w: reference %s, subject %s", pose.ErrRangeLengthMismatch, ra, rb)
	}
	return m.RMSD.RMSDOverRange(m.Reference, ra, m.Subject, rb)
}

func (m Matcher) proximity(body []residue.AlignedResidue) (*Proximity, error) {
	substrate, err := m.Reference.Chain(2)
	if err != nil {
		return nil, err
	}
	sub := make([]structure.Coords, 0, substrate.ResidueCount())
	for p := 1; p <= substrate.ResidueCount(); p++ {
		ca, err := substrate.CA(p)
		if err != nil {
			return nil, err
		}
		sub = append(sub, ca)
	}
	var loopCA []structure.Coords
	for _, c := range body {
		if c.Subject.Pose == nil {
			continue
		}
		ca, err := m.Subject.CA(*c.Subject.Pose)
		if err != nil {
			return nil, err
		}
		loopCA = append(loopCA, ca)
	}

	prox := &Proximity{Residues: []int{}, ResidueCount: len(loopCA)}
	for i, s := range sub {
		near := false
		for _, l := range loopCA {
			d := pose.Distance(s, l)
			if prox.ClosestDistance == nil || d < *prox.ClosestDistance {
				prox.ClosestDistance = &d
			}
			if d <= SubstrateDistance {
				near = true
			}
		}
		if near {
			prox.Residues = append(prox.Residues, i+1)
		}
	}
	for i := range loopCA {
		for j := i + 1; j < len(loopCA); j++ {
			if d := pose.Distance(loopCA[i], loopCA[j]); d > prox.FeatureSize {
				prox.FeatureSize = d
			}
		}
	}
	prox.Near = len(prox.Residues) > 0
	return prox, nil
}

// matched is a structurally aligned column with both sides numbered.
func matched(c residue.AlignedResidue) bool {
	return c.ResiduesAlign &&
		c.Reference.Pose != nil && c.Reference.Number != nil &&
		c.Subject.Pose != nil && c.Subject.Number != nil
}

func intp(v int) *int { return &v }
