// Narrow view of a 3-D structure used by the loop analysis.
// Loading, DSSP and superposition live behind these interfaces.

package pose

import (
	"errors"
	"fmt"
	"math"

	"github.com/TuftsBCB/structure"
)

var (
	ErrPoseOutOfRange       = errors.New("pose index out of range")
	ErrNoChain              = errors.New("chain does not exist")
	ErrNoSecondaryStructure = errors.New("secondary structure not assigned")
	ErrRangeLengthMismatch  = errors.New("residue ranges differ in length")
	ErrMissingAlphaCarbon   = errors.New("residue has no CA atom")
)

// Structure is a modelled protein (or one chain of it) addressed by pose number,
// a contiguous 1-based index over its residues.
type Structure interface {
	ID() string
	ResidueCount() int
	ExternalNumber(pose int) (int, error)
	Sequence() string
	SecondaryStructure() (string, error)
	CA(pose int) (structure.Coords, error)
	ChainCount() int
	// Chain is 1-based.
	Chain(index int) (Structure, error)
}

// RangeRMSD computes backbone CA RMSD between two pose ranges.
type RangeRMSD interface {
	RMSDOverRange(a Structure, ra Range, b Structure, rb Range) (float64, error)
}

// Range is an inclusive pose-number range.
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// String formats the range the way residue index selectors are written, e.g. "12-20".
func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Distance is the Euclidean distance between two coordinates.
func Distance(a, b structure.Coords) float64 {
	dx, dy, dz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// CheckPose validates a pose number against s.
func CheckPose(s Structure, pose int) error {
	if pose < 1 || pose > s.ResidueCount() {
		return fmt.Errorf("%w: %d not in 1-%d (%s)", ErrPoseOutOfRange, pose, s.ResidueCount(), s.ID())
	}
	return nil
}
