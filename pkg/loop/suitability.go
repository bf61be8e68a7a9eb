package loop

const (
	// SubstrateDistance is the CA-CA cutoff, in Å, for a loop residue to touch the substrate.
	SubstrateDistance = 8.0
	// DomainSize is the largest subject loop still treated as a loop.
	DomainSize = 50
	// SimilarityRMSD rejects same-length loops closer than this to the reference.
	SimilarityRMSD = 0.2
)

// Rejection reasons, in report order.
const (
	ReasonDistance   = "Distance"
	ReasonSize       = "Size"
	ReasonSimilarity = "Similarity"
	ReasonNoNMatch   = "No N match"
	ReasonNoCMatch   = "No C match"
)

type Suitability struct {
	NearTarget            bool `json:"near_target"`
	NotDomain             bool `json:"not_domain"`
	DifferentFromOriginal bool `json:"different_from_original"`
	NMatch                bool `json:"n_match"`
	CMatch                bool `json:"c_match"`
	PossibleTarget        bool `json:"possible_target"`
}

// Evaluate scores a match. A loop with no substrate chain to compare against is never
// near the target.
func Evaluate(m Match) Suitability {
	s := Suitability{
		NearTarget:            m.Proximity != nil && len(m.Proximity.Residues) > 0,
		NotDomain:             m.Size.Subject <= DomainSize,
		DifferentFromOriginal: m.RMSD == nil || *m.RMSD >= SimilarityRMSD,
		NMatch:                m.Loop.Kind == NTerminal || m.NSplice != nil,
		CMatch:                m.Loop.Kind == CTerminal || m.CSplice != nil,
	}
	s.PossibleTarget = s.NearTarget && s.NotDomain && s.DifferentFromOriginal && s.NMatch && s.CMatch
	return s
}

// Reasons lists the failed checks.
func (s Suitability) Reasons() []string {
	var out []string
	if !s.NearTarget {
		out = append(out, ReasonDistance)
	}
	if !s.NotDomain {
		out = append(out, ReasonSize)
	}
	if !s.DifferentFromOriginal {
		out = append(out, ReasonSimilarity)
	}
	if !s.NMatch {
		out = append(out, ReasonNoNMatch)
	}
	if !s.CMatch {
		out = append(out, ReasonNoCMatch)
	}
	return out
}
