package residue

import "encoding/json"

// StructuralAlignment is the ordered, read-only list of mapped columns for one pair.
// Lookups are linear scans; alignments are a few hundred columns at most.
type StructuralAlignment struct {
	columns []AlignedResidue
}

// NewStructuralAlignment copies columns.
func NewStructuralAlignment(columns []AlignedResidue) StructuralAlignment {
	return StructuralAlignment{columns: append([]AlignedResidue(nil), columns...)}
}

func (a StructuralAlignment) Len() int { return len(a.columns) }

func (a StructuralAlignment) At(i int) AlignedResidue { return a.columns[i] }

// Columns returns a copy of every column.
func (a StructuralAlignment) Columns() []AlignedResidue {
	return append([]AlignedResidue(nil), a.columns...)
}

// ByReference returns the first column whose reference number is n.
func (a StructuralAlignment) ByReference(n int) (AlignedResidue, bool) {
	for _, c := range a.columns {
		if c.Reference.Number != nil && *c.Reference.Number == n {
			return c, true
		}
	}
	return AlignedResidue{}, false
}

// BySubject returns the first column whose subject number is n.
func (a StructuralAlignment) BySubject(n int) (AlignedResidue, bool) {
	for _, c := range a.columns {
		if c.Subject.Number != nil && *c.Subject.Number == n {
			return c, true
		}
	}
	return AlignedResidue{}, false
}

// ReferenceColumns returns every column whose reference number is n, in column order.
// Repeated numbers come from insertion codes in the reference numbering.
func (a StructuralAlignment) ReferenceColumns(n int) []AlignedResidue {
	var out []AlignedResidue
	for _, c := range a.columns {
		if c.Reference.Number != nil && *c.Reference.Number == n {
			out = append(out, c)
		}
	}
	return out
}

// ReferenceSlice is half-open like a Go slice: it runs from the first column with reference
// number >= start up to, not including, the last column with reference number <= end.
// Subject-only columns in between are included.
func (a StructuralAlignment) ReferenceSlice(start, end int) []AlignedResidue {
	first, last := -1, -1
	for i, c := range a.columns {
		if c.Reference.Number == nil {
			continue
		}
		n := *c.Reference.Number
		if first < 0 && n >= start {
			first = i
		}
		if n <= end {
			last = i
		}
	}
	if first < 0 || last <= first {
		return nil
	}
	return append([]AlignedResidue(nil), a.columns[first:last]...)
}

// FirstReference is the first mapped reference number.
func (a StructuralAlignment) FirstReference() (int, bool) {
	for _, c := range a.columns {
		if c.Reference.Number != nil {
			return *c.Reference.Number, true
		}
	}
	return 0, false
}

// LastReference is the last mapped reference number.
func (a StructuralAlignment) LastReference() (int, bool) {
	for i := len(a.columns) - 1; i >= 0; i-- {
		if n := a.columns[i].Reference.Number; n != nil {
			return *n, true
		}
	}
	return 0, false
}

func (a StructuralAlignment) MarshalJSON() ([]byte, error) {
	if a.columns == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a.columns)
}

func (a *StructuralAlignment) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &a.columns)
}
