// Package residue maps alignment columns onto the residues of the reference and
// subject structures.
package residue

import (
	"errors"
	"fmt"
)

var (
	ErrAnchorNotFound     = errors.New("alignment seed not found in structure sequence")
	ErrInvariantViolation = errors.New("alignment column violates residue invariant")
)

// InvariantError reports the offending column.
type InvariantError struct {
	Column int
	Msg    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("column %d: %s", e.Column, e.Msg)
}

func (e *InvariantError) Unwrap() error { return ErrInvariantViolation }

// Side is one structure's view of a column. A side is absent when Pose is nil.
type Side struct {
	Pose     *int `json:"pose,omitempty"`
	Number   *int `json:"number,omitempty"`
	SecStruc byte `json:"ss,omitempty"`
	// Letter is upper-cased; the alignment case survives only in ResiduesAlign.
	Letter byte `json:"letter,omitempty"`
}

func (s Side) Present() bool { return s.Pose != nil }

// AlignedResidue is one alignment column.
type AlignedResidue struct {
	Reference     Side `json:"reference"`
	Subject       Side `json:"subject"`
	Identity      byte `json:"identity"`
	ResiduesAlign bool `json:"residues_align"`
	ResiduesEqual bool `json:"residues_equal"`
}

// NewAlignedResidue classifies a column. refLetter and subjLetter keep the case written in
// the alignment: upper case on both sides is a structurally matched pair, lower case on
// both an unmatched one.
func NewAlignedResidue(column int, ref Side, refLetter byte, subj Side, subjLetter byte, identity byte) (AlignedResidue, error) {
	ar := AlignedResidue{Reference: ref, Subject: subj, Identity: identity}
	if ref.Present() {
		ar.Reference.Letter = upper(refLetter)
	}
	if subj.Present() {
		ar.Subject.Letter = upper(subjLetter)
	}

	if ref.Present() && subj.Present() {
		switch {
		case isUpper(refLetter) && isUpper(subjLetter):
			ar.ResiduesAlign = true
		case isLower(refLetter) && isLower(subjLetter):
			ar.ResiduesAlign = false
		default:
			return AlignedResidue{}, &InvariantError{
				Column: column,
				Msg:    fmt.Sprintf("residue cases do not match (%c/%c)", refLetter, subjLetter),
			}
		}
	}

	if identity == '|' {
		if !ref.Present() || !subj.Present() || ar.Reference.Letter != ar.Subject.Letter {
			return AlignedResidue{}, &InvariantError{
				Column: column,
				Msg:    fmt.Sprintf("identity marker on differing residues (%q/%q)", refLetter, subjLetter),
			}
		}
		ar.ResiduesEqual = true
	}
	return ar, nil
}

// Non-letters count as both cases, so they pair with anything of either case.
func isUpper(c byte) bool { return upper(c) == c }

func isLower(c byte) bool { return lower(c) == c }

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}

func intPtr(v int) *int { return &v }
