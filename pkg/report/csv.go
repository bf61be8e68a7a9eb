// Package report writes analysed records as one-row-per-subject tables.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yumyai/loopswap/pkg/loop"
	"github.com/yumyai/loopswap/pkg/protein"
)

// ReasonUnresolved fills the rejection cell of a loop whose boundaries were not found.
const ReasonUnresolved = "Unresolved"

var recordHeader = []string{"query", "subject", "Z_score", "rmsd", "lali", "nres", "pID", "cat_nucleophile", "cat_his", "cat_acid"}

var loopHeader = []string{"loop", "length", "potential_target", "query_range", "subject_range", "reasons_rejected"}

// Header is the record columns followed by one group of loop columns per loop of table.
func Header(table loop.Table) []string {
	h := append([]string(nil), recordHeader...)
	for range table.Loops() {
		h = append(h, loopHeader...)
	}
	return h
}

// Row lays out one record. Loop groups follow table order, whatever order the record has.
func Row(table loop.Table, rec protein.Record) []string {
	row := []string{
		rec.Reference, rec.Subject,
		rec.Summary.ZScore, rec.Summary.RMSD, rec.Summary.Lali, rec.Summary.Nres, rec.Summary.PercentID,
		rec.Triad.Nucleophile.String(), rec.Triad.Histidine.String(), rec.Triad.Acid.String(),
	}
	for _, d := range table.Loops() {
		m, ok := rec.Loop(d.Name)
		if !ok {
			row = append(row, d.Name, "", "False", "", "", ReasonUnresolved)
			continue
		}
		row = append(row, d.Name, strconv.Itoa(length(m)), titleBool(m.Suitability.PossibleTarget))
		if m.Suitability.PossibleTarget {
			row = append(row, splices(m.NSplice, m.CSplice, reference), splices(m.NSplice, m.CSplice, subject), "")
		} else {
			row = append(row, "", "", strings.Join(m.Suitability.Reasons(), "; "))
		}
	}
	return row
}

// WriteCSV writes the header and one row per record.
func WriteCSV(w io.Writer, table loop.Table, records []protein.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(table)); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(Row(table, rec)); err != nil {
			return fmt.Errorf("error writing %s: %w", rec.Subject, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// length is the subject loop residue count used for the proximity check, or the subject
// span when no substrate chain was available.
func length(m loop.Match) int {
	if m.Proximity != nil {
		return m.Proximity.ResidueCount
	}
	return m.Size.Subject
}

func reference(p *loop.Pair) int { return p.Reference }
func subject(p *loop.Pair) int   { return p.Subject }

func splices(n, c *loop.Pair, number func(*loop.Pair) int) string {
	cell := func(p *loop.Pair) string {
		if p == nil {
			return "None"
		}
		return strconv.Itoa(number(p))
	}
	return cell(n) + "-" + cell(c)
}

func titleBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
