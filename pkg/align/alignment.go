package align

import (
	"fmt"
	"io"
	"strings"
)

// Alignment holds the five concatenated rows for one subject. All rows have the same length
// and column i of each row describes the same alignment position.
type Alignment struct {
	RefSS   string `json:"ref_ss"`
	RefSeq  string `json:"ref_seq"`
	Ident   string `json:"ident"`
	SubjSeq string `json:"subj_seq"`
	SubjSS  string `json:"subj_ss"`
}

func (a Alignment) Len() int { return len(a.RefSeq) }

// Parser splits an alignment file into per-subject sections. A section begins at a header
// line containing Marker and the subject id and ends at the next header line.
type Parser struct {
	Marker string
	// GutterWidth is the row label ("DSSP  ", "Query ") cut from every row.
	GutterWidth int
	// HeaderLines are skipped at the top of a section, the header included.
	HeaderLines int
}

func DefaultParser() Parser {
	return Parser{Marker: "Z-score", GutterWidth: 6, HeaderLines: 2}
}

// ReadAlignment reads with DefaultParser.
func ReadAlignment(r io.Reader, subject string) (Alignment, error) {
	return DefaultParser().ReadAlignment(r, subject)
}

func (p Parser) ReadAlignment(r io.Reader, subject string) (Alignment, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return Alignment{}, err
	}
	return p.Parse(lines, subject)
}

func (p Parser) Parse(lines []string, subject string) (Alignment, error) {
	section, err := p.section(lines, subject)
	if err != nil {
		return Alignment{}, err
	}

	var rows []string
	for _, line := range section {
		if line = strings.TrimSpace(line); line != "" {
			rows = append(rows, line)
		}
	}
	if len(rows)%5 != 0 {
		return Alignment{}, fmt.Errorf("%w: %s has %d alignment rows, not a multiple of 5", ErrMalformedAlignment, subject, len(rows))
	}

	var out [5]strings.Builder
	width := 0
	for n, row := range rows {
		if n%5 == 0 {
			width = len(row)
		}
		out[n%5].WriteString(p.cut(row, width))
	}

	aln := Alignment{
		RefSS:   out[0].String(),
		RefSeq:  out[1].String(),
		Ident:   out[2].String(),
		SubjSeq: out[3].String(),
		SubjSS:  out[4].String(),
	}
	for i, row := range []string{aln.RefSS, aln.Ident, aln.SubjSeq, aln.SubjSS} {
		if len(row) != aln.Len() {
			return Alignment{}, fmt.Errorf("%w: %s row %d has length %d, reference sequence has %d", ErrMalformedAlignment, subject, i, len(row), aln.Len())
		}
	}
	return aln, nil
}

// section returns the lines of subject's section, header lines removed.
func (p Parser) section(lines []string, subject string) ([]string, error) {
	want := strings.ToUpper(subject)
	begin, end := -1, len(lines)
	for n, line := range lines {
		if !strings.Contains(line, p.Marker) {
			continue
		}
		if begin >= 0 {
			end = n
			break
		}
		if strings.Contains(strings.ToUpper(line), want) {
			begin = n
		}
	}
	if begin < 0 {
		return nil, fmt.Errorf("%w: %s in alignment", ErrRecordNotFound, subject)
	}
	begin += p.HeaderLines
	if begin > end {
		begin = end
	}
	return lines[begin:end], nil
}

// cut drops the gutter and pads the row to the block width.
func (p Parser) cut(row string, width int) string {
	size := width - p.GutterWidth
	if size <= 0 {
		return ""
	}
	info := ""
	if len(row) > p.GutterWidth {
		info = row[p.GutterWidth:min(width, len(row))]
	}
	if len(info) < size {
		info += strings.Repeat(" ", size-len(info))
	}
	return info
}
