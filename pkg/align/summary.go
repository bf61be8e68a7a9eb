// Package align reads pairwise structural alignment output: the one-line hit summary and the
// five-row alignment blocks (reference SS, reference sequence, identity, subject sequence,
// subject SS) for a given subject.
package align

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrRecordNotFound     = errors.New("subject not found")
	ErrMalformedAlignment = errors.New("malformed alignment")
)

// Summary is one hit line. Numeric fields are kept as written.
type Summary struct {
	Subject     string `json:"subject"`
	ZScore      string `json:"z_score"`
	RMSD        string `json:"rmsd"`
	Lali        string `json:"lali"`
	Nres        string `json:"nres"`
	PercentID   string `json:"pid"`
	Description string `json:"description"`
}

// FindSummary returns the first line mentioning subject, case-insensitively.
func FindSummary(lines []string, subject string) (Summary, error) {
	want := strings.ToUpper(subject)
	for n, line := range lines {
		if !strings.Contains(strings.ToUpper(line), want) {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 6 {
			return Summary{}, fmt.Errorf("%w: summary line %d has %d fields, want at least 6", ErrMalformedAlignment, n+1, len(f))
		}
		return Summary{
			Subject:     f[0],
			ZScore:      f[1],
			RMSD:        f[2],
			Lali:        f[3],
			Nres:        f[4],
			PercentID:   f[5],
			Description: strings.Join(f[6:], " "),
		}, nil
	}
	return Summary{}, fmt.Errorf("%w: %s in summary", ErrRecordNotFound, subject)
}

func ReadSummary(r io.Reader, subject string) (Summary, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return Summary{}, err
	}
	return FindSummary(lines, subject)
}

// ReadLines splits a summary or alignment file so that many subjects can be looked up
// without rereading it.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading alignment file: %w", err)
	}
	return lines, nil
}
