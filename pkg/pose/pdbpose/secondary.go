package pdbpose

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// span is one HELIX or SHEET record, inclusive in author numbering.
type span struct {
	letter byte
	chain  byte
	start  int
	end    int
}

// readSecondary collects HELIX (H) and SHEET (E) records.
func readSecondary(r io.Reader) ([]span, error) {
	var spans []span
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		var (
			sp  span
			err error
		)
		switch {
		case strings.HasPrefix(text, "HELIX "):
			sp.letter = 'H'
			sp.chain = at(text, 20)
			sp.start, err = atoi(text, 22, 25)
			if err == nil {
				sp.end, err = atoi(text, 34, 37)
			}
		case strings.HasPrefix(text, "SHEET "):
			sp.letter = 'E'
			sp.chain = at(text, 22)
			sp.start, err = atoi(text, 23, 26)
			if err == nil {
				sp.end, err = atoi(text, 34, 37)
			}
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		spans = append(spans, sp)
	}
	return spans, scanner.Err()
}

// assign labels every pose residue H, E or L.
func assign(s *Structure, spans []span) []byte {
	ss := make([]byte, len(s.residues))
	for i, r := range s.residues {
		ss[i] = 'L'
		for _, sp := range spans {
			if sp.chain == s.chains[i] && r.SequenceNum >= sp.start && r.SequenceNum <= sp.end {
				ss[i] = sp.letter
				break
			}
		}
	}
	return ss
}

// PDB columns are 1-based and inclusive.
func cols(text string, start, end int) string {
	if start-1 >= len(text) {
		return ""
	}
	if end > len(text) {
		end = len(text)
	}
	return strings.TrimSpace(text[start-1 : end])
}

func at(text string, col int) byte {
	if col-1 >= len(text) {
		return 0
	}
	return text[col-1]
}

func atoi(text string, start, end int) (int, error) {
	return strconv.Atoi(cols(text, start, end))
}
