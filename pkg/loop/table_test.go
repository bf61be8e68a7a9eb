package loop

import (
	"errors"
	"testing"
)

func tevLike(t *testing.T) Table {
	t.Helper()
	table, err := NewTable([]Definition{
		CTerm(182, 220),
		Numbered(2, 38, 38),
		NTerm(8, 17),
		Numbered(1, 26, 27),
		Numbered(3, 44, 53),
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table
}

func TestNewTableOrder(t *testing.T) {
	table := tevLike(t)
	want := []string{"N", "1", "2", "3", "C"}
	loops := table.Loops()
	if len(loops) != len(want) {
		t.Fatalf("got %d loops, want %d", len(loops), len(want))
	}
	for i, l := range loops {
		if l.Name != want[i] {
			t.Errorf("loop %d = %s, want %s", i, l.Name, want[i])
		}
	}
}

func TestBoundariesPartition(t *testing.T) {
	b := tevLike(t).Boundaries()

	if b[0].Lower != nil {
		t.Errorf("N-terminal loop has lower limit %d", *b[0].Lower)
	}
	if last := b[len(b)-1]; last.Upper != nil {
		t.Errorf("C-terminal loop has upper limit %d", *last.Upper)
	}
	for i := 0; i < len(b)-1; i++ {
		if *b[i].Upper != b[i+1].Start-1 {
			t.Errorf("%s upper = %d, want %d", b[i].Name, *b[i].Upper, b[i+1].Start-1)
		}
		if *b[i+1].Lower != b[i].End+1 {
			t.Errorf("%s lower = %d, want %d", b[i+1].Name, *b[i+1].Lower, b[i].End+1)
		}
	}

	one, ok := tevLike(t).Lookup("1")
	if !ok {
		t.Fatal("Lookup(1) not found")
	}
	if *one.Lower != 18 || *one.Upper != 37 {
		t.Errorf("loop 1 limits = %d-%d, want 18-37", *one.Lower, *one.Upper)
	}
}

func TestNewTableErrors(t *testing.T) {
	tests := []struct {
		name  string
		loops []Definition
	}{
		{"overlap", []Definition{NTerm(1, 10), Numbered(1, 10, 12)}},
		{"out of order", []Definition{Numbered(1, 20, 22), Numbered(2, 10, 12)}},
		{"duplicate ordinal", []Definition{Numbered(1, 1, 2), {Name: "one", Kind: Internal, Ordinal: 1, Start: 5, End: 6}}},
		{"duplicate sentinel", []Definition{NTerm(1, 2), NTerm(5, 6)}},
		{"reversed range", []Definition{Numbered(1, 9, 3)}},
		{"unnamed", []Definition{{Kind: Internal, Ordinal: 1, Start: 1, End: 2}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewTable(tc.loops); !errors.Is(err, ErrInvalidLoopTable) {
				t.Errorf("error = %v, want ErrInvalidLoopTable", err)
			}
		})
	}
}

func TestKindText(t *testing.T) {
	for _, k := range []Kind{NTerminal, Internal, CTerminal} {
		b, _ := k.MarshalText()
		var back Kind
		if err := back.UnmarshalText(b); err != nil || back != k {
			t.Errorf("%v round trip = %v, %v", k, back, err)
		}
	}
	var k Kind
	if err := k.UnmarshalText([]byte("middle")); err == nil {
		t.Error("expected error for unknown kind")
	}
}
