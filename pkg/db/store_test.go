package db

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/yumyai/loopswap/pkg/align"
	"github.com/yumyai/loopswap/pkg/loop"
	"github.com/yumyai/loopswap/pkg/protein"
	"github.com/yumyai/loopswap/pkg/residue"
	"github.com/yumyai/loopswap/pkg/triad"
)

func openStore(t *testing.T) *RecordStore {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "db", "loopswap.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func intp(v int) *int { return &v }

func record(subject string, target bool) protein.Record {
	rmsd := 1.2
	closest := 5.0
	m := loop.Match{
		Loop:          loop.Numbered(1, 6, 7),
		Subject:       subject,
		Reference:     loop.Limits{N: intp(3), C: intp(10)},
		SubjectLimits: loop.Limits{N: intp(104), C: intp(109)},
		NSplice:       &loop.Pair{Reference: 5, Subject: 105},
		CSplice:       &loop.Pair{Reference: 9, Subject: 109},
		Size:          loop.Sizes{Reference: 4, Subject: 4, LengthsMatch: true},
		RMSD:          &rmsd,
		Proximity:     &loop.Proximity{Near: true, ClosestDistance: &closest, Residues: []int{1, 3}, ResidueCount: 2, FeatureSize: 3.8},
	}
	m.Suitability = loop.Evaluate(m)
	if !target {
		m.Proximity = &loop.Proximity{Residues: []int{}, ResidueCount: 2}
		m.Suitability = loop.Evaluate(m)
	}
	col, _ := residue.NewAlignedResidue(0,
		residue.Side{Pose: intp(1), Number: intp(1), SecStruc: 'L'}, 'A',
		residue.Side{Pose: intp(1), Number: intp(101), SecStruc: 'E'}, 'A', '|')
	return protein.Record{
		Reference: "TEV",
		Subject:   subject,
		Summary:   align.Summary{Subject: subject + "-A", ZScore: "20.1", RMSD: "1.9", Lali: "12", Nres: "12", PercentID: "100", Description: "PROTEASE"},
		Alignment: residue.NewStructuralAlignment([]residue.AlignedResidue{col}),
		Triad:     triad.Mapping{Nucleophile: &triad.Residue{Number: 151, Type: 'C'}},
		Loops:     []loop.Match{m},
		LoopFailures: map[string]string{
			"C": "loop boundaries could not be resolved",
		},
	}
}

func TestSaveGet(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	want := record("SUBJA", true)

	runID, err := store.Save(ctx, "TEV", []protein.Record{want, record("SUBJB", false)})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if runID == "" {
		t.Error("empty run id")
	}

	got, err := store.Get(ctx, "subja")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	wantJSON, _ := json.Marshal(want)
	gotJSON, _ := json.Marshal(got)
	if string(wantJSON) != string(gotJSON) {
		t.Errorf("round trip differs\nwant %s\ngot  %s", wantJSON, gotJSON)
	}
	if got.Triad.Nucleophile.String() != "C151" || got.Alignment.Len() != 1 {
		t.Errorf("decoded record = %+v", got)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("error = %v, want ErrRecordNotFound", err)
	}
}

func TestListAndTargets(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	first, err := store.Save(ctx, "TEV", []protein.Record{record("SUBJB", false), record("SUBJA", false)})
	if err != nil {
		t.Fatal(err)
	}
	// a later run replaces SUBJA
	second, err := store.Save(ctx, "TEV", []protein.Record{record("SUBJA", true)})
	if err != nil {
		t.Fatal(err)
	}

	rows, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []Row{
		{RunID: second, Reference: "TEV", Subject: "SUBJA", ZScore: "20.1", Targets: 1},
		{RunID: first, Reference: "TEV", Subject: "SUBJB", ZScore: "20.1", Targets: 0},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}

	targets, err := store.Targets(ctx)
	if err != nil {
		t.Fatalf("Targets: %v", err)
	}
	if len(targets) != 1 || targets[0].Subject != "SUBJA" || targets[0].Match.Loop.Name != "1" {
		t.Errorf("Targets = %+v", targets)
	}
}

func TestEmptyStore(t *testing.T) {
	store := openStore(t)
	rows, err := store.List(context.Background())
	if err != nil || len(rows) != 0 {
		t.Errorf("List = %v, %v", rows, err)
	}
	targets, err := store.Targets(context.Background())
	if err != nil || len(targets) != 0 {
		t.Errorf("Targets = %v, %v", targets, err)
	}
}
