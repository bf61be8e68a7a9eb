package protein

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/TuftsBCB/structure"
	"github.com/yumyai/loopswap/pkg/align"
	"github.com/yumyai/loopswap/pkg/loop"
	"github.com/yumyai/loopswap/pkg/pose"
	"github.com/yumyai/loopswap/pkg/pose/posetest"
	"github.com/yumyai/loopswap/pkg/residue"
	"github.com/yumyai/loopswap/pkg/triad"
)

func reference(t *testing.T) Reference {
	t.Helper()
	substrate := posetest.New("refB", "GGG", 1)
	substrate.SetCA(1, structure.Coords{X: 19, Y: 5})
	substrate.SetCA(2, structure.Coords{X: 100})
	substrate.SetCA(3, structure.Coords{X: 22.8, Y: 7.9})
	table, err := loop.NewTable([]loop.Definition{loop.NTerm(1, 2), loop.Numbered(1, 6, 7), loop.CTerm(11, 12)})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return Reference{
		Name:      "ref",
		Structure: posetest.Complex("ref", posetest.New("refA", "ACDEFGHIKLMN", 1), substrate),
		Loops:     table,
		Triad:     triad.Spec{Nucleophile: 1, Histidine: 7, Acid: 3},
		HasTriad:  true,
	}
}

// section writes one subject's alignment the way the structural aligner prints it.
func section(n int, subject, subjRow, subjSS string) string {
	return fmt.Sprintf(`No %d: Query=ref Sbjct=%s Z-score=20.1

DSSP  LLLLLLLLLLLL
Query ACdEFGHIKLMN   12
ident ||
Sbjct %s   12
DSSP  %s

`, n, subject, subjRow, subjSS)
}

var summaryLines = []string{
	"# Chain   Z    rmsd lali nres  %id Description",
	"subjA-A  20.1  1.9  12  12  100  MOLECULE: FULL LENGTH;",
	"subjB-A  12.0  2.5   7   7   80  MOLECULE: TRUNCATED;",
	"subjX-A  11.0  2.5   7   7   80  MOLECULE: NO ALIGNMENT;",
}

var alignmentLines = strings.Split(
	section(1, "subjA", "ACdEFGHIKLMN", "LLLLELLLELLL")+
		section(2, "subjB", "ACdEFGH-----", "LLLLELL     "), "\n")

func builder(t *testing.T, rmsd pose.RangeRMSD) Builder {
	return Builder{
		Reference:  reference(t),
		Summary:    summaryLines,
		Alignments: alignmentLines,
		RMSD:       rmsd,
	}
}

func TestBuild(t *testing.T) {
	b := builder(t, &posetest.RMSD{Value: 1.2})
	rec, err := b.Build(context.Background(), posetest.New("subjA", "ACDEFGHIKLMN", 101))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rec.Reference != "REF" || rec.Subject != "SUBJA" {
		t.Errorf("ids = %s/%s", rec.Reference, rec.Subject)
	}
	if rec.Summary.ZScore != "20.1" || rec.Summary.Description != "MOLECULE: FULL LENGTH;" {
		t.Errorf("Summary = %+v", rec.Summary)
	}
	if rec.Alignment.Len() != 12 {
		t.Errorf("alignment has %d columns", rec.Alignment.Len())
	}
	if got := []string{rec.Triad.Nucleophile.String(), rec.Triad.Histidine.String(), rec.Triad.Acid.String()}; strings.Join(got, ",") != "A101,H107,D103" {
		t.Errorf("Triad = %v", got)
	}
	if len(rec.Loops) != 3 || len(rec.LoopFailures) != 0 {
		t.Fatalf("loops = %d failures = %v", len(rec.Loops), rec.LoopFailures)
	}
	one, ok := rec.Loop("1")
	if !ok || !one.Suitability.PossibleTarget {
		t.Errorf("loop 1 = %+v", one.Suitability)
	}
	if targets := rec.Targets(); len(targets) != 1 || targets[0].Loop.Name != "1" {
		t.Errorf("Targets = %d", len(targets))
	}
}

func TestBuildWithoutTriad(t *testing.T) {
	b := builder(t, &posetest.RMSD{Value: 1.2})
	b.Reference.HasTriad = false
	rec, err := b.Build(context.Background(), posetest.New("subjA", "ACDEFGHIKLMN", 101))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rec.Triad != (triad.Mapping{}) {
		t.Errorf("Triad = %+v, want nothing mapped", rec.Triad)
	}
	if len(rec.Loops) != 3 {
		t.Errorf("loops = %d", len(rec.Loops))
	}
}

func TestBuildUnresolvedLoop(t *testing.T) {
	b := builder(t, &posetest.RMSD{Value: 1.2})
	rec, err := b.Build(context.Background(), posetest.New("subjB", "ACDEFGH", 101))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := rec.LoopFailures["C"]; !ok {
		t.Errorf("LoopFailures = %v, want C", rec.LoopFailures)
	}
	if _, ok := rec.Loop("C"); ok {
		t.Error("failed loop still listed")
	}
	if len(rec.Loops) != 2 {
		t.Errorf("got %d loops, want 2", len(rec.Loops))
	}
}

func TestBuildErrors(t *testing.T) {
	boom := errors.New("no coordinates")
	tests := []struct {
		name    string
		rmsd    pose.RangeRMSD
		subject pose.Structure
		err     error
	}{
		{"not in summary", nil, posetest.New("subjZ", "ACDEFGHIKLMN", 1), align.ErrRecordNotFound},
		{"not in alignment", nil, posetest.New("subjX", "ACDEFGHIKLMN", 1), align.ErrRecordNotFound},
		{"wrong structure", nil, posetest.New("subjA", "WWWWWWWW", 1), residue.ErrAnchorNotFound},
		{"collaborator failure", &posetest.RMSD{Err: boom}, posetest.New("subjA", "ACDEFGHIKLMN", 101), boom},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := builder(t, tc.rmsd).Build(context.Background(), tc.subject)
			if !errors.Is(err, tc.err) {
				t.Errorf("error = %v, want %v", err, tc.err)
			}
		})
	}
}

func load(s pose.Structure, err error) Subject {
	name := "broken"
	if s != nil {
		name = s.ID()
	}
	return Subject{
		Name: name,
		Load: func(context.Context) (pose.Structure, error) { return s, err },
	}
}

func TestRunBatch(t *testing.T) {
	b := builder(t, &posetest.RMSD{Value: 1.2})
	subjects := []Subject{
		load(posetest.New("subjA", "ACDEFGHIKLMN", 101), nil),
		load(posetest.New("subjZ", "ACDEFGHIKLMN", 101), nil),
		load(nil, errors.New("bad pdb")),
		load(posetest.New("subjB", "ACDEFGH", 101), nil),
	}

	res, err := RunBatch(context.Background(), b, subjects, 2)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if len(res.Records) != 2 || res.Records[0].Subject != "SUBJA" || res.Records[1].Subject != "SUBJB" {
		t.Errorf("Records = %d", len(res.Records))
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != "subjZ" {
		t.Errorf("Skipped = %v", res.Skipped)
	}
	if _, ok := res.Failures["broken"]; !ok || len(res.Failures) != 1 {
		t.Errorf("Failures = %v", res.Failures)
	}
}

func TestRunBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := builder(t, nil)
	_, err := RunBatch(ctx, b, []Subject{load(posetest.New("subjA", "ACDEFGHIKLMN", 101), nil)}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
