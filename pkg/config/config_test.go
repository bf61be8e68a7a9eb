package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/yumyai/loopswap/pkg/loop"
	"github.com/yumyai/loopswap/pkg/triad"
)

func TestLoadEnvDefaults(t *testing.T) {
	for _, key := range []string{"LOOPSWAP_DATA", "LOOPSWAP_SUMMARY", "LOOPSWAP_WORKERS", "LOOPSWAP_REFERENCE"} {
		t.Setenv(key, "")
	}
	e := LoadEnv(filepath.Join(t.TempDir(), "missing.env"))

	if e.Data != "./data" || e.Reference != "TEV" {
		t.Errorf("Data = %q Reference = %q", e.Data, e.Reference)
	}
	if want := filepath.Join("./data", "0000_dali_pdb90_tev.txt"); e.Summary != want {
		t.Errorf("Summary = %q, want %q", e.Summary, want)
	}
	if e.Workers != runtime.NumCPU() {
		t.Errorf("Workers = %d", e.Workers)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	for _, key := range []string{"LOOPSWAP_DATA", "LOOPSWAP_WORKERS", "LOOPSWAP_CSV"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	env := filepath.Join(dir, ".env")
	content := "LOOPSWAP_DATA=" + dir + "\nLOOPSWAP_WORKERS=3\nLOOPSWAP_CSV=out.csv\n"
	if err := os.WriteFile(env, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	e := LoadEnv(env)
	if e.Data != dir || e.Workers != 3 || e.CSV != "out.csv" {
		t.Errorf("Env = %+v", e)
	}
	if want := filepath.Join(dir, "*.pdb"); e.Subjects != want {
		t.Errorf("Subjects = %q, want %q", e.Subjects, want)
	}
}

func TestLoadEnvBadWorkers(t *testing.T) {
	t.Setenv("LOOPSWAP_WORKERS", "zero")
	if e := LoadEnv(filepath.Join(t.TempDir(), "missing.env")); e.Workers != runtime.NumCPU() {
		t.Errorf("Workers = %d", e.Workers)
	}
}

func TestBuiltinReferences(t *testing.T) {
	refs, err := LoadReferences("")
	if err != nil {
		t.Fatalf("LoadReferences: %v", err)
	}
	if names := refs.Names(); len(names) != 2 || names[0] != "HTRA1" || names[1] != "TEV" {
		t.Fatalf("Names = %v", names)
	}

	tev, err := refs.Get("tev")
	if err != nil {
		t.Fatal(err)
	}
	if !tev.HasTriad || tev.Triad != (triad.Spec{Nucleophile: 151, Histidine: 46, Acid: 81}) {
		t.Errorf("TEV triad = %+v", tev.Triad)
	}
	if tev.Loops.Len() != 14 {
		t.Errorf("TEV has %d loops", tev.Loops.Len())
	}
	one, ok := tev.Loops.Lookup("1")
	if !ok || *one.Lower != 18 || *one.Upper != 37 {
		t.Errorf("loop 1 = %+v", one)
	}
	c, _ := tev.Loops.Lookup("C")
	if c.Start != 182 || c.End != 220 || c.Upper != nil {
		t.Errorf("loop C = %+v", c)
	}

	htra1, err := refs.Get("HtrA1")
	if err != nil {
		t.Fatal(err)
	}
	if htra1.HasTriad {
		t.Error("HtrA1 has no triad configured")
	}
	five, _ := htra1.Loops.Lookup("5")
	if five.Start != 240 || five.End != 240 {
		t.Errorf("HtrA1 loop 5 = %+v", five)
	}
}

func TestParseReferencesErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{"bad loop name", "references:\n  X:\n    loops:\n      - {name: tip, start: 1, end: 2}\n", loop.ErrInvalidLoopTable},
		{"overlap", "references:\n  X:\n    loops:\n      - {name: \"1\", start: 1, end: 5}\n      - {name: \"2\", start: 4, end: 8}\n", loop.ErrInvalidLoopTable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseReferences([]byte(tc.yaml)); !errors.Is(err, tc.err) {
				t.Errorf("error = %v, want %v", err, tc.err)
			}
		})
	}

	if _, err := ParseReferences([]byte("references: [")); err == nil {
		t.Error("malformed YAML accepted")
	}
	refs, _ := LoadReferences("")
	if _, err := refs.Get("thrombin"); !errors.Is(err, ErrUnknownReference) {
		t.Errorf("error = %v, want ErrUnknownReference", err)
	}
}

func TestLoadReferencesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.yaml")
	data := "references:\n  hcv:\n    triad: {N: 154, H: 72, A: 96}\n    loops:\n      - {name: \"N\", start: 1, end: 10}\n      - {name: \"1\", start: 20, end: 25}\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	refs, err := LoadReferences(path)
	if err != nil {
		t.Fatalf("LoadReferences: %v", err)
	}
	hcv, err := refs.Get("HCV")
	if err != nil {
		t.Fatal(err)
	}
	if hcv.Name != "HCV" || hcv.Triad.Histidine != 72 || hcv.Loops.Len() != 2 {
		t.Errorf("HCV = %+v", hcv)
	}
	if _, err := LoadReferences(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("missing file accepted")
	}
}
