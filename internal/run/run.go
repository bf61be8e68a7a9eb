// Package run wires the configured files into one batch analysis.
package run

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/yumyai/loopswap/logger"
	"github.com/yumyai/loopswap/pkg/align"
	"github.com/yumyai/loopswap/pkg/config"
	"github.com/yumyai/loopswap/pkg/db"
	"github.com/yumyai/loopswap/pkg/pose"
	"github.com/yumyai/loopswap/pkg/pose/pdbpose"
	"github.com/yumyai/loopswap/pkg/protein"
	"github.com/yumyai/loopswap/pkg/report"
	"go.uber.org/zap"
)

type Summary struct {
	RunID   string
	Records int
	Skipped int
	Failed  int
}

// Pipeline analyses every subject matched by Env.Subjects against Env.Reference.
type Pipeline struct {
	Env   config.Env
	Store *db.RecordStore
}

func (p Pipeline) Run(ctx context.Context) (Summary, error) {
	refs, err := config.LoadReferences(p.Env.ReferencesYAML)
	if err != nil {
		return Summary{}, err
	}
	def, err := refs.Get(p.Env.Reference)
	if err != nil {
		return Summary{}, err
	}
	refStructure, err := pdbpose.Load(p.Env.ReferencePDB)
	if err != nil {
		return Summary{}, fmt.Errorf("error loading reference: %w", err)
	}
	summary, err := readLines(p.Env.Summary)
	if err != nil {
		return Summary{}, err
	}
	alignments, err := readLines(p.Env.Alignment)
	if err != nil {
		return Summary{}, err
	}
	subjects, err := Subjects(p.Env.Subjects, p.Env.ReferencePDB)
	if err != nil {
		return Summary{}, err
	}

	logger.Info("Starting run",
		zap.String("reference", def.Name),
		zap.Int("loops", def.Loops.Len()),
		zap.Int("subjects", len(subjects)),
		zap.Int("workers", p.Env.Workers),
	)

	b := protein.Builder{
		Reference: protein.Reference{
			Name:      def.Name,
			Structure: refStructure,
			Loops:     def.Loops,
			Triad:     def.Triad,
			HasTriad:  def.HasTriad,
		},
		Summary:    summary,
		Alignments: alignments,
		RMSD:       pdbpose.RMSD{},
	}
	res, err := protein.RunBatch(ctx, b, subjects, p.Env.Workers)
	if err != nil {
		return Summary{}, err
	}

	out := Summary{Records: len(res.Records), Skipped: len(res.Skipped), Failed: len(res.Failures)}
	if p.Store != nil {
		if out.RunID, err = p.Store.Save(ctx, def.Name, res.Records); err != nil {
			return out, err
		}
	}
	if p.Env.CSV != "" {
		if err := writeCSV(p.Env.CSV, def, res.Records); err != nil {
			return out, err
		}
	}

	logger.Info("Run finished",
		zap.String("run_id", out.RunID),
		zap.Int("records", out.Records),
		zap.Int("skipped", out.Skipped),
		zap.Int("failed", out.Failed),
	)
	return out, nil
}

// Subjects lists the structure files matching pattern in name order, leaving out the
// reference itself.
func Subjects(pattern, reference string) ([]protein.Subject, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}
	sort.Strings(paths)

	skip := filepath.Clean(reference)
	subjects := make([]protein.Subject, 0, len(paths))
	for _, path := range paths {
		if filepath.Clean(path) == skip {
			continue
		}
		path := path
		subjects = append(subjects, protein.Subject{
			Name: pdbpose.IDFromPath(path),
			Load: func(context.Context) (pose.Structure, error) {
				return pdbpose.Load(path)
			},
		})
	}
	return subjects, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return align.ReadLines(f)
}

func writeCSV(path string, def config.Reference, records []protein.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteCSV(f, def.Loops, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
