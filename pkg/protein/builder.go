package protein

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yumyai/loopswap/logger"
	"github.com/yumyai/loopswap/pkg/align"
	"github.com/yumyai/loopswap/pkg/loop"
	"github.com/yumyai/loopswap/pkg/pose"
	"github.com/yumyai/loopswap/pkg/residue"
	"github.com/yumyai/loopswap/pkg/triad"
	"go.uber.org/zap"
)

// Reference is the fixed side of every comparison. It is shared read-only across subjects.
type Reference struct {
	Name      string
	Structure pose.Structure
	Loops     loop.Table
	// Triad is only mapped when HasTriad is set.
	Triad    triad.Spec
	HasTriad bool
}

// Builder holds everything a pair needs besides the subject structure: the reference, the
// summary and alignment files already split into lines, and the RMSD collaborator.
type Builder struct {
	Reference  Reference
	Summary    []string
	Alignments []string
	Parser     align.Parser
	RMSD       pose.RangeRMSD
}

// Build analyses one subject. align.ErrRecordNotFound means the subject is missing from
// the summary or the alignment file.
func (b Builder) Build(ctx context.Context, subject pose.Structure) (Record, error) {
	name := strings.ToUpper(subject.ID())
	log := logger.With(zap.String("subject", name))

	summary, err := align.FindSummary(b.Summary, name)
	if err != nil {
		return Record{}, err
	}
	aln, err := b.parser().Parse(b.Alignments, name)
	if err != nil {
		return Record{}, err
	}
	columns, err := residue.MapAlignedResidues(aln, b.Reference.Structure, subject)
	if err != nil {
		return Record{}, fmt.Errorf("map %s: %w", name, err)
	}
	log.Debug("mapped alignment", zap.Int("columns", columns.Len()))

	rec := Record{
		Reference: strings.ToUpper(b.Reference.Name),
		Subject:   name,
		Summary:   summary,
		Alignment: columns,
	}
	if b.Reference.HasTriad {
		rec.Triad = triad.Map(b.Reference.Triad, columns)
	}

	matcher := loop.Matcher{Reference: b.Reference.Structure, Subject: subject, RMSD: b.RMSD}
	for _, l := range b.Reference.Loops.Boundaries() {
		if err := ctx.Err(); err != nil {
			return Record{}, err
		}
		m, err := matcher.Match(l, columns, name)
		if errors.Is(err, loop.ErrUnresolvedLoop) {
			log.Debug("loop skipped", zap.String("loop", l.Name), zap.Error(err))
			if rec.LoopFailures == nil {
				rec.LoopFailures = make(map[string]string)
			}
			rec.LoopFailures[l.Name] = err.Error()
			continue
		}
		if err != nil {
			return Record{}, fmt.Errorf("loop %s of %s: %w", l.Name, name, err)
		}
		rec.Loops = append(rec.Loops, m)
	}
	return rec, nil
}

func (b Builder) parser() align.Parser {
	if b.Parser.Marker == "" {
		return align.DefaultParser()
	}
	return b.Parser
}
