package protein

import (
	"context"
	"errors"
	"sync"

	"github.com/yumyai/loopswap/logger"
	"github.com/yumyai/loopswap/pkg/align"
	"github.com/yumyai/loopswap/pkg/pose"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Subject is a structure that is loaded only when its turn comes.
type Subject struct {
	Name string
	Load func(ctx context.Context) (pose.Structure, error)
}

// BatchResult keeps records in subject order. Subjects absent from the alignment files are
// Skipped; any other error lands in Failures.
type BatchResult struct {
	Records  []Record
	Skipped  []string
	Failures map[string]error
}

// RunBatch builds records for subjects with at most workers running at once. Per-subject
// errors never stop the batch; only cancelling ctx does.
func RunBatch(ctx context.Context, b Builder, subjects []Subject, workers int) (BatchResult, error) {
	if workers < 1 {
		workers = 1
	}
	type outcome struct {
		rec Record
		err error
		ok  bool
	}
	outcomes := make([]outcome, len(subjects))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, s := range subjects {
		i, s := i, s
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			rec, err := buildOne(gctx, b, s)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			mu.Lock()
			outcomes[i] = outcome{rec: rec, err: err, ok: true}
			mu.Unlock()
			return nil
		})
	}
	waitErr := g.Wait()

	res := BatchResult{Failures: make(map[string]error)}
	for i, o := range outcomes {
		name := subjects[i].Name
		switch {
		case !o.ok:
			continue
		case errors.Is(o.err, align.ErrRecordNotFound):
			logger.Debug("subject not in alignment", zap.String("subject", name))
			res.Skipped = append(res.Skipped, name)
		case o.err != nil:
			logger.Warn(name+" failed", zap.Error(o.err))
			res.Failures[name] = o.err
		default:
			res.Records = append(res.Records, o.rec)
		}
	}
	if waitErr != nil {
		return res, waitErr
	}
	return res, ctx.Err()
}

func buildOne(ctx context.Context, b Builder, s Subject) (Record, error) {
	structure, err := s.Load(ctx)
	if err != nil {
		return Record{}, err
	}
	return b.Build(ctx, structure)
}
