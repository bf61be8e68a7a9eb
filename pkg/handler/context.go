package handler

// DI for all handlers.

import (
	"context"

	"github.com/yumyai/loopswap/pkg/db"
	"github.com/yumyai/loopswap/pkg/protein"
)

// RecordReader is the read side of db.RecordStore.
type RecordReader interface {
	Get(ctx context.Context, subject string) (protein.Record, error)
	List(ctx context.Context) ([]db.Row, error)
	Targets(ctx context.Context) ([]db.Target, error)
}

// RunSummary is what a finished batch run reports back.
type RunSummary struct {
	RunID   string `json:"run_id"`
	Records int    `json:"records"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

// Runner analyses the configured subjects and stores the records.
type Runner func(ctx context.Context) (RunSummary, error)

type DBContext struct {
	Store RecordReader
	// Runner is optional; without it runs cannot be started over HTTP.
	Runner Runner
	Jobs   *JobManager
	// RunContext bounds runs started over HTTP, which outlive their request. Background
	// when nil.
	RunContext context.Context
}
