package handler

import (
	"context"
	"net/http"

	"github.com/yumyai/loopswap/logger"
	"go.uber.org/zap"
)

// StartRun queues a batch run and returns immediately with the job. Only one run may be
// active at a time.
func (dbctx *DBContext) StartRun(w http.ResponseWriter, r *http.Request) {
	if dbctx.Runner == nil || dbctx.Jobs == nil {
		writeError(w, http.StatusNotImplemented, "runs are not enabled on this server")
		return
	}
	job, ok := dbctx.Jobs.NewJob()
	if !ok {
		writeError(w, http.StatusConflict, "a run is already in progress")
		return
	}
	go dbctx.execute(job.ID)

	w.Header().Set("Location", "/api/v1/runs/"+job.ID)
	writeJSON(w, http.StatusAccepted, job)
}

// execute runs detached from the request that started it, until RunContext is done.
func (dbctx *DBContext) execute(jobID string) {
	log := logger.With(zap.String("job_id", jobID))
	dbctx.Jobs.SetRunning(jobID)

	ctx := dbctx.RunContext
	if ctx == nil {
		ctx = context.Background()
	}
	summary, err := dbctx.Runner(ctx)
	if err != nil {
		log.Warn("Run failed", zap.Error(err))
		dbctx.Jobs.FailJob(jobID, err)
		return
	}
	log.Info("Run completed", zap.String("run_id", summary.RunID), zap.Int("records", summary.Records))
	dbctx.Jobs.CompleteJob(jobID, summary)
}

func (dbctx *DBContext) RunStatus(w http.ResponseWriter, r *http.Request) {
	if dbctx.Jobs == nil {
		writeError(w, http.StatusNotFound, "no such run")
		return
	}
	job, ok := dbctx.Jobs.GetJob(r.PathValue("job_id"))
	if !ok {
		writeError(w, http.StatusNotFound, "no such run")
		return
	}
	writeJSON(w, http.StatusOK, job)
}
