package handler

import (
	"errors"
	"net/http"

	"github.com/yumyai/loopswap/logger"
	"github.com/yumyai/loopswap/pkg/db"
	"github.com/yumyai/loopswap/pkg/render"
	"go.uber.org/zap"
)

func (dbctx *DBContext) ListRecordsAPI(w http.ResponseWriter, r *http.Request) {
	rows, err := dbctx.Store.List(r.Context())
	if err != nil {
		logger.Error("Error listing records", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list records")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (dbctx *DBContext) RecordAPI(w http.ResponseWriter, r *http.Request) {
	subject := r.PathValue("subject")
	rec, err := dbctx.Store.Get(r.Context(), subject)
	if errors.Is(err, db.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "no record for "+subject)
		return
	}
	if err != nil {
		logger.Error("Error reading record", zap.String("subject", subject), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not read record")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (dbctx *DBContext) TargetsAPI(w http.ResponseWriter, r *http.Request) {
	targets, err := dbctx.Store.Targets(r.Context())
	if err != nil {
		logger.Error("Error listing targets", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list targets")
		return
	}
	writeJSON(w, http.StatusOK, targets)
}

// RecordPage renders one record as HTML.
func (dbctx *DBContext) RecordPage(w http.ResponseWriter, r *http.Request) {
	subject := r.PathValue("subject")
	rec, err := dbctx.Store.Get(r.Context(), subject)
	if errors.Is(err, db.ErrRecordNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error("Error reading record", zap.String("subject", subject), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.RenderRecordPage(w, rec); err != nil {
		logger.Error("Error rendering record", zap.String("subject", subject), zap.Error(err))
	}
}
