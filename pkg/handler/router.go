package handler

import "net/http"

func NewRouter(dbctx *DBContext) *http.ServeMux {
	mux := http.NewServeMux()

	// Error route
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	// Pages
	mux.HandleFunc("GET /records/{subject}", dbctx.RecordPage)

	// API routes
	mux.HandleFunc("GET /api/v1/health", HealthCheck)
	mux.HandleFunc("GET /api/v1/records", dbctx.ListRecordsAPI)
	mux.HandleFunc("GET /api/v1/records/{subject}", dbctx.RecordAPI)
	mux.HandleFunc("GET /api/v1/targets", dbctx.TargetsAPI)
	mux.HandleFunc("POST /api/v1/runs", dbctx.StartRun)
	mux.HandleFunc("GET /api/v1/runs/{job_id}", dbctx.RunStatus)

	return mux
}
