package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"

	"github.com/yumyai/loopswap/internal/run"
	"github.com/yumyai/loopswap/logger"
	"github.com/yumyai/loopswap/pkg/config"
	"github.com/yumyai/loopswap/pkg/db"
	"github.com/yumyai/loopswap/pkg/handler"
	"github.com/yumyai/loopswap/pkg/middle"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	serve := flag.Bool("serve", false, "serve stored records over HTTP instead of running a batch")
	debug := flag.Bool("debug", false, "log at debug level")
	logFormat := flag.String("log-format", logger.FormatConsole, "log output format: console or json")
	flag.Parse()

	// Establish logger
	VERSION := "0.1.0"
	LOG_LEVEL := zapcore.InfoLevel
	if *debug {
		LOG_LEVEL = zapcore.DebugLevel
	}

	if err := logger.InitLogger(LOG_LEVEL, *logFormat); err != nil {
		panic(err)
	}

	// Runs last, after the deferred flushes below.
	exitCode := 0
	defer func() {
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}()
	defer logger.Sync() // Make sure that the buffered is flushed.

	env := config.LoadEnv()
	logger.Info("Start:", zap.String("Version", VERSION), zap.String("reference", env.Reference))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := db.Open(ctx, env.DB)
	if err != nil {
		logger.Error("Error opening database", zap.String("DB_LOC", env.DB), zap.Error(err))
		exitCode = 1
		return
	}
	defer store.Close()

	pipeline := run.Pipeline{Env: env, Store: store}

	if !*serve {
		if _, err := pipeline.Run(ctx); err != nil {
			logger.Error("Run failed", zap.Error(err))
			exitCode = 1
		}
		return
	}

	dbctx := &handler.DBContext{
		Store:      store,
		Runner:     runner(pipeline),
		Jobs:       handler.NewJobManager(),
		RunContext: ctx,
	}
	mux := handler.NewRouter(dbctx)

	// Apply middleware
	base := logger.L()
	h := middle.Chain(mux, middle.RequestIDMiddleware(base), middle.LoggingMiddleware(base))

	srv := &http.Server{Addr: env.Addr, Handler: h}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	logger.Info("Server starting on " + env.Addr + "...")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Error starting server:", zap.String("error message", err.Error()))
	}
}

func runner(p run.Pipeline) handler.Runner {
	return func(ctx context.Context) (handler.RunSummary, error) {
		s, err := p.Run(ctx)
		return handler.RunSummary{RunID: s.RunID, Records: s.Records, Skipped: s.Skipped, Failed: s.Failed}, err
	}
}
