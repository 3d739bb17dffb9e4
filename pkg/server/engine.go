package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	drepo "SigFlow/internal/domain/repository"
	"SigFlow/internal/handler/ops"
	"SigFlow/internal/service/marketdata"
	"SigFlow/internal/usecase"
	"SigFlow/pkg/config"
	xhttp "SigFlow/pkg/http"
	"SigFlow/pkg/logger"
)

// EngineApp owns the signal-engine process lifecycle: the cycle loop, the
// ops HTTP server and every held resource, all released on shutdown.
type EngineApp struct {
	cfg       *config.Config
	logger    *logger.Logger
	engine    *usecase.SignalEngine
	directory drepo.AccountDirectory
	publisher drepo.SignalPublisher
	journal   drepo.SignalJournal
	feed      *marketdata.WSFeed // nil when the simulator provider is configured
	opsh      *ops.Handler
}

// NewEngineApp creates the engine process.
func NewEngineApp(
	cfg *config.Config,
	lgr *logger.Logger,
	engine *usecase.SignalEngine,
	directory drepo.AccountDirectory,
	publisher drepo.SignalPublisher,
	journal drepo.SignalJournal,
	feed *marketdata.WSFeed,
	opsh *ops.Handler,
) *EngineApp {
	return &EngineApp{
		cfg:       cfg,
		logger:    lgr,
		engine:    engine,
		directory: directory,
		publisher: publisher,
		journal:   journal,
		feed:      feed,
		opsh:      opsh,
	}
}

// Run starts the engine and blocks until interrupted.
func (a *EngineApp) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.feed != nil {
		if err := a.feed.Start(ctx); err != nil {
			return err
		}
	}

	httpServer := xhttp.NewServer(a.logger, a.opsh,
		xhttp.WithPort(a.cfg.Ops.EnginePort),
		xhttp.WithTimeouts(a.cfg.Ops.ReadTimeout, a.cfg.Ops.WriteTimeout, a.cfg.Ops.ShutdownTimeout),
	)
	if err := httpServer.Start(); err != nil {
		return err
	}

	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		_ = a.engine.Run(ctx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	cancel()
	<-engineDone

	return a.shutdown(httpServer)
}

// shutdown releases resources in reverse order of acquisition.
func (a *EngineApp) shutdown(httpServer *xhttp.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Ops.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Warn("http shutdown error", logger.Error(err))
	}
	if a.feed != nil {
		if err := a.feed.Close(); err != nil {
			a.logger.Warn("feed close error", logger.Error(err))
		}
	}
	if err := a.publisher.Close(); err != nil {
		a.logger.Warn("publisher close error", logger.Error(err))
	}
	if err := a.journal.Close(); err != nil {
		a.logger.Warn("journal close error", logger.Error(err))
	}
	if err := a.directory.Close(); err != nil {
		a.logger.Warn("directory close error", logger.Error(err))
	}

	a.logger.Info("shutdown complete")
	return nil
}
