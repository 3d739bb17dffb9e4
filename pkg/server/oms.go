package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	drepo "SigFlow/internal/domain/repository"
	"SigFlow/internal/handler/ops"
	"SigFlow/internal/usecase"
	"SigFlow/pkg/bus"
	"SigFlow/pkg/config"
	xhttp "SigFlow/pkg/http"
	"SigFlow/pkg/logger"
)

// OMSApp owns the order-management process lifecycle: the bus subscription,
// the dispatcher and the ops HTTP server.
type OMSApp struct {
	cfg        *config.Config
	logger     *logger.Logger
	subscriber bus.Subscriber
	dispatcher *usecase.SignalDispatcher
	journal    drepo.SignalJournal
	opsh       *ops.Handler
}

// NewOMSApp creates the OMS process.
func NewOMSApp(
	cfg *config.Config,
	lgr *logger.Logger,
	subscriber bus.Subscriber,
	dispatcher *usecase.SignalDispatcher,
	journal drepo.SignalJournal,
	opsh *ops.Handler,
) *OMSApp {
	return &OMSApp{
		cfg:        cfg,
		logger:     lgr,
		subscriber: subscriber,
		dispatcher: dispatcher,
		journal:    journal,
		opsh:       opsh,
	}
}

// Run starts the subscriber and blocks until interrupted or the
// subscription dies for good (reconnect budget exhausted).
func (a *OMSApp) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	httpServer := xhttp.NewServer(a.logger, a.opsh,
		xhttp.WithPort(a.cfg.Ops.OMSPort),
		xhttp.WithTimeouts(a.cfg.Ops.ReadTimeout, a.cfg.Ops.WriteTimeout, a.cfg.Ops.ShutdownTimeout),
	)
	if err := httpServer.Start(); err != nil {
		return err
	}

	subErr := make(chan error, 1)
	go func() {
		subErr <- a.subscriber.Subscribe(ctx, a.dispatcher)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case <-sigCh:
		a.logger.Info("shutdown signal received")
		cancel()
		<-subErr
	case err := <-subErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("subscription terminated", logger.Error(err))
			runErr = err
		}
	}

	if err := a.shutdown(httpServer); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// shutdown releases resources in reverse order of acquisition.
func (a *OMSApp) shutdown(httpServer *xhttp.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Ops.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Warn("http shutdown error", logger.Error(err))
	}
	if err := a.journal.Close(); err != nil {
		a.logger.Warn("journal close error", logger.Error(err))
	}
	if err := a.subscriber.Close(); err != nil {
		a.logger.Warn("subscriber close error", logger.Error(err))
	}

	a.logger.Info("shutdown complete")
	return nil
}
