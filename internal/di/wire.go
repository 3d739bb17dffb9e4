//go:build wireinject
// +build wireinject

package di

import (
	"SigFlow/pkg/config"
	"SigFlow/pkg/server"

	"github.com/google/wire"
)

// InitializeEngine wires up the signal-engine process.
// Wire will generate the implementation of this function.
func InitializeEngine(cfg *config.Config) (*server.EngineApp, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvidePublisherBus,
		ProvideDirectory,
		ProvideAccountDirectory,
		ProvideWSFeed,
		ProvideJournal,

		// Repositories and services
		ProvideMarketData,
		ProvideStrategy,
		ProvideSignalPublisher,

		// Use cases
		ProvideSignalEngine,

		// Process
		ProvideEngineOpsHandler,
		ProvideEngineApp,
	)
	return &server.EngineApp{}, nil
}

// InitializeOMS wires up the order-management process.
func InitializeOMS(cfg *config.Config) (*server.OMSApp, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideSubscriberBus,
		ProvideJournal,

		// Services
		ProvideOrderPlacer,

		// Use cases
		ProvideSignalDispatcher,

		// Process
		ProvideOMSOpsHandler,
		ProvideOMSApp,
	)
	return &server.OMSApp{}, nil
}
