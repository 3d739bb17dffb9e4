package di

import (
	"context"
	"fmt"
	"time"

	drepo "SigFlow/internal/domain/repository"
	"SigFlow/internal/handler/ops"
	internalrepo "SigFlow/internal/repository"
	"SigFlow/internal/service/broker"
	"SigFlow/internal/service/marketdata"
	"SigFlow/internal/strategy"
	"SigFlow/internal/usecase"
	"SigFlow/pkg/bus"
	pkgch "SigFlow/pkg/clickhouse"
	"SigFlow/pkg/config"
	"SigFlow/pkg/logger"
	"SigFlow/pkg/metrics"
	"SigFlow/pkg/server"
)

// ProvideLogger creates the process logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvidePublisherBus creates the backend-appropriate bus publisher.
func ProvidePublisherBus(cfg *config.Config, lgr *logger.Logger) (bus.Publisher, error) {
	switch cfg.Bus.Backend {
	case "kafka":
		return bus.NewKafka(lgr,
			bus.WithKafkaBrokers(cfg.Bus.Kafka.Brokers),
			bus.WithKafkaGroupID(cfg.Bus.Kafka.GroupID),
			bus.WithKafkaMaxWait(cfg.Bus.Kafka.MaxWait),
			bus.WithKafkaReconnect(cfg.Bus.ReconnectMax, cfg.Bus.ReconnectBackoff, cfg.Bus.ReconnectCeiling),
		)
	default:
		return bus.NewRedis(lgr,
			bus.WithRedisAddr(cfg.Bus.Redis.Addr),
			bus.WithRedisAuth(cfg.Bus.Redis.Password, cfg.Bus.Redis.DB),
			bus.WithRedisReconnect(cfg.Bus.ReconnectMax, cfg.Bus.ReconnectBackoff, cfg.Bus.ReconnectCeiling),
		)
	}
}

// ProvideSubscriberBus creates the backend-appropriate bus subscriber.
func ProvideSubscriberBus(cfg *config.Config, lgr *logger.Logger) (bus.Subscriber, error) {
	switch cfg.Bus.Backend {
	case "kafka":
		return bus.NewKafka(lgr,
			bus.WithKafkaBrokers(cfg.Bus.Kafka.Brokers),
			bus.WithKafkaGroupID(cfg.Bus.Kafka.GroupID),
			bus.WithKafkaMaxWait(cfg.Bus.Kafka.MaxWait),
			bus.WithKafkaReconnect(cfg.Bus.ReconnectMax, cfg.Bus.ReconnectBackoff, cfg.Bus.ReconnectCeiling),
		)
	default:
		return bus.NewRedis(lgr,
			bus.WithRedisAddr(cfg.Bus.Redis.Addr),
			bus.WithRedisAuth(cfg.Bus.Redis.Password, cfg.Bus.Redis.DB),
			bus.WithRedisReconnect(cfg.Bus.ReconnectMax, cfg.Bus.ReconnectBackoff, cfg.Bus.ReconnectCeiling),
		)
	}
}

// ProvideDirectory opens the SQLite account store.
func ProvideDirectory(cfg *config.Config) (*internalrepo.SQLiteDirectory, error) {
	dir, err := internalrepo.NewSQLiteDirectory(cfg.Directory.Path)
	if err != nil {
		return nil, fmt.Errorf("account directory: %w", err)
	}
	return dir, nil
}

// ProvideAccountDirectory binds the concrete store to the domain interface.
func ProvideAccountDirectory(dir *internalrepo.SQLiteDirectory) drepo.AccountDirectory {
	return dir
}

// ProvideWSFeed creates the streaming feed client when configured; nil for
// the simulator provider.
func ProvideWSFeed(cfg *config.Config, lgr *logger.Logger) *marketdata.WSFeed {
	if cfg.MarketData.Provider != "ws" {
		return nil
	}
	return marketdata.NewWSFeed(lgr,
		cfg.MarketData.WS.URL,
		cfg.MarketData.WS.Symbols,
		cfg.MarketData.WS.ReconnectDelay,
		cfg.MarketData.WS.PingInterval,
		cfg.MarketData.WS.Staleness,
	)
}

// ProvideMarketData selects the configured market data provider.
func ProvideMarketData(cfg *config.Config, feed *marketdata.WSFeed) drepo.MarketData {
	if feed != nil {
		return feed
	}
	return marketdata.NewSimulator(cfg.MarketData.Sim.MinPrice, cfg.MarketData.Sim.MaxPrice, 0)
}

// ProvideStrategy builds the configured strategy.
func ProvideStrategy(cfg *config.Config) strategy.Strategy {
	return strategy.Build(cfg.Strategy.Mode, strategy.Params{
		Probability: cfg.Strategy.Probability,
	})
}

// ProvideSignalPublisher wraps the bus publisher with the signal topic.
func ProvideSignalPublisher(pub bus.Publisher, cfg *config.Config) drepo.SignalPublisher {
	return internalrepo.NewBusSignalPublisher(pub, cfg.Bus.Topic)
}

// ProvideJournal creates the signal journal, or a no-op when disabled.
func ProvideJournal(cfg *config.Config) (drepo.SignalJournal, error) {
	if !cfg.Journal.Enabled {
		return internalrepo.NopJournal{}, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.Journal.ClickHouse.Host),
		pkgch.WithPort(cfg.Journal.ClickHouse.Port),
		pkgch.WithDatabase(cfg.Journal.ClickHouse.Database),
		pkgch.WithCredentials(cfg.Journal.ClickHouse.User, cfg.Journal.ClickHouse.Password),
		pkgch.WithTimeouts(cfg.Journal.ClickHouse.DialTimeout, cfg.Journal.ClickHouse.ReadTimeout, cfg.Journal.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("journal clickhouse: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.JournalSchema); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("journal schema: %w", err)
	}

	return internalrepo.NewClickHouseJournal(client, cfg.Journal.ClickHouse.Database+".signal_journal"), nil
}

// ProvideSignalEngine wires the cycle loop.
func ProvideSignalEngine(
	lgr *logger.Logger,
	directory drepo.AccountDirectory,
	market drepo.MarketData,
	strat strategy.Strategy,
	publisher drepo.SignalPublisher,
	journal drepo.SignalJournal,
	m drepo.Metrics,
	cfg *config.Config,
) *usecase.SignalEngine {
	return usecase.NewSignalEngine(lgr, directory, market, strat, publisher, journal, m,
		cfg.Engine.Symbol, cfg.Engine.CycleInterval)
}

// ProvideOrderPlacer creates the paper broker gateway.
func ProvideOrderPlacer(lgr *logger.Logger) drepo.OrderPlacer {
	return broker.NewPaper(lgr)
}

// ProvideSignalDispatcher wires the OMS relay.
func ProvideSignalDispatcher(
	lgr *logger.Logger,
	orders drepo.OrderPlacer,
	journal drepo.SignalJournal,
	m drepo.Metrics,
	cfg *config.Config,
) *usecase.SignalDispatcher {
	return usecase.NewSignalDispatcher(lgr, cfg.Bus.Topic, orders, journal, m)
}

// ProvideEngineOpsHandler registers engine health checks.
func ProvideEngineOpsHandler(lgr *logger.Logger, dir *internalrepo.SQLiteDirectory) *ops.Handler {
	h := ops.NewHandler(lgr, "signal-engine")
	h.AddCheck("directory", dir.Health)
	return h
}

// ProvideOMSOpsHandler registers OMS health checks.
func ProvideOMSOpsHandler(lgr *logger.Logger) *ops.Handler {
	return ops.NewHandler(lgr, "oms")
}

// ProvideEngineApp assembles the engine process.
func ProvideEngineApp(
	cfg *config.Config,
	lgr *logger.Logger,
	engine *usecase.SignalEngine,
	directory drepo.AccountDirectory,
	publisher drepo.SignalPublisher,
	journal drepo.SignalJournal,
	feed *marketdata.WSFeed,
	opsh *ops.Handler,
) *server.EngineApp {
	return server.NewEngineApp(cfg, lgr, engine, directory, publisher, journal, feed, opsh)
}

// ProvideOMSApp assembles the OMS process.
func ProvideOMSApp(
	cfg *config.Config,
	lgr *logger.Logger,
	subscriber bus.Subscriber,
	dispatcher *usecase.SignalDispatcher,
	journal drepo.SignalJournal,
	opsh *ops.Handler,
) *server.OMSApp {
	return server.NewOMSApp(cfg, lgr, subscriber, dispatcher, journal, opsh)
}
