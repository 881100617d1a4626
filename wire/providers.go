package wire

import (
	"context"

	"github.com/Digital-Creators-Team/stakes-engine/command"
	"github.com/Digital-Creators-Team/stakes-engine/config"
	"github.com/Digital-Creators-Team/stakes-engine/events/kafka"
	"github.com/Digital-Creators-Team/stakes-engine/game"
	"github.com/Digital-Creators-Team/stakes-engine/logging"
	"github.com/Digital-Creators-Team/stakes-engine/pkg/providers"
	"github.com/Digital-Creators-Team/stakes-engine/provider"
	"github.com/Digital-Creators-Team/stakes-engine/server"
	"github.com/Digital-Creators-Team/stakes-engine/store"
	"github.com/google/wire"
	"github.com/rs/zerolog"
)

// Runtime is everything a front end (REPL, HTTP) needs to run commands
type Runtime struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Engine     *game.Engine
	Store      *store.Store
	Dispatcher *command.Dispatcher
}

// ProvideLogger provides a zerolog.Logger
func ProvideLogger(cfg *config.Config) zerolog.Logger {
	return logging.New(cfg.Logging)
}

// ProvideRules loads game rules from cfg.RulesPath or the built-in defaults
func ProvideRules(cfg *config.Config) (game.Rules, error) {
	return game.LoadRules(cfg.RulesPath)
}

// ProvideRandomSource provides the random source, seeded from cfg.Seed
func ProvideRandomSource(cfg *config.Config) game.RandomSource {
	return game.NewRandomSource(cfg.Seed)
}

// ProvideStateProvider provides the state provider selected by cfg.Store.Backend
func ProvideStateProvider(cfg *config.Config, logger zerolog.Logger) (providers.StateProvider, func(), error) {
	sp, err := provider.NewStateProvider(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := sp.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close state provider")
		}
	}
	return sp, cleanup, nil
}

// ProvideStore provides the account store, loaded from the state provider
func ProvideStore(sp providers.StateProvider, engine *game.Engine, logger zerolog.Logger) (*store.Store, error) {
	st := store.New(sp, engine.Catalog(), logger)
	if err := st.Load(context.Background()); err != nil {
		return nil, err
	}
	return st, nil
}

// ProvideKafkaProducer provides the audit producer. It is nil when no brokers are configured.
func ProvideKafkaProducer(cfg *config.Config, logger zerolog.Logger) (*kafka.Producer, func(), error) {
	producer, err := kafka.NewProducerWithConfig(kafka.ProducerConfig{
		Brokers:   cfg.Kafka.Brokers,
		Logger:    logger,
		WorkerNum: cfg.Kafka.WorkerNum,
	})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if producer == nil {
			return
		}
		if err := producer.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close Kafka producer")
		}
	}
	return producer, cleanup, nil
}

// ProvideAuditProvider provides the command audit sink
func ProvideAuditProvider(cfg *config.Config, producer *kafka.Producer, logger zerolog.Logger) providers.AuditProvider {
	if producer == nil {
		// a typed nil would defeat the provider's nil check
		return provider.NewLogProvider(cfg, nil, logger)
	}
	return provider.NewLogProvider(cfg, producer, logger)
}

// ProvideRuntime assembles the runtime
func ProvideRuntime(cfg *config.Config, logger zerolog.Logger, engine *game.Engine, st *store.Store, d *command.Dispatcher) *Runtime {
	return &Runtime{
		Config:     cfg,
		Logger:     logger,
		Engine:     engine,
		Store:      st,
		Dispatcher: d,
	}
}

// ProvideServerOptions provides server options
func ProvideServerOptions(cfg *config.Config, logger zerolog.Logger, d *command.Dispatcher) server.Options {
	return server.Options{
		Config:     cfg,
		Logger:     logger,
		Dispatcher: d,
	}
}

// ProvideApp provides the main application
func ProvideApp(opts server.Options) *server.App {
	return server.New(opts)
}

// LoggingSet is the wire provider set for logging
var LoggingSet = wire.NewSet(
	ProvideLogger,
)

// GameSet is the wire provider set for rules and the engine
var GameSet = wire.NewSet(
	ProvideRules,
	ProvideRandomSource,
	game.NewEngine,
)

// StoreSet is the wire provider set for persistence
var StoreSet = wire.NewSet(
	ProvideStateProvider,
	ProvideStore,
)

// AuditSet is the wire provider set for Kafka auditing
var AuditSet = wire.NewSet(
	ProvideKafkaProducer,
	ProvideAuditProvider,
)

// DispatcherSet is the wire provider set for the command dispatcher
var DispatcherSet = wire.NewSet(
	command.NewDispatcher,
)

// RuntimeSet builds a Runtime from a config
var RuntimeSet = wire.NewSet(
	LoggingSet,
	GameSet,
	StoreSet,
	AuditSet,
	DispatcherSet,
	ProvideRuntime,
)

// ServerSet is the wire provider set for server
var ServerSet = wire.NewSet(
	ProvideServerOptions,
	ProvideApp,
)
