package cli

import (
	"fmt"

	"github.com/harun/jsonstudio/internal/config"
	"github.com/harun/jsonstudio/internal/logger"
	"github.com/harun/jsonstudio/pkg/persistence"
	"github.com/harun/jsonstudio/pkg/session"
	"github.com/rs/zerolog"
)

// app is the wiring shared by every session command: config, logger, the KV
// backend and a store restored from it with persistence attached.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	kv      persistence.KV
	adapter *persistence.Adapter
	store   *session.Store
	detach  func()
}

func openApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	lg, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   cfg.Logging.Console,
		Pretty:    cfg.Logging.Pretty,
		Redaction: cfg.Logging.Redaction,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	kv, err := persistence.Open(cfg.Storage.Backend, cfg.Storage.Path, cfg.DataDir)
	if err != nil {
		lg.Close()
		return nil, fmt.Errorf("failed to open session storage: %w", err)
	}

	adapter := persistence.NewAdapter(kv,
		persistence.WithKey(cfg.Storage.Key),
		persistence.WithLogger(lg.GetZerolog()),
	)
	store := session.New(adapter.Load(), session.WithLogger(lg.GetZerolog()))
	log := lg.Component("cli")

	// Persist the restored session right away so tab ids stay stable across
	// invocations even when nothing changes.
	if err := adapter.Save(store.State()); err != nil {
		log.Warn().Err(err).Msg("Failed to persist restored session")
	}

	a := &app{
		cfg:     cfg,
		log:     lg,
		kv:      kv,
		adapter: adapter,
		store:   store,
	}
	a.detach = adapter.Attach(store)

	log.Debug().
		Str("backend", cfg.Storage.Backend).
		Int("tabs", store.Len()).
		Msg("Session opened")

	return a, nil
}

func (a *app) componentLogger(component string) zerolog.Logger {
	return a.log.Component(component)
}

// Close detaches persistence and releases the backend and log file.
func (a *app) Close() error {
	if a.detach != nil {
		a.detach()
	}
	a.store.Close()

	var firstErr error
	if err := a.kv.Close(); err != nil {
		firstErr = fmt.Errorf("failed to close session storage: %w", err)
	}
	if err := a.log.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// withApp opens the app, runs fn and closes the app.
func withApp(fn func(a *app) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
