package persistence

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/harun/jsonstudio/internal/observability"
	"github.com/harun/jsonstudio/pkg/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"
)

const (
	// StorageKey is the KV key holding the session.
	StorageKey = "jsonstudio-tabs"
	// MaxPersistedContent is the largest content, in characters, that is persisted.
	MaxPersistedContent = 100000
)

// Subscriber is the part of session.Store the adapter listens to.
type Subscriber interface {
	Subscribe(event session.Event, handler session.Handler) func()
}

// Adapter writes the session through to a KV on every change and restores it
// on startup.
type Adapter struct {
	kv           KV
	key          string
	logger       zerolog.Logger
	schemaLoader gojsonschema.JSONLoader
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithKey overrides StorageKey.
func WithKey(key string) AdapterOption {
	return func(a *Adapter) {
		if key != "" {
			a.key = key
		}
	}
}

// WithLogger sets the adapter logger.
func WithLogger(logger zerolog.Logger) AdapterOption {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// NewAdapter creates an adapter over kv.
func NewAdapter(kv KV, opts ...AdapterOption) *Adapter {
	observability.EnsureRegistered()

	a := &Adapter{
		kv:           kv,
		key:          StorageKey,
		logger:       log.Logger,
		schemaLoader: gojsonschema.NewStringLoader(StateSchema),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With().Str("component", "session-persistence").Logger()
	return a
}

// Sanitize strips what must never be persisted or restored from a tab: its file
// identity, and content over MaxPersistedContent characters.
func Sanitize(tab session.Tab) session.Tab {
	tab = tab.Clone()
	tab.FilePath = ""
	tab.FileName = ""
	if len(tab.Content) > MaxPersistedContent && utf8.RuneCountInString(tab.Content) > MaxPersistedContent {
		tab.Content = ""
	}
	return tab
}

func sanitizeState(st session.State) session.State {
	out := session.State{
		Tabs:        make([]session.Tab, len(st.Tabs)),
		ActiveTabID: st.ActiveTabID,
	}
	for i, t := range st.Tabs {
		out.Tabs[i] = Sanitize(t)
	}
	return out
}

// Save writes a sanitized copy of st.
func (a *Adapter) Save(st session.State) error {
	start := time.Now()

	data, err := json.Marshal(sanitizeState(st))
	if err != nil {
		observability.RecordSessionSave(time.Since(start), false)
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := a.kv.Set(a.key, string(data)); err != nil {
		observability.RecordSessionSave(time.Since(start), false)
		return fmt.Errorf("failed to store session: %w", err)
	}

	observability.RecordSessionSave(time.Since(start), true)
	a.logger.Debug().
		Int("tabs", len(st.Tabs)).
		Int("bytes", len(data)).
		Msg("Session saved")
	return nil
}

// Load restores the stored session. Anything unusable yields a fresh
// single-tab session.
func (a *Adapter) Load() session.State {
	start := time.Now()

	st, outcome := a.load()
	observability.RecordSessionLoad(time.Since(start), outcome)
	a.logger.Info().
		Str("outcome", outcome).
		Int("tabs", len(st.Tabs)).
		Msg("Session loaded")
	return st
}

func (a *Adapter) load() (session.State, string) {
	raw, ok, err := a.kv.Get(a.key)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Failed to read stored session, starting fresh")
		return session.DefaultState(), "error"
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return session.DefaultState(), "empty"
	}

	if err := a.validateSchema(raw); err != nil {
		a.logger.Warn().Err(err).Msg("Stored session is malformed, starting fresh")
		return session.DefaultState(), "corrupt"
	}

	var stored session.State
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to parse stored session, starting fresh")
		return session.DefaultState(), "corrupt"
	}

	return session.Normalize(sanitizeState(stored)), "restored"
}

// validateSchema validates the stored value against StateSchema
func (a *Adapter) validateSchema(raw string) error {
	result, err := gojsonschema.Validate(a.schemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var errMsg string
		for i, err := range result.Errors() {
			if i > 0 {
				errMsg += "; "
			}
			errMsg += err.String()
		}
		return fmt.Errorf("schema validation errors: %s", errMsg)
	}

	return nil
}

// Attach saves the session after every change published by store. Save
// failures are logged and otherwise ignored. The returned func detaches.
func (a *Adapter) Attach(store Subscriber) func() {
	return store.Subscribe(session.EventStateChanged, func(payload interface{}) {
		st, ok := payload.(session.State)
		if !ok {
			return
		}
		if err := a.Save(st); err != nil {
			a.logger.Error().Err(err).Msg("Failed to persist session")
		}
	})
}
