package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Factory builds the ChatModel for a catalog entry.
type Factory func(ctx context.Context, m Model, apiKey string, limiter *rate.Limiter) (ChatModel, error)

// Registry resolves model names to shared ChatModel clients. It is built once
// at startup and injected; the same (provider, api key, model) always yields
// the same client, and concurrent first requests construct it only once.
type Registry struct {
	cfg      Config
	catalog  *Catalog
	limiters *limiterSet
	factory  Factory

	mu     sync.RWMutex
	models map[string]ChatModel
	group  singleflight.Group
}

// RegistryOption customizes a Registry.
type RegistryOption func(*Registry)

// WithFactory replaces the provider client constructor.
func WithFactory(f Factory) RegistryOption {
	return func(r *Registry) {
		r.factory = f
	}
}

// NewRegistry creates a Registry over catalog.
func NewRegistry(cfg Config, catalog *Catalog, opts ...RegistryOption) *Registry {
	r := &Registry{
		cfg:      cfg,
		catalog:  catalog,
		limiters: newLimiterSet(cfg.RateLimitRPS, cfg.RateLimitBurst),
		models:   make(map[string]ChatModel),
	}
	r.factory = r.defaultFactory
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog returns the model catalog.
func (r *Registry) Catalog() *Catalog {
	return r.catalog
}

// Configured reports whether calls to provider can be made.
func (r *Registry) Configured(provider string) bool {
	return r.cfg.Noop || provider == ProviderNoop || r.cfg.APIKey(provider) != ""
}

// Get returns the client for the named model. An empty name selects the
// catalog default.
func (r *Registry) Get(ctx context.Context, name string) (ChatModel, error) {
	var m Model
	if name == "" {
		m = r.catalog.Default()
	} else {
		var ok bool
		if m, ok = r.catalog.Lookup(name); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
		}
	}

	if r.cfg.Noop || m.Provider == ProviderNoop {
		return r.getOrCreate(ctx, ProviderNoop+"|"+m.Name, func(context.Context) (ChatModel, error) {
			return NewNoOp(m.Name), nil
		})
	}

	apiKey := r.cfg.APIKey(m.Provider)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s (model %s)", ErrProviderNotConfigured, m.Provider, m.Name)
	}

	key := m.Provider + "|" + fingerprint(apiKey) + "|" + m.Name
	return r.getOrCreate(ctx, key, func(ctx context.Context) (ChatModel, error) {
		return r.factory(ctx, m, apiKey, r.limiters.get(m.Provider))
	})
}

func (r *Registry) getOrCreate(ctx context.Context, key string, build func(context.Context) (ChatModel, error)) (ChatModel, error) {
	r.mu.RLock()
	cm, ok := r.models[key]
	r.mu.RUnlock()
	if ok {
		return cm, nil
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		r.mu.RLock()
		existing, ok := r.models[key]
		r.mu.RUnlock()
		if ok {
			return existing, nil
		}

		// Other callers may be waiting on this construction.
		created, err := build(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.models[key] = created
		r.mu.Unlock()
		return created, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(ChatModel), nil
}

func (r *Registry) defaultFactory(ctx context.Context, m Model, apiKey string, limiter *rate.Limiter) (ChatModel, error) {
	slog.InfoContext(ctx, "creating chat model client",
		slog.String("provider", m.Provider),
		slog.String("model", m.Name))

	switch m.Provider {
	case ProviderGroq:
		return NewGroq(apiKey, m.Name, r.cfg, limiter), nil
	case ProviderOpenAI:
		return NewOpenAI(apiKey, m.Name, r.cfg, limiter), nil
	case ProviderAnthropic:
		return NewClaude(apiKey, m.Name, r.cfg, limiter), nil
	case ProviderGemini:
		g, err := NewGemini(ctx, apiKey, m.Name, r.cfg, limiter)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, m.Provider)
	}
}

// fingerprint keys the cache without holding raw secrets in map keys.
func fingerprint(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:8])
}
