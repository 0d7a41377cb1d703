// Package resource loads agent resources (prompts, model files,
// knowledge bases) by URI. Loaders are routed by scheme; file and
// http/https are built in, and other schemes (object storage, version
// control) register through RegisterLoader. An optional SQLite cache
// avoids refetching remote resources.
//
// The compiler front end never calls this package: URIs flow out of the
// AST and are resolved here at agent execution time.
package resource

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Loader fetches the contents of one URI.
type Loader interface {
	Load(ctx context.Context, uri *url.URL) ([]byte, error)
}

// Manager routes resource loads by URI scheme.
type Manager struct {
	loaders map[string]Loader
	cache   *Cache
	logger  *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLoader registers a loader for a scheme, replacing any default.
func WithLoader(scheme string, l Loader) Option {
	return func(m *Manager) { m.loaders[scheme] = l }
}

// WithCache stores fetched resources in the cache and serves repeat
// loads from it.
func WithCache(c *Cache) Option {
	return func(m *Manager) { m.cache = c }
}

// WithLogger sets the manager's logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// RegisterLoader installs a loader for a scheme after construction,
// replacing any existing one.
func (m *Manager) RegisterLoader(scheme string, l Loader) {
	m.loaders[strings.ToLower(scheme)] = l
}

// NewManager creates a manager with file and http/https loaders
// installed. The file loader is rooted at baseDir.
func NewManager(baseDir string, opts ...Option) *Manager {
	m := &Manager{
		loaders: make(map[string]Loader),
		logger:  slog.Default(),
	}
	local := NewLocalLoader(baseDir)
	m.loaders["file"] = local
	m.loaders[""] = local
	httpLoader := NewHTTPLoader(DefaultHTTPTimeout)
	m.loaders["http"] = httpLoader
	m.loaders["https"] = httpLoader
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load fetches the resource at rawURI. A URI without a scheme is treated
// as a local file path.
func (m *Manager) Load(ctx context.Context, rawURI string) ([]byte, error) {
	if m.cache != nil {
		if data, ok, err := m.cache.Get(rawURI); err != nil {
			return nil, fmt.Errorf("cache lookup for %s: %w", rawURI, err)
		} else if ok {
			m.logger.Debug("resource cache hit", "uri", rawURI)
			return data, nil
		}
	}

	uri, err := url.Parse(rawURI)
	if err != nil {
		return nil, fmt.Errorf("invalid resource URI %q: %w", rawURI, err)
	}
	scheme := strings.ToLower(uri.Scheme)
	loader, ok := m.loaders[scheme]
	if !ok {
		return nil, fmt.Errorf("no loader registered for scheme %q (uri %s)", scheme, rawURI)
	}

	data, err := loader.Load(ctx, uri)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("resource loaded", "uri", rawURI, "bytes", len(data))

	if m.cache != nil {
		if err := m.cache.Put(rawURI, data); err != nil {
			// A failed cache write doesn't invalidate the load.
			m.logger.Warn("resource cache write failed", "uri", rawURI, "error", err)
		}
	}
	return data, nil
}
