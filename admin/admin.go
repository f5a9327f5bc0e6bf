package admin

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/evan-idocoding/debugbar/httpx"
)

// Option configures admin assembly.
type Option func(*Builder)

// WithLogger sets the logger used by the subtree's recover middleware.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		requireBuilder(b)
		b.logger = l
	}
}

// Builder collects endpoints and builds the final admin handler.
//
// It is not constructed directly; configure admin via Options.
type Builder struct {
	prefix string
	logger *slog.Logger

	paths   map[string]http.Handler
	entries []indexEntry

	index *IndexSpec
}

// New assembles the admin subtree mounted at prefix.
func New(prefix string, opts ...Option) http.Handler {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix != "" {
		normalizePathOrPanic(prefix)
	}
	b := &Builder{prefix: prefix, paths: make(map[string]http.Handler)}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b.build()
}

func (b *Builder) build() http.Handler {
	b.assembleIndex()

	mux := http.NewServeMux()
	paths := make([]string, 0, len(b.paths))
	for p := range b.paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		mux.Handle(p, b.paths[p])
	}

	var recoverOpts []httpx.RecoverOption
	if b.logger != nil {
		recoverOpts = append(recoverOpts, httpx.WithRecoverLogger(b.logger))
	}
	chain := httpx.Chain(
		httpx.Recover(recoverOpts...),
		httpx.RequestID(),
	)

	var h http.Handler = mux
	if b.prefix != "" {
		h = http.StripPrefix(b.prefix, mux)
	}
	return chain.Handler(h)
}
