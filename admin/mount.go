package admin

import (
	"net/http"
	"strings"
)

func requireBuilder(b *Builder) {
	if b == nil {
		panic("admin: nil builder")
	}
}

func requireGuard(g Guard, name string) {
	if g == nil {
		panic("admin: " + name + ": nil Guard")
	}
}

func resolvePath(specPath, def string) string {
	if strings.TrimSpace(specPath) == "" {
		return def
	}
	return specPath
}

func normalizePathOrPanic(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		panic("admin: empty path")
	}
	if !strings.HasPrefix(path, "/") {
		panic("admin: invalid path (must start with '/'): " + path)
	}
	if strings.ContainsAny(path, " \t\r\n?#{}") {
		panic("admin: invalid path (contains whitespace, ?# or a pattern): " + path)
	}
	if strings.Contains(path, "//") {
		panic("admin: invalid path (contains //): " + path)
	}
	return path
}

func (b *Builder) register(path string, h http.Handler) {
	requireBuilder(b)
	path = normalizePathOrPanic(path)
	if h == nil {
		panic("admin: nil handler for path " + path)
	}
	if _, exists := b.paths[path]; exists {
		panic("admin: duplicated path handler: " + path)
	}
	b.paths[path] = h
}

// mount guards h, registers it and lists it on the index page when title is set.
func (b *Builder) mount(name, title, path string, g Guard, h http.Handler) {
	requireBuilder(b)
	requireGuard(g, name)
	if h == nil {
		panic("admin: " + name + ": nil handler")
	}
	b.register(path, g.Middleware()(h))
	if title != "" {
		b.entries = append(b.entries, indexEntry{Name: name, Title: title, Path: path, guard: g})
	}
}
