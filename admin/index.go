package admin

import (
	"html/template"
	"net/http"
	"net/http/httptest"
)

// IndexSpec mounts an HTML page listing the enabled endpoints the visitor may open.
type IndexSpec struct {
	Guard Guard
	Path  string // default "/"
}

func EnableIndex(spec IndexSpec) Option {
	return func(b *Builder) {
		requireBuilder(b)
		requireGuard(spec.Guard, "index")
		if b.index != nil {
			panic("admin: EnableIndex called more than once")
		}
		spec.Path = normalizePathOrPanic(resolvePath(spec.Path, "/"))
		b.index = &spec
	}
}

type indexEntry struct {
	Name  string
	Title string
	Path  string
	guard Guard
}

// allowed reports whether the entry's guard admits r, by running the guard against a
// recorder with a no-op terminal handler.
func (e indexEntry) allowed(r *http.Request) bool {
	passed := false
	h := e.guard.Middleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { passed = true }))
	h.ServeHTTP(httptest.NewRecorder(), r)
	return passed
}

func (b *Builder) assembleIndex() {
	if b.index == nil {
		return
	}
	spec := *b.index
	entries := append([]indexEntry(nil), b.entries...)
	prefix := b.prefix
	index := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Path != spec.Path {
			http.NotFound(w, r)
			return
		}
		var visible []indexEntry
		for _, e := range entries {
			if e.allowed(r) {
				e.Path = prefix + e.Path
				visible = append(visible, e)
			}
		}
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if r.Method == http.MethodHead {
			return
		}
		_ = indexTemplate.Execute(w, visible)
	})
	b.register(spec.Path, spec.Guard.Middleware()(index))
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Debug bar</title></head>
<body>
<h1>Debug bar</h1>
<ul>
{{range .}}<li><a href="{{.Path}}">{{.Title}}</a></li>
{{else}}<li>Nothing to show.</li>
{{end}}</ul>
</body>
</html>
`))
