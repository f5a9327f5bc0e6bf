package bar

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed assets
var assetFS embed.FS

// Assets returns the embedded stylesheet, script and icons, rooted at the asset directory.
func Assets() fs.FS {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic("bar: embedded assets: " + err.Error())
	}
	return sub
}

// AssetHandler serves Assets under prefix (for example "/_debug_bar/assets").
func AssetHandler(prefix string) http.Handler {
	prefix = strings.TrimRight(prefix, "/")
	fileServer := http.FileServer(http.FS(Assets()))
	return http.StripPrefix(prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=86400")
		fileServer.ServeHTTP(w, r)
	}))
}
