package bar

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/evan-idocoding/debugbar/settings"
)

func TestInject(t *testing.T) {
	frag := []byte(`<div id="debug-bar-wrapper">F</div>`)

	t.Run("before last body close", func(t *testing.T) {
		got, ok := Inject([]byte("<html><body>X</body></html>"), frag)
		if !ok || string(got) != "<html><body>X"+string(frag)+"</body></html>" {
			t.Fatalf("got %q ok=%v", got, ok)
		}
	})
	t.Run("case insensitive last occurrence", func(t *testing.T) {
		in := "<body><pre>&lt;/body&gt; </body></pre>tail</BODY>\n</html>"
		got, ok := Inject([]byte(in), frag)
		want := "<body><pre>&lt;/body&gt; </body></pre>tail" + string(frag) + "</BODY>\n</html>"
		if !ok || string(got) != want {
			t.Fatalf("got %q", got)
		}
	})
	t.Run("no marker is a no-op", func(t *testing.T) {
		in := []byte(`{"html":"<body>"}`)
		got, ok := Inject(in, frag)
		if ok || string(got) != string(in) {
			t.Fatalf("expected byte-identical output, got %q", got)
		}
	})
}

func TestCleanCSSIdentifier(t *testing.T) {
	cases := map[string]string{
		"top_left":            "top-left",
		"bottom_right":        "bottom-right",
		"debug_bar-link-hide": "debug-bar-link-hide",
		"a b/c[d]":            "a-b-c-d",
		"block__element":      "block__element",
		"1st":                 "_1st",
		"-2x":                 "_-2x",
		"--x":                 "_--x",
		"é ok!":               "é-ok",
		`quote"s<tag>`:        "quotestag",
	}
	for in, want := range cases {
		if got := CleanCSSIdentifier(in); got != want {
			t.Fatalf("%q: got %q want %q", in, got, want)
		}
	}
}

func TestClasses(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	env := &Env{Request: r, Settings: settings.Settings{Position: settings.BottomRight, Appearance: settings.Both}}
	if got := Classes(env); got != "debug-bar-bottom-right" {
		t.Fatalf("docked: %q", got)
	}

	env.Settings.Float = true
	r.AddCookie(&http.Cookie{Name: HiddenCookie, Value: "1"})
	if got := Classes(env); got != "debug-bar-float debug-bar-hidden" {
		t.Fatalf("float hidden: %q", got)
	}

	empty := httptest.NewRequest("GET", "/", nil)
	empty.AddCookie(&http.Cookie{Name: HiddenCookie, Value: ""})
	env.Request = empty
	if got := Classes(env); got != "debug-bar-float" {
		t.Fatalf("empty cookie must not hide: %q", got)
	}
}

func TestRender(t *testing.T) {
	items := NewItems()
	items.Set("debug_bar_item_home", Item{Title: Text("Home"), URL: "/", Attributes: map[string]string{"title": "Front page"}, Access: true})
	items.Set("debug_bar_item_cache", Item{Title: Text("Cache"), URL: "/x", Query: map[string][]string{"a": {"1"}, "b": {"2"}}, Access: true})
	items.Set("debug_bar_item_db_queries", Item{Title: Text("3"), Access: true})
	links := Finalize(&Env{Settings: settings.Default()}, items)

	out, err := Render(View{Links: links, Class: "debug-bar-top-left", AssetBase: "/_debug_bar/assets/"})
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	for _, want := range []string{
		`<div id="debug-bar-wrapper"><link rel="stylesheet" href="/_debug_bar/assets/debug_bar.css">`,
		`<ul id="debug-bar" class="debug-bar-top-left">`,
		`<li class="debug-bar-item-home"><a href="/" class="debug-bar-link" title="Front page">Home</a></li>`,
		`<a href="/x?a=1&amp;b=2" class="debug-bar-link">Cache</a>`,
		`<li class="debug-bar-item-db-queries"><span class="debug-bar-link">3</span></li>`,
		`<script src="/_debug_bar/assets/debug_bar.js" defer></script></div>`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %q in\n%s", want, s)
		}
	}
}

func TestAssetHandler(t *testing.T) {
	h := AssetHandler("/_debug_bar/assets/")
	for path, want := range map[string]int{
		"/_debug_bar/assets/debug_bar.css":  http.StatusOK,
		"/_debug_bar/assets/icons/home.svg": http.StatusOK,
		"/_debug_bar/assets/":               http.StatusNotFound,
		"/_debug_bar/assets/missing.png":    http.StatusNotFound,
	} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
		if rr.Code != want {
			t.Fatalf("%s: status=%d want %d", path, rr.Code, want)
		}
		if want == http.StatusOK {
			b, _ := io.ReadAll(rr.Body)
			if len(b) == 0 {
				t.Fatalf("%s: empty body", path)
			}
		}
	}
}
