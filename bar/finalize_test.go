package bar

import (
	"fmt"
	"strings"
	"testing"

	"github.com/evan-idocoding/debugbar/settings"
)

func TestFinalize_DropsItemsWithoutAccess(t *testing.T) {
	for n := 0; n < 32; n++ {
		items := NewItems()
		for i := 0; i < 5; i++ {
			items.Set(fmt.Sprintf("i%d", i), Item{Title: Text("x"), Weight: (n * 7 * (i + 1)) % 11, Access: n&(1<<i) != 0})
		}
		links := Finalize(&Env{Settings: settings.Default()}, items)
		want := 0
		for i := 0; i < 5; i++ {
			if n&(1<<i) != 0 {
				want++
			}
		}
		if len(links) != want {
			t.Fatalf("mask %05b: got %d links want %d", n, len(links), want)
		}
		for _, l := range links {
			it, _ := items.Get(l.ID)
			if !it.Access {
				t.Fatalf("mask %05b: item %s without access survived", n, l.ID)
			}
		}
	}
}

func TestFinalize_StableSortByWeight(t *testing.T) {
	items := NewItems()
	items.Set("c", Item{Weight: 5, Access: true})
	items.Set("a", Item{Weight: 1, Access: true})
	items.Set("d", Item{Weight: 5, Access: true})
	items.Set("b", Item{Weight: 1, Access: true})
	items.Set("e", Item{Weight: -3, Access: true})

	links := Finalize(&Env{Settings: settings.Default()}, items)
	var got []string
	for _, l := range links {
		got = append(got, l.ID)
	}
	if strings.Join(got, ",") != "e,a,b,c,d" {
		t.Fatalf("order: %v", got)
	}
}

func TestFinalize_Appearance(t *testing.T) {
	mk := func() *Items {
		items := NewItems()
		items.Set("with_icon", Item{Title: Text("Home"), URL: "/", IconPath: "/i/home.svg", Access: true})
		items.Set("no_icon", Item{Title: Text("Plain"), Access: true})
		return items
	}
	cases := []struct {
		appearance settings.Appearance
		icon       string
		noIcon     string
	}{
		{settings.Both, `<img src="/i/home.svg" class="debug-bar-link-icon" alt="">Home`, "Plain"},
		{settings.Icons, `<img src="/i/home.svg" class="debug-bar-link-icon" alt="">`, ""},
		{settings.Text, "Home", "Plain"},
	}
	for _, tc := range cases {
		t.Run(string(tc.appearance), func(t *testing.T) {
			s := settings.Default()
			s.Appearance = tc.appearance
			links := Finalize(&Env{Settings: s}, mk())
			if string(links[0].Title) != tc.icon {
				t.Fatalf("with icon: %q", links[0].Title)
			}
			if string(links[1].Title) != tc.noIcon {
				t.Fatalf("without icon: %q", links[1].Title)
			}
			for _, l := range links {
				if !strings.Contains(string(l.Attrs), `class="debug-bar-link"`) {
					t.Fatalf("missing link class: %q", l.Attrs)
				}
			}
		})
	}
}

func TestFinalize_HrefMergesQuery(t *testing.T) {
	items := NewItems()
	items.Set("x", Item{URL: "/node/1?page=2", Query: map[string][]string{"debug-bar-run-cron": {"1"}}, Access: true})
	links := Finalize(&Env{Settings: settings.Default()}, items)
	if links[0].Href != "/node/1?debug-bar-run-cron=1&page=2" {
		t.Fatalf("href=%q", links[0].Href)
	}
}

func TestRenderAttrs(t *testing.T) {
	got := renderAttrs(map[string]string{
		"title":   `a "quoted" <tip>`,
		"class":   "extra",
		"onclick": "alert(1)",
		"href":    "javascript:alert(1)",
		"bad key": "x",
		"data-id": "7",
	}, LinkClass)
	want := ` class="extra debug-bar-link" data-id="7" title="a &#34;quoted&#34; &lt;tip&gt;"`
	if string(got) != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}
