package bar

import (
	"cmp"
	"html"
	"html/template"
	"net/url"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/evan-idocoding/debugbar/settings"
)

// LinkClass is added to every rendered item.
const LinkClass = "debug-bar-link"

// Link is a finalized, render-ready item.
type Link struct {
	ID    string
	Class string
	Title template.HTML
	// Href is empty for items without a URL; they render as a span.
	Href  string
	Attrs template.HTMLAttr
}

var markupPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	return p
}()

// Finalize sorts items by weight (stable), drops items without access and decorates the
// rest for env.Settings.Appearance.
func Finalize(env *Env, items *Items) []Link {
	list := items.List()
	slices.SortStableFunc(list, func(a, b Item) int { return cmp.Compare(a.Weight, b.Weight) })

	appearance := env.Settings.Appearance
	out := make([]Link, 0, len(list))
	for _, it := range list {
		if !it.Access {
			continue
		}
		title := it.Title
		if appearance == settings.Icons {
			title = Text("")
		}
		h := resolveTitle(title)
		if appearance != settings.Text && it.IconPath != "" {
			h = iconHTML(it.IconPath) + h
		}
		out = append(out, Link{
			ID:    it.ID,
			Class: CleanCSSIdentifier(it.ID),
			Title: h,
			Href:  href(it.URL, it.Query),
			Attrs: renderAttrs(it.Attributes, LinkClass),
		})
	}
	return out
}

func resolveTitle(t Title) template.HTML {
	if t.IsMarkup() {
		return template.HTML(markupPolicy.Sanitize(string(t.markup)))
	}
	return template.HTML(html.EscapeString(t.text))
}

func iconHTML(src string) template.HTML {
	return template.HTML(`<img src="` + html.EscapeString(src) + `" class="debug-bar-link-icon" alt="">`)
}

func href(raw string, q url.Values) string {
	if raw == "" || len(q) == 0 {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	merged := u.Query()
	for k, vs := range q {
		merged[k] = vs
	}
	u.RawQuery = merged.Encode()
	return u.String()
}

var attrName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_:.-]*$`)

// renderAttrs escapes attrs into a leading-space attribute list. Event handlers and
// attributes that carry URLs or styles are dropped; extra classes are appended to class.
func renderAttrs(attrs map[string]string, extraClass ...string) template.HTMLAttr {
	keys := make([]string, 0, len(attrs)+1)
	for k := range attrs {
		if !safeAttrName(k) || strings.EqualFold(k, "class") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var classes []string
	if c := strings.TrimSpace(attrs["class"]); c != "" {
		classes = append(classes, c)
	}
	classes = append(classes, extraClass...)

	var b strings.Builder
	if len(classes) > 0 {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(strings.Join(classes, " ")))
		b.WriteByte('"')
	}
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(strings.ToLower(k))
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attrs[k]))
		b.WriteByte('"')
	}
	return template.HTMLAttr(b.String())
}

func safeAttrName(k string) bool {
	if !attrName.MatchString(k) {
		return false
	}
	k = strings.ToLower(k)
	if strings.HasPrefix(k, "on") {
		return false
	}
	switch k {
	case "href", "src", "style", "srcdoc", "action", "formaction", "xlink:href":
		return false
	}
	return true
}
