package bar

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"
)

// HiddenCookie is set by the bar script when the user collapses the bar.
const HiddenCookie = "debug_bar_hidden"

// Classes returns the container classes: float or docked position, plus hidden when the
// hidden cookie is non-empty.
func Classes(env *Env) string {
	var classes []string
	if env.Settings.Float {
		classes = append(classes, "debug-bar-float")
	} else {
		classes = append(classes, "debug-bar-"+CleanCSSIdentifier(string(env.Settings.Position)))
	}
	if hiddenCookie(env.Request) {
		classes = append(classes, "debug-bar-hidden")
	}
	return strings.Join(classes, " ")
}

func hiddenCookie(r *http.Request) bool {
	if r == nil {
		return false
	}
	c, err := r.Cookie(HiddenCookie)
	return err == nil && c.Value != ""
}

// View is the input of Render.
type View struct {
	Links []Link
	Class string
	// AssetBase, when set, adds the stylesheet and script served by AssetHandler.
	AssetBase string
}

var barTemplate = template.Must(template.New("bar").Parse(
	`<div id="debug-bar-wrapper">` +
		`{{with .AssetBase}}<link rel="stylesheet" href="{{.}}/debug_bar.css">{{end}}` +
		`<ul id="debug-bar" class="{{.Class}}">` +
		`{{range .Links}}<li class="{{.Class}}">` +
		`{{if .Href}}<a href="{{.Href}}"{{.Attrs}}>{{.Title}}</a>{{else}}<span{{.Attrs}}>{{.Title}}</span>{{end}}` +
		`</li>{{end}}</ul>` +
		`{{with .AssetBase}}<script src="{{.}}/debug_bar.js" defer></script>{{end}}` +
		`</div>`))

// Render returns the bar markup.
func Render(v View) ([]byte, error) {
	v.AssetBase = strings.TrimRight(v.AssetBase, "/")
	var buf bytes.Buffer
	if err := barTemplate.Execute(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
