package settings

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/evan-idocoding/debugbar/access"
	"github.com/evan-idocoding/debugbar/csrf"
	"github.com/evan-idocoding/debugbar/notice"
)

// FormAction is the anti-forgery action name of the settings form.
const FormAction = "debug-bar-settings"

// SavedMessage is the notice added after a successful save.
const SavedMessage = "The configuration options have been saved."

// FormOption configures a Form.
type FormOption func(*Form)

// WithFormLogger sets the logger used for persistence failures.
func WithFormLogger(l *slog.Logger) FormOption {
	return func(f *Form) {
		if l != nil {
			f.logger = l
		}
	}
}

// Form is the settings form handler: GET renders the form, POST validates and saves.
//
// Form does not check capabilities itself; mount it behind access.Require(access.Administer).
type Form struct {
	store  Store
	tokens *csrf.Issuer
	logger *slog.Logger
}

// NewForm creates a form over store. tokens signs the hidden form token.
func NewForm(store Store, tokens *csrf.Issuer, opts ...FormOption) *Form {
	if store == nil {
		panic("settings: NewForm called with nil Store")
	}
	if tokens == nil {
		panic("settings: NewForm called with nil csrf.Issuer")
	}
	f := &Form{store: store, tokens: tokens, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

func (f *Form) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		s, ok, err := f.store.Load()
		if err != nil {
			f.logger.ErrorContext(r.Context(), "settings: load failed", slog.Any("err", err))
			http.Error(w, "could not load settings", http.StatusInternalServerError)
			return
		}
		if !ok {
			s = Default()
		}
		f.render(w, r, http.StatusOK, s, nil)
	case http.MethodPost:
		f.submit(w, r)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (f *Form) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	p := access.FromContext(r.Context())
	if !f.tokens.Valid(p.Session, FormAction, r.PostFormValue("token")) {
		f.logger.WarnContext(r.Context(), "settings: invalid form token", slog.String("user", p.Name))
		http.Error(w, "invalid form token, reload the page and try again", http.StatusForbidden)
		return
	}

	s := Settings{
		Float:      truthy(r.PostFormValue("float")),
		Position:   Position(r.PostFormValue("position")),
		Appearance: Appearance(r.PostFormValue("appearance")),
	}
	if err := s.Validate(); err != nil {
		var fe *FieldErrors
		errors.As(err, &fe)
		f.render(w, r, http.StatusBadRequest, s, fe)
		return
	}
	if err := f.store.Save(s); err != nil {
		f.logger.ErrorContext(r.Context(), "settings: save failed", slog.Any("err", err))
		http.Error(w, "could not save settings", http.StatusInternalServerError)
		return
	}
	f.logger.InfoContext(r.Context(), "settings: saved",
		slog.Bool("float", s.Float),
		slog.String("position", string(s.Position)),
		slog.String("appearance", string(s.Appearance)),
		slog.String("user", p.Name),
	)
	notice.Add(w, r, SavedMessage)
	http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}

type formView struct {
	Settings    Settings
	Positions   []Position
	Appearances []Appearance
	Token       string
	Errors      *FieldErrors
	Notices     []string
}

func (v formView) Invalid(field string) bool { return v.Errors != nil && v.Errors.Has(field) }

func (f *Form) render(w http.ResponseWriter, r *http.Request, status int, s Settings, fe *FieldErrors) {
	p := access.FromContext(r.Context())
	v := formView{
		Settings:    s,
		Positions:   Positions,
		Appearances: Appearances,
		Token:       f.tokens.Token(p.Session, FormAction),
		Errors:      fe,
		Notices:     notice.Pop(w, r),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if err := formTemplate.Execute(w, v); err != nil {
		f.logger.ErrorContext(r.Context(), "settings: render failed", slog.Any("err", err))
	}
}

var formTemplate = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Debug bar settings</title></head>
<body>
<h1>Debug bar settings</h1>
{{range .Notices}}<div class="messages status">{{.}}</div>
{{end}}{{if .Errors}}<div class="messages error">{{.Errors.Error}}</div>
{{end}}<form method="post">
<input type="hidden" name="token" value="{{.Token}}">
<label><input type="checkbox" name="float" value="1"{{if .Settings.Float}} checked{{end}}> Float</label>
<p>If enabled the bar can be dragged around the page.</p>
<label for="position">Position</label>
<select id="position" name="position"{{if .Invalid "position"}} class="error"{{end}}>
{{- $cur := .Settings.Position}}{{range .Positions}}
<option value="{{.}}"{{if eq . $cur}} selected{{end}}>{{.Label}}</option>
{{- end}}
</select>
<label for="appearance">Appearance</label>
<select id="appearance" name="appearance"{{if .Invalid "appearance"}} class="error"{{end}}>
{{- $app := .Settings.Appearance}}{{range .Appearances}}
<option value="{{.}}"{{if eq . $app}} selected{{end}}>{{.Label}}</option>
{{- end}}
</select>
<button type="submit">Save configuration</button>
</form>
</body>
</html>
`))
