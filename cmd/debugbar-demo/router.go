package main

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/evan-idocoding/debugbar/access"
	"github.com/evan-idocoding/debugbar/bar"
	"github.com/evan-idocoding/debugbar/notice"
	"github.com/evan-idocoding/debugbar/querylog"
)

func (d *demo) router() http.Handler {
	r := chi.NewRouter()
	r.Get("/", d.handleHome)
	r.Get("/login", d.handleLoginPage)
	r.Post("/login", d.handleLogin)
	r.Get("/logout", d.handleLogout)
	r.Get("/user/{id}", d.handleProfile)
	r.Get("/api/time", d.handleAPITime)
	return r
}

type pageView struct {
	Title     string
	Notices   []string
	Principal access.Principal
	Body      template.HTML
	Error     string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{range .Notices}}<p class="notice">{{.}}</p>
{{end}}{{with .Error}}<p class="error">{{.}}</p>
{{end}}{{if .Principal.IsAuthenticated}}<p>Signed in as {{.Principal.Name}}.</p>
{{else}}<p><a href="/login">Log in</a> to see the debug bar.</p>
{{end}}{{.Body}}
</body>
</html>
`))

func (d *demo) render(w http.ResponseWriter, r *http.Request, status int, v pageView) {
	v.Notices = notice.Pop(w, r)
	v.Principal = access.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, v); err != nil {
		d.logger.ErrorContext(r.Context(), "demo: render page", slog.Any("err", err))
	}
}

func (d *demo) handleHome(w http.ResponseWriter, r *http.Request) {
	// Simulated data access, so the query counter has something to show.
	start := time.Now()
	body, ok := d.pages.Get("home")
	querylog.Record(r.Context(), "SELECT body FROM pages WHERE name = 'home'", time.Since(start))
	if !ok {
		body = `<p>Try the bar links: run cron, clear caches, or open the settings at ` +
			template.HTMLEscapeString(d.cfg.Prefix) + `/settings.</p>`
		d.pages.Set("home", body)
		querylog.Record(r.Context(), "INSERT INTO pages (name, body) VALUES ('home', ?)", time.Since(start))
	}
	d.render(w, r, http.StatusOK, pageView{Title: "Debug bar demo", Body: template.HTML(body)})
}

var loginForm = template.HTML(`<form method="post" action="/login">
<label>Name <input name="name"></label>
<label>Password <input name="password" type="password"></label>
<button type="submit">Log in</button>
</form>`)

func (d *demo) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	d.render(w, r, http.StatusOK, pageView{Title: "Log in", Body: loginForm})
}

func (d *demo) handleLogin(w http.ResponseWriter, r *http.Request) {
	p, err := d.accounts.Authenticate(r.PostFormValue("name"), r.PostFormValue("password"))
	if err != nil {
		d.logger.WarnContext(r.Context(), "demo: login failed", slog.String("name", r.PostFormValue("name")))
		d.render(w, r, http.StatusUnauthorized, pageView{Title: "Log in", Body: loginForm, Error: "Unknown user or wrong password."})
		return
	}
	if err := d.sessions.Login(w, p); err != nil {
		d.logger.ErrorContext(r.Context(), "demo: issue session", slog.Any("err", err))
		http.Error(w, "could not log in", http.StatusInternalServerError)
		return
	}
	d.logger.InfoContext(r.Context(), "demo: logged in", slog.String("name", p.Name))
	notice.Add(w, r, "Logged in as "+p.Name+".")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout ends the session when the request carries the token the bar
// attaches to its log out link.
func (d *demo) handleLogout(w http.ResponseWriter, r *http.Request) {
	p := access.FromContext(r.Context())
	if !p.IsAuthenticated() || !d.bar.Tokens().Valid(p.Session, bar.LogoutAction, r.URL.Query().Get(bar.TokenParam)) {
		d.logger.WarnContext(r.Context(), "demo: logout rejected", slog.String("name", p.Name))
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	d.sessions.Logout(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (d *demo) handleProfile(w http.ResponseWriter, r *http.Request) {
	p := access.FromContext(r.Context())
	id := chi.URLParam(r, "id")
	if p.ID != id && !p.Has(access.Administer) {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	d.render(w, r, http.StatusOK, pageView{
		Title: "User " + id,
		Body:  template.HTML("<p>Profile of " + template.HTMLEscapeString(id) + ".</p>"),
	})
}

// handleAPITime answers XHR polling; the bar is never injected here.
func (d *demo) handleAPITime(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"now": time.Now().UTC().Format(time.RFC3339)})
}
