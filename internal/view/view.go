// Package view renders the HTML pages bound to the route table.
//
// Pages only display the route parameters and the resolved user; exercise and
// module content are served elsewhere.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/middleware"
	"github.com/MrEthical07/goGate/route"
)

const layout = `{{define "layout"}}<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<header>
{{- if .User}}
<span class="user">{{.User.DisplayName}}</span>
<form method="post" action="/logout"><button type="submit">Log out</button></form>
{{- end}}
</header>
<main>{{template "content" .}}</main>
</body>
</html>{{end}}`

const (
	homePage     = `{{define "content"}}<h1>Welcome{{if .User}}, {{.User.DisplayName}}{{end}}</h1>{{end}}`
	modulePage   = `{{define "content"}}<h1>Module {{.ModuleID}}</h1>{{end}}`
	exercisePage = `{{define "content"}}<h1>Exercise {{.Exercise.ExerciseID}}</h1>
<p>Session {{.Exercise.SessionID}}</p>{{end}}`
	editorPage = `{{define "content"}}{{if .Exercise.HasExercise}}<h1>Edit exercise {{.Exercise.ExerciseID}}</h1>{{else}}<h1>New exercise</h1>{{end}}
<p>Session {{.Exercise.SessionID}}</p>{{end}}`
	loginPage = `{{define "content"}}<h1>Sign in</h1>
{{- if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="{{.LoginPath}}">
<label>Identifier <input name="identifier" value="{{.Identifier}}" autocomplete="username"></label>
<label>Password <input name="password" type="password" autocomplete="current-password"></label>
<button type="submit">Sign in</button>
</form>{{end}}`
)

var pages = map[string]string{
	route.NameHome:           homePage,
	route.NameModule:         modulePage,
	route.NameDoExercise:     exercisePage,
	route.NameExerciseEditor: editorPage,
	route.NameLogin:          loginPage,
}

var titles = map[string]string{
	route.NameHome:           "Home",
	route.NameModule:         "Module",
	route.NameDoExercise:     "Exercise",
	route.NameExerciseEditor: "Exercise editor",
	route.NameLogin:          "Sign in",
}

// Page is the data every template receives.
type Page struct {
	Title      string
	User       *goGate.User
	ModuleID   string
	Exercise   route.ExerciseRef
	Error      string
	Identifier string
	LoginPath  string
}

// Renderer holds the parsed page templates.
type Renderer struct {
	pages     map[string]*template.Template
	loginPath string
}

// New parses every page. loginPath is the form target of the login page.
func New(loginPath string) (*Renderer, error) {
	if loginPath == "" {
		loginPath = route.LoginPath
	}
	base, err := template.New("layout").Parse(layout)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pages)), loginPath: loginPath}
	for name, body := range pages {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if t, err = t.Parse(body); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Views returns one handler per named route.
func (r *Renderer) Views() route.Views {
	return route.Views{
		Home:           r.page(route.NameHome),
		Module:         r.page(route.NameModule),
		DoExercise:     r.page(route.NameDoExercise),
		ExerciseEditor: r.page(route.NameExerciseEditor),
		Login: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			r.Login(w, http.StatusOK, "", "")
		}),
	}
}

// Login renders the login form with an optional error message.
func (r *Renderer) Login(w http.ResponseWriter, status int, identifier, message string) {
	r.render(w, status, route.NameLogin, Page{
		Error:      message,
		Identifier: identifier,
	})
}

func (r *Renderer) page(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		nav, _ := middleware.NavigationFromContext(req.Context())
		p := Page{User: nav.User}
		p.ModuleID, _ = route.ModuleID(nav.Params)
		p.Exercise, _ = route.ExerciseRefFrom(nav.Params)
		r.render(w, http.StatusOK, name, p)
	})
}

func (r *Renderer) render(w http.ResponseWriter, status int, name string, p Page) {
	t, ok := r.pages[name]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}
	p.Title = titles[name]
	p.LoginPath = r.loginPath

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
