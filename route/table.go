package route

import (
	"fmt"
	"net/http"
	"strings"
)

// Route binds a path pattern to a symbolic name and a view. Guarded routes are
// entered only after the navigation guard allows the transition.
type Route struct {
	Path    string
	Name    string
	View    http.Handler
	Guarded bool
}

// Match is the result of resolving a concrete path against a [Table].
type Match struct {
	Route  Route
	Params Params
	Path   string
}

type entry struct {
	route   Route
	pattern *Pattern
}

// Table is an ordered, immutable set of routes. The first route whose pattern
// matches a path wins.
type Table struct {
	entries []entry
	byName  map[string]int
}

// NewTable compiles routes into a [Table]. Names must be unique and non-empty.
func NewTable(routes ...Route) (*Table, error) {
	t := &Table{
		entries: make([]entry, 0, len(routes)),
		byName:  make(map[string]int, len(routes)),
	}

	for _, r := range routes {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: route %q has no name", ErrInvalidPattern, r.Path)
		}
		if _, dup := t.byName[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}

		p, err := Compile(r.Path)
		if err != nil {
			return nil, err
		}

		r.Name = name
		t.byName[name] = len(t.entries)
		t.entries = append(t.entries, entry{route: r, pattern: p})
	}

	return t, nil
}

// Routes returns the routes in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.route
	}
	return out
}

// Len returns the number of routes.
func (t *Table) Len() int {
	return len(t.entries)
}

// Lookup returns the route registered under name.
func (t *Table) Lookup(name string) (Route, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Route{}, false
	}
	return t.entries[i].route, true
}

// Pattern returns the compiled pattern of the named route.
func (t *Table) Pattern(name string) (*Pattern, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.entries[i].pattern, true
}

// Match resolves path to the first matching route. It returns [ErrNoMatch]
// when no route matches.
func (t *Table) Match(path string) (Match, error) {
	for _, e := range t.entries {
		if params, ok := e.pattern.Match(path); ok {
			return Match{Route: e.route, Params: params, Path: path}, nil
		}
	}
	return Match{}, fmt.Errorf("%w: %q", ErrNoMatch, path)
}

// URL renders the path of the named route with params filled in.
func (t *Table) URL(name string, params map[string]string) (string, error) {
	p, ok := t.Pattern(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}
	return p.Build(params)
}
