package route

import "net/http"

// Route names of the exercise front end.
const (
	NameHome           = "Home"
	NameModule         = "Module"
	NameDoExercise     = "DoExercise"
	NameExerciseEditor = "ExerciseEditor"
	NameLogin          = "Login"
)

// LoginPath is where the navigation guard sends unauthenticated users.
const LoginPath = "/login"

// Views supplies the handler for each named route. Nil handlers are allowed
// when the table is only used for matching.
type Views struct {
	Home           http.Handler
	Module         http.Handler
	DoExercise     http.Handler
	ExerciseEditor http.Handler
	Login          http.Handler
}

// Default returns the application route table with Login at [LoginPath].
// Every route except Login is guarded.
func Default(v Views) (*Table, error) {
	return DefaultAt(LoginPath, v)
}

// DefaultAt is [Default] with the Login route mounted at loginPath.
func DefaultAt(loginPath string, v Views) (*Table, error) {
	if loginPath == "" {
		loginPath = LoginPath
	}
	return NewTable(
		Route{Path: "/", Name: NameHome, View: v.Home, Guarded: true},
		Route{Path: "/module/:id", Name: NameModule, View: v.Module, Guarded: true},
		Route{Path: "/session/:sessionId/do/:exerciseId", Name: NameDoExercise, View: v.DoExercise, Guarded: true},
		Route{Path: "/session/:sessionId/edit/:exerciseId?", Name: NameExerciseEditor, View: v.ExerciseEditor, Guarded: true},
		Route{Path: loginPath, Name: NameLogin, View: v.Login},
	)
}

// ExerciseRef is the typed form of the session/exercise parameters shared by the
// DoExercise and ExerciseEditor routes. HasExercise is false when the editor is
// opened without an exercise id.
type ExerciseRef struct {
	SessionID   string
	ExerciseID  string
	HasExercise bool
}

// ExerciseRefFrom extracts an [ExerciseRef]. It reports false when sessionId is absent.
func ExerciseRefFrom(p Params) (ExerciseRef, bool) {
	sid, ok := p.Lookup("sessionId")
	if !ok {
		return ExerciseRef{}, false
	}
	eid, has := p.Lookup("exerciseId")
	return ExerciseRef{SessionID: sid, ExerciseID: eid, HasExercise: has}, true
}

// ModuleID extracts the id parameter of the Module route.
func ModuleID(p Params) (string, bool) {
	return p.Lookup("id")
}
