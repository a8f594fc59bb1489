package route

import "errors"

var (
	// ErrInvalidPattern is returned by [Compile] for malformed path patterns.
	ErrInvalidPattern = errors.New("invalid route pattern")
	// ErrMissingParam is returned by reverse routing when a required parameter is absent.
	ErrMissingParam = errors.New("missing route parameter")
	// ErrNoMatch is returned by [Table.Match] when no route matches a path.
	ErrNoMatch = errors.New("no route matches path")
	// ErrDuplicateName is returned by [NewTable] when two routes share a name.
	ErrDuplicateName = errors.New("duplicate route name")
	// ErrUnknownRoute is returned when a route name is not in the table.
	ErrUnknownRoute = errors.New("unknown route name")
)
