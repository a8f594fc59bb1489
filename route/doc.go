// Package route holds the static route table of the exercise front end: URL path
// patterns bound to symbolic names, views, and a guarded flag.
//
// # Patterns
//
// A pattern is a slash-separated list of segments. A segment is either a literal,
// a named parameter (":id"), or an optional named parameter (":exerciseId?").
// Optional parameters are reported explicitly through [Params.Lookup]; an absent
// optional segment also drops its leading slash, so "/session/:sid/edit/:eid?"
// matches both "/session/1/edit" and "/session/1/edit/9".
//
// Matching is case-insensitive on literals, tolerates one trailing slash, and
// percent-decodes parameter values. A parameter never spans a slash and never
// matches an empty segment.
//
// # Architecture boundaries
//
// This package owns pattern compilation, matching, and reverse routing. It does NOT
// evaluate guards or read session state; a [Route] only records whether it is
// guarded. Tables are built once and are immutable afterwards.
package route
