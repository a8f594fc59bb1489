package route

// Params holds the parameters captured by a successful match. An optional
// parameter whose segment was absent is not present at all; Lookup reports
// that explicitly. The zero value is an empty set.
type Params struct {
	values map[string]string
}

// NewParams builds a Params from a plain map. Empty values are dropped.
func NewParams(values map[string]string) Params {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if v != "" {
			out[k] = v
		}
	}
	return Params{values: out}
}

// Lookup returns the value of name and whether it was captured.
func (p Params) Lookup(name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Get returns the value of name, or "" when it was not captured.
func (p Params) Get(name string) string {
	return p.values[name]
}

// Len returns the number of captured parameters.
func (p Params) Len() int {
	return len(p.values)
}

// Map returns a copy of the captured parameters.
func (p Params) Map() map[string]string {
	out := make(map[string]string, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}
