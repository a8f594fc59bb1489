package route

import (
	"fmt"
	"net/url"
	"strings"
)

// SegmentKind classifies a compiled pattern segment.
type SegmentKind uint8

const (
	// SegmentStatic matches a literal path segment.
	SegmentStatic SegmentKind = iota
	// SegmentParam captures one non-empty path segment.
	SegmentParam
	// SegmentOptional captures one path segment when present.
	SegmentOptional
)

// Segment is one compiled element of a [Pattern]. Value holds the literal for
// static segments and the parameter name otherwise.
type Segment struct {
	Kind  SegmentKind
	Value string
}

// ParamSpec describes a parameter declared by a pattern.
type ParamSpec struct {
	Name     string
	Optional bool
}

// Pattern is a compiled path pattern. It is immutable and safe for concurrent use.
type Pattern struct {
	raw      string
	segments []Segment
	params   []ParamSpec
}

// Compile parses a path pattern such as "/session/:sessionId/edit/:exerciseId?".
func Compile(pattern string) (*Pattern, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("%w: %q must start with /", ErrInvalidPattern, pattern)
	}

	p := &Pattern{raw: pattern}
	body := strings.TrimSuffix(pattern[1:], "/")
	if body == "" {
		return p, nil
	}

	seen := make(map[string]struct{})
	for _, part := range strings.Split(body, "/") {
		if part == "" {
			return nil, fmt.Errorf("%w: %q has an empty segment", ErrInvalidPattern, pattern)
		}
		if part[0] != ':' {
			p.segments = append(p.segments, Segment{Kind: SegmentStatic, Value: part})
			continue
		}

		name := part[1:]
		kind := SegmentParam
		if strings.HasSuffix(name, "?") {
			name = strings.TrimSuffix(name, "?")
			kind = SegmentOptional
		}
		if !validParamName(name) {
			return nil, fmt.Errorf("%w: %q has invalid parameter name %q", ErrInvalidPattern, pattern, name)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %q declares %q twice", ErrInvalidPattern, pattern, name)
		}
		seen[name] = struct{}{}

		p.segments = append(p.segments, Segment{Kind: kind, Value: name})
		p.params = append(p.params, ParamSpec{Name: name, Optional: kind == SegmentOptional})
	}

	return p, nil
}

// MustCompile is like [Compile] but panics on error. Intended for static tables.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

func validParamName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

// String returns the source pattern.
func (p *Pattern) String() string {
	return p.raw
}

// Segments returns a copy of the compiled segments.
func (p *Pattern) Segments() []Segment {
	out := make([]Segment, len(p.segments))
	copy(out, p.segments)
	return out
}

// Params returns the declared parameters in declaration order.
func (p *Pattern) Params() []ParamSpec {
	out := make([]ParamSpec, len(p.params))
	copy(out, p.params)
	return out
}

// Match reports whether path matches the pattern and returns the captured
// parameters. Query strings and fragments must be stripped by the caller.
func (p *Pattern) Match(path string) (Params, bool) {
	parts, ok := splitPath(path)
	if !ok {
		return Params{}, false
	}

	values := make(map[string]string, len(p.params))
	if !p.matchFrom(0, parts, 0, values) {
		return Params{}, false
	}
	return Params{values: values}, true
}

func (p *Pattern) matchFrom(si int, parts []string, pi int, values map[string]string) bool {
	if si == len(p.segments) {
		return pi == len(parts)
	}

	seg := p.segments[si]
	switch seg.Kind {
	case SegmentStatic:
		if pi >= len(parts) || !strings.EqualFold(parts[pi], seg.Value) {
			return false
		}
		return p.matchFrom(si+1, parts, pi+1, values)

	case SegmentParam:
		v, ok := decodeSegment(parts, pi)
		if !ok {
			return false
		}
		values[seg.Value] = v
		if p.matchFrom(si+1, parts, pi+1, values) {
			return true
		}
		delete(values, seg.Value)
		return false

	default:
		if v, ok := decodeSegment(parts, pi); ok {
			values[seg.Value] = v
			if p.matchFrom(si+1, parts, pi+1, values) {
				return true
			}
			delete(values, seg.Value)
		}
		return p.matchFrom(si+1, parts, pi, values)
	}
}

func decodeSegment(parts []string, pi int) (string, bool) {
	if pi >= len(parts) || parts[pi] == "" {
		return "", false
	}
	v, err := url.PathUnescape(parts[pi])
	if err != nil {
		return "", false
	}
	return v, true
}

func splitPath(path string) ([]string, bool) {
	if path == "" {
		path = "/"
	}
	if path[0] != '/' {
		return nil, false
	}
	body := path[1:]
	if body == "" {
		return nil, true
	}
	parts := strings.Split(body, "/")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts, true
}

// Build renders a concrete path from params. Required parameters must be present
// and non-empty; optional parameters are omitted together with their slash.
func (p *Pattern) Build(params map[string]string) (string, error) {
	var b strings.Builder
	for _, seg := range p.segments {
		switch seg.Kind {
		case SegmentStatic:
			b.WriteByte('/')
			b.WriteString(seg.Value)
		case SegmentParam:
			v := params[seg.Value]
			if v == "" {
				return "", fmt.Errorf("%w: %q requires %q", ErrMissingParam, p.raw, seg.Value)
			}
			b.WriteByte('/')
			b.WriteString(url.PathEscape(v))
		default:
			if v := params[seg.Value]; v != "" {
				b.WriteByte('/')
				b.WriteString(url.PathEscape(v))
			}
		}
	}

	if b.Len() == 0 {
		return "/", nil
	}
	return b.String(), nil
}
