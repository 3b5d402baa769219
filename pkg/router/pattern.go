package router

import (
	"fmt"
	"strings"

	herrors "github.com/vango-dev/hfs/internal/errors"
)

// ErrWildcardNotLast is returned by Compile when a *name segment is
// followed by another segment.
var ErrWildcardNotLast = herrors.New(herrors.CodeWildcardNotLast)

// SegmentKind tells how a pattern segment matches.
type SegmentKind uint8

const (
	// Concrete matches one path segment byte for byte.
	Concrete SegmentKind = iota
	// Param captures exactly one path segment.
	Param
	// Wildcard captures all remaining path segments.
	Wildcard
)

func (k SegmentKind) String() string {
	switch k {
	case Concrete:
		return "concrete"
	case Param:
		return "param"
	case Wildcard:
		return "wildcard"
	default:
		return fmt.Sprintf("SegmentKind(%d)", uint8(k))
	}
}

// Segment is one compiled pattern segment. Value is the literal for a
// Concrete segment and the capture name otherwise.
type Segment struct {
	Kind  SegmentKind
	Value string
}

// Pattern is a compiled path pattern. It is immutable once compiled.
type Pattern struct {
	raw      string
	segments []Segment
}

// Compile parses a path pattern.
func Compile(pattern string) (*Pattern, error) {
	parts := strings.Split(pattern, "/")
	segments := make([]Segment, len(parts))
	for i, part := range parts {
		switch {
		case strings.HasPrefix(part, ":"):
			segments[i] = Segment{Kind: Param, Value: part[1:]}
		case strings.HasPrefix(part, "*"):
			segments[i] = Segment{Kind: Wildcard, Value: part[1:]}
		default:
			segments[i] = Segment{Kind: Concrete, Value: part}
		}
	}

	for i, seg := range segments[:len(segments)-1] {
		if seg.Kind == Wildcard {
			return nil, herrors.New(herrors.CodeWildcardNotLast).
				WithDetailf("pattern %q: *%s is segment %d of %d", pattern, seg.Value, i+1, len(segments))
		}
	}

	return &Pattern{raw: pattern, segments: segments}, nil
}

// MustCompile is like Compile but panics if the pattern is invalid.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the pattern source.
func (p *Pattern) String() string { return p.raw }

// Segments returns a copy of the compiled segments.
func (p *Pattern) Segments() []Segment {
	return append([]Segment(nil), p.segments...)
}

// HasWildcard reports whether the pattern ends in a wildcard.
func (p *Pattern) HasWildcard() bool {
	return p.segments[len(p.segments)-1].Kind == Wildcard
}

// CaptureNames returns the capture names in pattern order.
func (p *Pattern) CaptureNames() []string {
	var names []string
	for _, seg := range p.segments {
		if seg.Kind != Concrete {
			names = append(names, seg.Value)
		}
	}
	return names
}

// Match tests path against the pattern and returns the captures.
//
// Pattern and path segments are walked in lockstep. A Concrete segment
// must equal its path segment exactly, a Param takes one path segment
// (possibly empty), and a trailing Wildcard takes the rest joined by '/',
// or "" when nothing is left. Any path segment left over after the
// pattern is exhausted means no match.
func (p *Pattern) Match(path string) (Params, bool) {
	parts := strings.Split(path, "/")
	params := make(Params)

	i := 0
	for _, seg := range p.segments {
		if i == len(parts) {
			if seg.Kind == Wildcard {
				params[seg.Value] = ""
				return params, true
			}
			return nil, false
		}

		switch seg.Kind {
		case Concrete:
			if parts[i] != seg.Value {
				return nil, false
			}
			i++
		case Param:
			params[seg.Value] = parts[i]
			i++
		case Wildcard:
			params[seg.Value] = strings.Join(parts[i:], "/")
			i = len(parts)
		}
	}

	if i != len(parts) {
		return nil, false
	}
	return params, true
}

// Build renders a concrete path from params, the inverse of Match.
func (p *Pattern) Build(params Params) (string, error) {
	parts := make([]string, len(p.segments))
	for i, seg := range p.segments {
		switch seg.Kind {
		case Concrete:
			parts[i] = seg.Value
		case Param:
			v, ok := params[seg.Value]
			if !ok {
				return "", fmt.Errorf("building %q: missing param %q", p.raw, seg.Value)
			}
			if strings.Contains(v, "/") {
				return "", fmt.Errorf("building %q: param %q contains '/'", p.raw, seg.Value)
			}
			parts[i] = v
		case Wildcard:
			parts[i] = params[seg.Value]
		}
	}
	return strings.Join(parts, "/"), nil
}

// Covers reports whether every path matched by q is also matched by p.
// Registered before q with the same method, p makes q unreachable.
func (p *Pattern) Covers(q *Pattern) bool {
	if p.HasWildcard() {
		k := len(p.segments) - 1
		// q must never match fewer than k segments.
		minQ := len(q.segments)
		if q.HasWildcard() {
			minQ--
		}
		if minQ < k {
			return false
		}
		return coversPrefix(p.segments[:k], q.segments[:k])
	}

	if q.HasWildcard() || len(q.segments) != len(p.segments) {
		return false
	}
	return coversPrefix(p.segments, q.segments)
}

func coversPrefix(ps, qs []Segment) bool {
	for i, a := range ps {
		b := qs[i]
		switch a.Kind {
		case Param:
			if b.Kind == Wildcard {
				return false
			}
		case Concrete:
			if b.Kind != Concrete || b.Value != a.Value {
				return false
			}
		default:
			return false
		}
	}
	return true
}
