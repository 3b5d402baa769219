package router

import (
	"errors"
	"strings"
	"testing"
)

func TestCompileSegments(t *testing.T) {
	p, err := Compile("/users/:id/files/*rest")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	want := []Segment{
		{Concrete, ""},
		{Concrete, "users"},
		{Param, "id"},
		{Concrete, "files"},
		{Wildcard, "rest"},
	}
	got := p.Segments()
	if len(got) != len(want) {
		t.Fatalf("Segments = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Segments[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	if p.String() != "/users/:id/files/*rest" {
		t.Errorf("String() = %q", p.String())
	}
	if !p.HasWildcard() {
		t.Error("HasWildcard() = false, want true")
	}
	names := p.CaptureNames()
	if len(names) != 2 || names[0] != "id" || names[1] != "rest" {
		t.Errorf("CaptureNames() = %v, want [id rest]", names)
	}
}

func TestCompileKeepsEmptySegments(t *testing.T) {
	p := MustCompile("//a/")
	got := p.Segments()
	if len(got) != 4 {
		t.Fatalf("len(Segments) = %d, want 4", len(got))
	}
	for _, i := range []int{0, 1, 3} {
		if got[i] != (Segment{Concrete, ""}) {
			t.Errorf("Segments[%d] = %+v, want empty concrete", i, got[i])
		}
	}
}

func TestCompileSegmentsAreImmutable(t *testing.T) {
	p := MustCompile("/a/:b")
	segs := p.Segments()
	segs[1].Value = "changed"
	if p.Segments()[1].Value != "a" {
		t.Error("mutating Segments() result changed the pattern")
	}
}

func TestCompileWildcardPosition(t *testing.T) {
	tests := []struct {
		pattern string
		wantErr bool
	}{
		{"*x/:y", true},
		{"/a/*rest/b", true},
		{"/*a/*b", true},
		{"/a/*rest", false},
		{"*all", false},
		{"/a/:b/c", false},
		{"", false},
	}

	for _, tt := range tests {
		_, err := Compile(tt.pattern)
		if tt.wantErr {
			if !errors.Is(err, ErrWildcardNotLast) {
				t.Errorf("Compile(%q) err = %v, want ErrWildcardNotLast", tt.pattern, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Compile(%q) err = %v", tt.pattern, err)
		}
	}
}

func TestCompileErrorNamesPattern(t *testing.T) {
	_, err := Compile("/a/*rest/b")
	if err == nil || !strings.Contains(err.Error(), `"/a/*rest/b"`) {
		t.Errorf("err = %v, want it to name the pattern", err)
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile should panic on an invalid pattern")
		}
	}()
	MustCompile("*x/y")
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern   string
		path      string
		wantMatch bool
		want      Params
	}{
		{"/users/:id", "/users/42", true, Params{"id": "42"}},
		{"/users/:id", "/users/42/extra", false, nil},
		{"/users/:id", "/users", false, nil},
		{"/users/:id", "/users/", true, Params{"id": ""}},
		{"/users/:id", "/Users/42", false, nil},
		{"/files/*rest", "/files/a/b/c", true, Params{"rest": "a/b/c"}},
		{"/files/*rest", "/files", true, Params{"rest": ""}},
		{"/files/*rest", "/files/", true, Params{"rest": ""}},
		{"/files/*rest", "/files/a//b/", true, Params{"rest": "a//b/"}},
		{"/files/*rest", "/other/a", false, nil},
		{"/a/:b/c/:d", "/a/1/c/2", true, Params{"b": "1", "d": "2"}},
		{"/a/:b/c/:d", "/a/1/x/2", false, nil},
		{"/static", "/static", true, Params{}},
		{"/static", "/static/", false, nil},
		{"/static/", "/static", false, nil},
		{"", "", true, Params{}},
		{"", "/", false, nil},
		{"*all", "a/b", true, Params{"all": "a/b"}},
		{"*all", "/a", true, Params{"all": "/a"}},
		{"/:a/:b", "/x", false, nil},
		{"/:a/*rest", "/x", true, Params{"a": "x", "rest": ""}},
		{"/q", "/q?x=1", false, nil},
	}

	for _, tt := range tests {
		got, ok := MustCompile(tt.pattern).Match(tt.path)
		if ok != tt.wantMatch {
			t.Errorf("Match(%q, %q) ok = %v, want %v", tt.pattern, tt.path, ok, tt.wantMatch)
			continue
		}
		if !ok {
			if got != nil {
				t.Errorf("Match(%q, %q) params = %v, want nil", tt.pattern, tt.path, got)
			}
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
			continue
		}
		for k, v := range tt.want {
			if got[k] != v {
				t.Errorf("Match(%q, %q)[%q] = %q, want %q", tt.pattern, tt.path, k, got[k], v)
			}
		}
	}
}

// Every param-only pattern matches any path with the same segment count
// and captures each segment verbatim.
func TestMatchParamsCaptureSegmentsExactly(t *testing.T) {
	patterns := []string{"/:a", "/x/:a/y/:b", "/:a/:b/:c", ":a/lit/:b"}
	paths := [][]string{
		{"", "42"},
		{"", "x", "hello world", "y", "%2F"},
		{"", "", "", ""},
		{"é", "lit", "..."},
	}

	for i, pattern := range patterns {
		p := MustCompile(pattern)
		path := strings.Join(paths[i], "/")
		params, ok := p.Match(path)
		if !ok {
			t.Errorf("Match(%q, %q) did not match", pattern, path)
			continue
		}
		for j, seg := range p.Segments() {
			if seg.Kind == Param && params[seg.Value] != paths[i][j] {
				t.Errorf("Match(%q, %q)[%q] = %q, want %q", pattern, path, seg.Value, params[seg.Value], paths[i][j])
			}
		}
	}
}

func TestMatchReturnsFreshParams(t *testing.T) {
	p := MustCompile("/u/:id")
	a, _ := p.Match("/u/1")
	b, _ := p.Match("/u/2")
	a["id"] = "mutated"
	if b["id"] != "2" {
		t.Errorf("params share storage: b[id] = %q", b["id"])
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		pattern string
		params  Params
		want    string
		wantErr bool
	}{
		{"/users/:id", Params{"id": "42"}, "/users/42", false},
		{"/files/*rest", Params{"rest": "a/b/c"}, "/files/a/b/c", false},
		{"/files/*rest", Params{}, "/files/", false},
		{"/users/:id", Params{}, "", true},
		{"/users/:id", Params{"id": "a/b"}, "", true},
		{"/plain", nil, "/plain", false},
	}

	for _, tt := range tests {
		got, err := MustCompile(tt.pattern).Build(tt.params)
		if (err != nil) != tt.wantErr {
			t.Errorf("Build(%q, %v) err = %v, wantErr %v", tt.pattern, tt.params, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Build(%q, %v) = %q, want %q", tt.pattern, tt.params, got, tt.want)
		}
	}
}

func TestBuildRoundTrip(t *testing.T) {
	p := MustCompile("/org/:org/repo/:repo/*path")
	path := "/org/acme/repo/hfs/pkg/router/pattern.go"
	params, ok := p.Match(path)
	if !ok {
		t.Fatal("expected match")
	}
	got, err := p.Build(params)
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Errorf("Build(Match(path)) = %q, want %q", got, path)
	}
}

func TestCovers(t *testing.T) {
	tests := []struct {
		p, q string
		want bool
	}{
		{"/x/:p", "/x/static", true},
		{"/x/static", "/x/:p", false},
		{"/x/:p", "/x/:q", true},
		{"/x/:p", "/x/a/b", false},
		{"/x/*rest", "/x/a/b", true},
		{"/x/*rest", "/x", true},
		{"/x/*rest", "/x/*other", true},
		{"/x/*rest", "/y/a", false},
		{"/x/a/*rest", "/x/*rest", false},
		{"/x/:p", "/x/*rest", false},
		{"*all", "/anything/at/all", true},
		{"/a", "/a", true},
		{"/a", "/a/", false},
	}

	for _, tt := range tests {
		got := MustCompile(tt.p).Covers(MustCompile(tt.q))
		if got != tt.want {
			t.Errorf("Covers(%q, %q) = %v, want %v", tt.p, tt.q, got, tt.want)
		}
	}
}

func TestSegmentKindString(t *testing.T) {
	if Concrete.String() != "concrete" || Param.String() != "param" || Wildcard.String() != "wildcard" {
		t.Error("unexpected SegmentKind names")
	}
	if SegmentKind(9).String() != "SegmentKind(9)" {
		t.Errorf("SegmentKind(9).String() = %q", SegmentKind(9).String())
	}
}
