package router

import (
	"testing"
)

func TestParamsInt(t *testing.T) {
	p := Params{"id": "42", "bad": "4x"}

	n, err := p.Int("id")
	if err != nil || n != 42 {
		t.Errorf("Int(id) = %d, %v; want 42, nil", n, err)
	}
	if _, err := p.Int("bad"); err == nil {
		t.Error("Int(bad) should fail")
	}
	if _, err := p.Int("missing"); err == nil {
		t.Error("Int(missing) should fail")
	}
}

func TestParamsDecode(t *testing.T) {
	var target struct {
		ID     int      `param:"id"`
		Slug   string   `param:"slug"`
		Page   uint16   `param:"page"`
		Score  float64  `param:"score"`
		Draft  bool     `param:"draft"`
		Path   []string `param:"rest"`
		Absent string   `param:"absent"`
		Plain  string
	}
	target.Plain = "keep"

	p := Params{
		"id":    "123",
		"slug":  "hello-world",
		"page":  "7",
		"score": "1.5",
		"draft": "true",
		"rest":  "a/b/c",
		"extra": "ignored",
	}
	if err := p.Decode(&target); err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	if target.ID != 123 {
		t.Errorf("ID = %d, want 123", target.ID)
	}
	if target.Slug != "hello-world" {
		t.Errorf("Slug = %q, want %q", target.Slug, "hello-world")
	}
	if target.Page != 7 {
		t.Errorf("Page = %d, want 7", target.Page)
	}
	if target.Score != 1.5 {
		t.Errorf("Score = %v, want 1.5", target.Score)
	}
	if !target.Draft {
		t.Error("Draft = false, want true")
	}
	if len(target.Path) != 3 || target.Path[0] != "a" || target.Path[2] != "c" {
		t.Errorf("Path = %v, want [a b c]", target.Path)
	}
	if target.Absent != "" || target.Plain != "keep" {
		t.Errorf("untagged or absent fields changed: %+v", target)
	}
}

func TestParamsDecodeEmptyWildcard(t *testing.T) {
	var target struct {
		Path []string `param:"rest"`
	}
	if err := (Params{"rest": ""}).Decode(&target); err != nil {
		t.Fatal(err)
	}
	if target.Path != nil {
		t.Errorf("Path = %v, want nil", target.Path)
	}
}

func TestParamsDecodeErrors(t *testing.T) {
	var notStruct int
	var overflow struct {
		N int8 `param:"n"`
	}
	var negative struct {
		N uint `param:"n"`
	}
	var unsupported struct {
		N []int `param:"n"`
	}

	tests := []struct {
		name   string
		target any
		params Params
	}{
		{"not a pointer", struct{}{}, Params{}},
		{"pointer to non-struct", &notStruct, Params{}},
		{"int8 overflow", &overflow, Params{"n": "300"}},
		{"negative uint", &negative, Params{"n": "-1"}},
		{"unsupported slice", &unsupported, Params{"n": "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.params.Decode(tt.target); err == nil {
				t.Error("Decode should fail")
			}
		})
	}
}

func TestParamsDecodeNil(t *testing.T) {
	if err := (Params{"a": "b"}).Decode(nil); err != nil {
		t.Errorf("Decode(nil) = %v, want nil", err)
	}
}
