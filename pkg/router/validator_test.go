package router

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	r := New(struct{}{})
	r.Get("/x/:p", textHandler[struct{}]("H1"))
	r.Get("/x/static", textHandler[struct{}]("H2"))
	r.Post("/x/static", textHandler[struct{}]("P"))
	r.Get("/x/:p", textHandler[struct{}]("dup"))
	r.Get("/pair/:a/:a", textHandler[struct{}]("pair"))
	r.Get("/files/*rest", textHandler[struct{}]("files"))
	r.Get("/files/a/b", textHandler[struct{}]("under files"))
	r.Get("/y/:p", textHandler[struct{}]("y"))

	got := r.Validate()
	want := []struct {
		kind  WarningKind
		index int
		by    int
	}{
		{WarningShadowedRoute, 1, 0},
		{WarningDuplicateRoute, 3, 0},
		{WarningDuplicateCapture, 4, -1},
		{WarningShadowedRoute, 6, 5},
	}

	if len(got) != len(want) {
		t.Fatalf("Validate() = %v, want %d warnings", got, len(want))
	}
	for i, w := range want {
		if got[i].Kind != w.kind || got[i].Route.Index != w.index {
			t.Errorf("warning %d = %s at %d, want %s at %d", i, got[i].Kind, got[i].Route.Index, w.kind, w.index)
		}
		if w.by < 0 {
			if got[i].By != nil {
				t.Errorf("warning %d By = %+v, want nil", i, got[i].By)
			}
			continue
		}
		if got[i].By == nil || got[i].By.Index != w.by {
			t.Errorf("warning %d By = %+v, want index %d", i, got[i].By, w.by)
		}
	}
}

func TestValidateDoesNotChangeDispatch(t *testing.T) {
	r := New(struct{}{})
	r.Get("/x/:p", textHandler[struct{}]("H1"))
	r.Get("/x/static", textHandler[struct{}]("H2"))

	if len(r.Validate()) != 1 {
		t.Fatal("expected one warning")
	}
	info, _, ok := r.Lookup("GET", "/x/static")
	if !ok || info.Index != 0 {
		t.Errorf("Lookup after Validate = %+v, %v; want route 0", info, ok)
	}
}

func TestValidateClean(t *testing.T) {
	r := New(struct{}{})
	r.Get("/x/static", textHandler[struct{}]("H2"))
	r.Get("/x/:p", textHandler[struct{}]("H1"))
	r.Get("/files/a/b", textHandler[struct{}]("a"))
	r.Get("/files/*rest", textHandler[struct{}]("files"))

	if got := r.Validate(); len(got) != 0 {
		t.Errorf("Validate() = %v, want none", got)
	}
}

func TestWarningString(t *testing.T) {
	r := New(struct{}{})
	r.Get("/a/:id", textHandler[struct{}]("1"))
	r.Get("/a/b", textHandler[struct{}]("2"))

	got := r.Validate()
	if len(got) != 1 {
		t.Fatalf("Validate() = %v", got)
	}
	s := got[0].String()
	if !strings.HasPrefix(s, "SHADOWED_ROUTE: ") || !strings.Contains(s, "/a/b") || !strings.Contains(s, "/a/:id") {
		t.Errorf("String() = %q", s)
	}
}
