package message

import (
	"errors"
	"testing"
)

func TestParseMethod(t *testing.T) {
	for _, m := range Methods() {
		got, err := ParseMethod(string(m))
		if err != nil || got != m {
			t.Errorf("ParseMethod(%q) = %q, %v", m, got, err)
		}
	}
	for _, token := range []string{"get", "Post", "PATCH", "HEAD", ""} {
		if _, err := ParseMethod(token); !errors.Is(err, ErrUnknownMethod) {
			t.Errorf("ParseMethod(%q) err = %v, want ErrUnknownMethod", token, err)
		}
	}
}

func TestNewRequest(t *testing.T) {
	headers := Headers{{Name: "Cookie", Value: "sid=9"}}
	body := []byte("data")
	req, err := NewRequest(MethodPut, "/r", "HTTP/1.1", headers, body)
	if err != nil {
		t.Fatalf("NewRequest error: %v", err)
	}
	if v, ok := req.Cookie("sid"); !ok || v != "9" {
		t.Errorf("Cookie(sid) = %q, %v", v, ok)
	}

	// The request owns copies of its inputs.
	headers[0].Value = "changed"
	body[0] = 'X'
	if req.Header("Cookie") != "sid=9" {
		t.Errorf("Header(Cookie) = %q after caller mutation", req.Header("Cookie"))
	}
	if req.BodyString() != "data" {
		t.Errorf("Body = %q after caller mutation", req.BodyString())
	}

	// Accessors hand out copies.
	req.Headers()[0].Value = "x"
	req.Body()[0] = 'Y'
	req.Cookies()[0].Value = "z"
	if req.Header("cookie") != "sid=9" || req.BodyString() != "data" {
		t.Error("accessor results must not alias request storage")
	}
	if v, _ := req.Cookie("sid"); v != "9" {
		t.Errorf("Cookie(sid) = %q after mutating Cookies()", v)
	}
}

func TestNewRequestValidation(t *testing.T) {
	if _, err := NewRequest("TRACE", "/", "HTTP/1.1", nil, nil); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("err = %v, want ErrUnknownMethod", err)
	}
	if _, err := NewRequest(MethodGet, "/", "HTTP/1.1", Headers{{Name: "Cookie", Value: "bad"}}, nil); !errors.Is(err, ErrMalformedCookie) {
		t.Errorf("err = %v, want ErrMalformedCookie", err)
	}
	req, err := NewRequest(MethodGet, "/", "HTTP/1.1", nil, []byte{})
	if err != nil {
		t.Fatal(err)
	}
	if req.HasBody() {
		t.Error("an empty body should mean no body")
	}
}

func TestHeadersLookup(t *testing.T) {
	h := Headers{
		{Name: "Accept", Value: "text/html"},
		{Name: "accept", Value: "application/json"},
	}
	if v, ok := h.Lookup("ACCEPT"); !ok || v != "text/html" {
		t.Errorf("Lookup(ACCEPT) = %q, %v", v, ok)
	}
	if h.Get("missing") != "" || h.Has("missing") {
		t.Error("missing header should not be found")
	}
	if got := h.Values("Accept"); len(got) != 2 {
		t.Errorf("Values(Accept) = %v, want 2 entries", got)
	}
	if Headers(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
