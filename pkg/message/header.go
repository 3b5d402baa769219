package message

import "strings"

// Header is a single header field. Name keeps the casing it arrived with.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered header list. Duplicate names are kept as
// separate entries; lookups compare names case-insensitively.
type Headers []Header

// Lookup returns the value of the first header named name.
func (h Headers) Lookup(name string) (string, bool) {
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// Get returns the value of the first header named name, or "".
func (h Headers) Get(name string) string {
	v, _ := h.Lookup(name)
	return v
}

// Values returns the values of every header named name, in order.
func (h Headers) Values(name string) []string {
	var vv []string
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			vv = append(vv, f.Value)
		}
	}
	return vv
}

// Has reports whether a header named name is present.
func (h Headers) Has(name string) bool {
	_, ok := h.Lookup(name)
	return ok
}

// Clone returns a copy of h that shares no storage with it.
func (h Headers) Clone() Headers {
	if h == nil {
		return nil
	}
	return append(Headers(nil), h...)
}
