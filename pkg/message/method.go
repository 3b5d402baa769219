package message

import herrors "github.com/vango-dev/hfs/internal/errors"

// Method is a request method. The set is closed.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodOptions Method = "OPTIONS"
)

var methods = []Method{MethodGet, MethodPost, MethodPut, MethodDelete, MethodOptions}

// Methods returns every supported method.
func Methods() []Method {
	return append([]Method(nil), methods...)
}

// ParseMethod maps a request-line token to a Method. Matching is exact
// and case-sensitive: "get" is not GET.
func ParseMethod(token string) (Method, error) {
	m := Method(token)
	if !m.Valid() {
		return "", herrors.New(herrors.CodeUnknownMethod).WithDetailf("method %q", token)
	}
	return m, nil
}

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodOptions:
		return true
	}
	return false
}

func (m Method) String() string { return string(m) }
