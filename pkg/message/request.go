package message

// Request is a parsed request message. It is immutable: accessors hand
// out copies, never the underlying storage.
type Request struct {
	method  Method
	path    string
	version string
	headers Headers
	body    []byte
	cookies []Cookie
}

// NewRequest builds a Request the way the parser would, deriving its
// cookies from the Cookie headers. A nil or empty body means no body.
func NewRequest(method Method, path, version string, headers Headers, body []byte) (*Request, error) {
	if _, err := ParseMethod(string(method)); err != nil {
		return nil, err
	}
	cookies, err := parseCookies(headers, false)
	if err != nil {
		return nil, err
	}
	var b []byte
	if len(body) > 0 {
		b = append([]byte(nil), body...)
	}
	return &Request{
		method:  method,
		path:    path,
		version: version,
		headers: headers.Clone(),
		body:    b,
		cookies: cookies,
	}, nil
}

// Method returns the request method.
func (r *Request) Method() Method { return r.method }

// Path returns the request target exactly as received.
func (r *Request) Path() string { return r.path }

// Version returns the protocol version token, e.g. "HTTP/1.1".
func (r *Request) Version() string { return r.version }

// Headers returns a copy of the request headers in arrival order.
func (r *Request) Headers() Headers { return r.headers.Clone() }

// Header returns the first value of the named header, or "".
func (r *Request) Header(name string) string { return r.headers.Get(name) }

// HeaderValues returns every value of the named header.
func (r *Request) HeaderValues(name string) []string { return r.headers.Values(name) }

// HasBody reports whether the request carried a body.
func (r *Request) HasBody() bool { return r.body != nil }

// Body returns a copy of the body, or nil when there is none.
func (r *Request) Body() []byte {
	if r.body == nil {
		return nil
	}
	return append([]byte(nil), r.body...)
}

// BodyString returns the body as a string.
func (r *Request) BodyString() string { return string(r.body) }

// Cookies returns a copy of the cookies in header-then-segment order.
func (r *Request) Cookies() []Cookie {
	if r.cookies == nil {
		return nil
	}
	return append([]Cookie(nil), r.cookies...)
}

// Cookie returns the value of the first cookie named name.
func (r *Request) Cookie(name string) (string, bool) {
	for _, c := range r.cookies {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}
