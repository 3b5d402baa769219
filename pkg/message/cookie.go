package message

import (
	"strings"

	herrors "github.com/vango-dev/hfs/internal/errors"
)

// Cookie is one name=value pair taken from a Cookie request header.
type Cookie struct {
	Name  string
	Value string
}

// parseCookies collects the cookies of every Cookie header in
// header-then-segment order. Cookie headers are only read.
func parseCookies(headers Headers, lenient bool) ([]Cookie, error) {
	var cookies []Cookie
	for _, h := range headers {
		if !strings.EqualFold(h.Name, "cookie") {
			continue
		}
		for _, seg := range strings.Split(h.Value, ";") {
			seg = strings.TrimSpace(seg)
			name, value, ok := strings.Cut(seg, "=")
			if !ok {
				if lenient {
					continue
				}
				return nil, herrors.New(herrors.CodeMalformedCookie).
					WithDetailf("segment %q has no '='", seg)
			}
			cookies = append(cookies, Cookie{Name: name, Value: value})
		}
	}
	return cookies, nil
}
