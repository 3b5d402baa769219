package message

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	herrors "github.com/vango-dev/hfs/internal/errors"
)

// Parser reads request messages. The zero value is ready to use and
// applies the strict cookie policy.
type Parser struct {
	// LenientCookies skips cookie segments without '=' instead of
	// failing the whole request with ErrMalformedCookie.
	LenientCookies bool
}

// Parse reads one request from r with the default Parser.
func Parse(r io.Reader) (*Request, error) {
	return Parser{}.Parse(r)
}

// Parse reads one request from r. If r is not a *bufio.Reader it is
// wrapped in one, and bytes buffered past the end of the message are
// lost with it; pass a *bufio.Reader to keep them.
func (p Parser) Parse(r io.Reader) (*Request, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return p.ReadRequest(br)
}

// ReadRequest reads exactly one request message from br.
//
// A stream that ends before the first byte returns io.EOF unwrapped.
// Framing problems return errors matching the Err* sentinels; other I/O
// failures are returned wrapped.
func (p Parser) ReadRequest(br *bufio.Reader) (*Request, error) {
	lr := &lineReader{br: br}

	line, err := lr.readLine()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("message: reading request line: %w", err)
	}
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 3 {
		return nil, herrors.New(herrors.CodeMalformedRequestLine).
			WithDetailf("request line %q", line).
			WithLine(lr.n)
	}
	method := Method(parts[0])
	if !method.Valid() {
		return nil, herrors.New(herrors.CodeUnknownMethod).
			WithDetailf("method %q", parts[0]).
			WithLine(lr.n)
	}

	headers, err := readHeaders(lr)
	if err != nil {
		return nil, err
	}

	body, err := readBody(br, headers)
	if err != nil {
		return nil, err
	}

	cookies, err := parseCookies(headers, p.LenientCookies)
	if err != nil {
		return nil, err
	}

	return &Request{
		method:  method,
		path:    parts[1],
		version: parts[2],
		headers: headers,
		body:    body,
		cookies: cookies,
	}, nil
}

// readHeaders reads header lines up to the blank line. A line of only
// spaces or tabs counts as blank, and end of stream also ends the header
// block.
func readHeaders(lr *lineReader) (Headers, error) {
	var headers Headers
	for {
		line, err := lr.readLine()
		if err == io.EOF {
			return headers, nil
		}
		if err != nil {
			return nil, fmt.Errorf("message: reading headers: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			return headers, nil
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, herrors.New(herrors.CodeMalformedHeaderLine).
				WithDetailf("header line %q", line).
				WithLine(lr.n)
		}
		headers = append(headers, Header{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}
}

// readBody reads a Content-Length-bounded body. The buffer grows with
// the bytes actually received, not with the declared length.
func readBody(br *bufio.Reader, headers Headers) ([]byte, error) {
	v, ok := headers.Lookup("content-length")
	if !ok {
		return nil, nil
	}
	n, err := strconv.ParseUint(v, 10, 63)
	if err != nil {
		return nil, herrors.New(herrors.CodeInvalidContentLength).WithDetailf("Content-Length %q", v)
	}
	if n == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	read, err := io.CopyN(&buf, br, int64(n))
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, herrors.New(herrors.CodeBodyTruncated).
			WithDetailf("read %d of %d bytes", read, n).
			Wrap(err)
	}
	return buf.Bytes(), nil
}

// lineReader reads '\n'-terminated lines and counts them for error
// locations.
type lineReader struct {
	br *bufio.Reader
	n  int
}

// readLine returns the next line without its terminator ("\r\n" or
// "\n"). An unterminated final line is returned as is; io.EOF is only
// returned when no bytes remain.
func (lr *lineReader) readLine() (string, error) {
	s, err := lr.br.ReadString('\n')
	if err != nil {
		if err != io.EOF || s == "" {
			return "", err
		}
	}
	lr.n++
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, nil
}
