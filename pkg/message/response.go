package message

import (
	"bytes"
	"io"
	"strconv"
	"strings"
)

// DefaultVersion is the protocol version written by NewResponse.
const DefaultVersion = "HTTP/1.1"

// Response is a response message to be serialized onto the wire.
// A nil Body means no body.
type Response struct {
	Version string
	Status  Status
	Headers Headers
	Body    []byte
}

// NewResponse returns a bodiless response with the default version.
func NewResponse(status Status) *Response {
	return &Response{
		Version: DefaultVersion,
		Status:  status,
	}
}

// WithHeader appends a header and returns r.
func (r *Response) WithHeader(name, value string) *Response {
	r.Headers = append(r.Headers, Header{Name: name, Value: value})
	return r
}

// WithBody sets the body and returns r.
func (r *Response) WithBody(body []byte) *Response {
	r.Body = body
	return r
}

// WithText sets the body to s and returns r.
func (r *Response) WithText(s string) *Response {
	r.Body = []byte(s)
	return r
}

// Serialize returns the wire form of r.
//
// The status line and every header end in CRLF. Content-Length is always
// computed from the body and any Content-Length in r.Headers is dropped.
// With a body the header block is closed by a blank line and followed by
// the body bytes; without one the output ends at "Content-Length: 0".
func Serialize(r *Response) []byte {
	var b bytes.Buffer
	writeResponse(&b, r)
	return b.Bytes()
}

// Bytes is shorthand for Serialize(r).
func (r *Response) Bytes() []byte {
	return Serialize(r)
}

// WriteTo writes the serialized response to w.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	var b bytes.Buffer
	writeResponse(&b, r)
	return b.WriteTo(w)
}

func writeResponse(b *bytes.Buffer, r *Response) {
	version := r.Version
	if version == "" {
		version = DefaultVersion
	}
	b.WriteString(version)
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(r.Status.Code()))
	b.WriteByte(' ')
	b.WriteString(r.Status.Reason())
	b.WriteString("\r\n")

	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, "content-length") {
			continue
		}
		b.WriteString(h.Name)
		b.WriteString(": ")
		b.WriteString(h.Value)
		b.WriteString("\r\n")
	}

	if r.Body == nil {
		b.WriteString("Content-Length: 0")
		return
	}
	b.WriteString("Content-Length: ")
	b.WriteString(strconv.Itoa(len(r.Body)))
	b.WriteString("\r\n\r\n")
	b.Write(r.Body)
}
