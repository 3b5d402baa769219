// Package message implements the HTTP/1.1 message layer of hfs: it turns
// a raw byte stream into a structured Request and a structured Response
// back into the exact bytes written to the wire.
//
// # Parsing
//
// Parse reads exactly one request from a stream:
//
//	req, err := message.Parse(conn)
//	if err != nil {
//	    // errors.Is(err, message.ErrMalformedRequestLine), ...
//	}
//	fmt.Println(req.Method(), req.Path(), req.Version())
//
// The framing rules are deliberately small. The request line is split on
// its first two spaces, header lines on their first colon, and the body
// is exactly Content-Length bytes long. Chunked transfer-encoding,
// header folding and pipelining are not supported. Headers keep their
// arrival order, duplicates and casing; all lookups are case-insensitive.
//
// Cookies are derived from every Cookie header. A segment without '='
// rejects the whole request unless Parser.LenientCookies is set.
//
// # Serializing
//
//	resp := message.NewResponse(message.StatusOK).
//	    WithHeader("Content-Type", "text/plain").
//	    WithText("hello")
//	resp.WriteTo(conn)
//
// Content-Length is always computed from the body; a caller-supplied
// Content-Length header is dropped.
package message
