package message

import herrors "github.com/vango-dev/hfs/internal/errors"

// Parse failures. Errors returned by the parser match these with
// errors.Is; each one is scoped to a single connection.
var (
	ErrMalformedRequestLine = herrors.New(herrors.CodeMalformedRequestLine)
	ErrUnknownMethod        = herrors.New(herrors.CodeUnknownMethod)
	ErrMalformedHeaderLine  = herrors.New(herrors.CodeMalformedHeaderLine)
	ErrBodyTruncated        = herrors.New(herrors.CodeBodyTruncated)
	ErrMalformedCookie      = herrors.New(herrors.CodeMalformedCookie)
	ErrInvalidContentLength = herrors.New(herrors.CodeInvalidContentLength)
)
