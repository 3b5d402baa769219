// Package errors provides the coded, categorized errors used across hfs.
//
// Every failure the message layer can report has a registered code
// (e.g. "H001") that maps to a category, a short message and a longer
// explanation. Two errors are considered equal by errors.Is when their
// codes match, so callers can compare against exported sentinels:
//
//	_, err := message.Parse(conn)
//	if errors.Is(err, message.ErrBodyTruncated) {
//	    // client hung up mid-body
//	}
//
// # Categories
//
//   - parse: the request byte stream could not be framed (per connection)
//   - compile: a route pattern was rejected at registration (fatal at startup)
//   - config: configuration file or value problems
//   - transport: connection-level failures surfaced by the server
//   - cli: command-line usage problems
//
// # Usage
//
//	err := errors.New(errors.CodeWildcardNotLast).
//	    WithDetail(`pattern "/*rest/x"`).
//	    WithSuggestion("Move the *name segment to the end of the pattern")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR H020: Wildcard segment is not last
//	//
//	//   pattern "/*rest/x"
//	//
//	//   Hint: Move the *name segment to the end of the pattern
package errors
