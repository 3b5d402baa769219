package errors

// Registered error codes.
const (
	CodeMalformedRequestLine = "H001"
	CodeUnknownMethod        = "H002"
	CodeMalformedHeaderLine  = "H003"
	CodeBodyTruncated        = "H004"
	CodeMalformedCookie      = "H005"
	CodeInvalidContentLength = "H006"

	CodeWildcardNotLast = "H020"

	CodeConfigLoad    = "H040"
	CodeConfigInvalid = "H041"

	CodeHandlerPanic = "H060"
	CodeWriteFailed  = "H061"

	CodeUsage = "H080"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category    Category
	Message     string
	Explanation string
	Suggestion  string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Parse Errors (H001-H019)
	// ============================================

	CodeMalformedRequestLine: {
		Category:    CategoryParse,
		Message:     "Malformed request line",
		Explanation: "The first line of a request must be \"<METHOD> <path> <version>\" separated by single spaces.",
	},
	CodeUnknownMethod: {
		Category:    CategoryParse,
		Message:     "Unknown method",
		Explanation: "Only GET, POST, PUT, DELETE and OPTIONS are accepted, spelled in uppercase.",
	},
	CodeMalformedHeaderLine: {
		Category:    CategoryParse,
		Message:     "Malformed header line",
		Explanation: "Every header line must contain a colon separating the name from the value.",
	},
	CodeBodyTruncated: {
		Category:    CategoryParse,
		Message:     "Body truncated",
		Explanation: "The stream ended before Content-Length bytes of body were read.",
	},
	CodeMalformedCookie: {
		Category:    CategoryParse,
		Message:     "Malformed cookie",
		Explanation: "Each ';'-separated segment of a Cookie header must have the form name=value.",
		Suggestion:  "Enable lenient cookie parsing to skip malformed segments instead of rejecting the request",
	},
	CodeInvalidContentLength: {
		Category:    CategoryParse,
		Message:     "Invalid Content-Length",
		Explanation: "Content-Length must be a non-negative decimal integer.",
	},

	// ============================================
	// Compile Errors (H020-H039)
	// ============================================

	CodeWildcardNotLast: {
		Category:    CategoryCompile,
		Message:     "Wildcard segment is not last",
		Explanation: "A *name segment captures the rest of the path, so nothing may follow it in a pattern.",
		Suggestion:  "Move the *name segment to the end of the pattern",
	},

	// ============================================
	// Config Errors (H040-H059)
	// ============================================

	CodeConfigLoad: {
		Category:    CategoryConfig,
		Message:     "Cannot load configuration",
		Explanation: "The configuration file could not be read or decoded.",
	},
	CodeConfigInvalid: {
		Category:    CategoryConfig,
		Message:     "Invalid configuration",
		Explanation: "A configuration value is out of range or malformed.",
	},

	// ============================================
	// Transport Errors (H060-H079)
	// ============================================

	CodeHandlerPanic: {
		Category:    CategoryTransport,
		Message:     "Handler panicked",
		Explanation: "A route handler panicked while serving a request; the connection was answered with 500.",
	},
	CodeWriteFailed: {
		Category:    CategoryTransport,
		Message:     "Response write failed",
		Explanation: "The serialized response could not be written to the connection.",
	},

	// ============================================
	// CLI Errors (H080-H099)
	// ============================================

	CodeUsage: {
		Category: CategoryCLI,
		Message:  "Invalid usage",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
