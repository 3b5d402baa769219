package message

import "testing"

func TestStatusTable(t *testing.T) {
	tests := []struct {
		status Status
		code   int
		reason string
	}{
		{StatusContinue, 100, "Continue"},
		{StatusOK, 200, "OK"},
		{StatusNonAuthoritativeInfo, 203, "Non-Authoritative Information"},
		{StatusUnused, 306, "Unused"},
		{StatusNotFound, 404, "Not Found"},
		{StatusProxyAuthRequired, 407, "Proxy Authentication Required"},
		{StatusTeapot, 418, "I'm A Teapot"},
		{StatusInternalServerError, 500, "Internal Server Error"},
		{StatusNetworkAuthRequired, 511, "Network Authentication Required"},
	}

	for _, tt := range tests {
		if tt.status.Code() != tt.code {
			t.Errorf("Code() = %d, want %d", tt.status.Code(), tt.code)
		}
		if tt.status.Reason() != tt.reason {
			t.Errorf("Reason(%d) = %q, want %q", tt.code, tt.status.Reason(), tt.reason)
		}
		if !tt.status.Valid() {
			t.Errorf("Valid(%d) = false", tt.code)
		}
	}
}

func TestStatusFromCode(t *testing.T) {
	if s, ok := StatusFromCode(201); !ok || s != StatusCreated {
		t.Errorf("StatusFromCode(201) = %v, %v", s, ok)
	}
	for _, code := range []int{0, 99, 209, 420, 509, 600} {
		if _, ok := StatusFromCode(code); ok {
			t.Errorf("StatusFromCode(%d) should fail", code)
		}
	}
}

func TestStatusString(t *testing.T) {
	if got := StatusNotFound.String(); got != "404 Not Found" {
		t.Errorf("String() = %q, want %q", got, "404 Not Found")
	}
}
