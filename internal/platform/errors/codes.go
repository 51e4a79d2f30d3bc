package errors

import "net/http"

// ErrorCode is the machine readable class of an error
// the numeric values are part of the wire contract, append only
type ErrorCode uint16

const (
	ErrorCodeUnknown         ErrorCode = iota // unclassified
	ErrorCodePanic                            // recovered panic
	ErrorCodeUnavailable                      // transient, retry may succeed
	ErrorCodeTooManyRequests                  // rate limited
	ErrorCodeConflict                         // state conflict other than a duplicate key
	ErrorCodeUnauthorized                     // missing or bad credentials
	ErrorCodeForbidden                        // authenticated but not allowed
	ErrorCodeInvalidArgument                  // well formed input referring to something unusable
	ErrorCodeValidation                       // malformed input
	ErrorCodeJSON                             // body could not be decoded
	ErrorCodeNotFound                         // missing resource
	ErrorCodeDuplicateKey                     // unique constraint
	ErrorCodeDB                               // storage failure
)

var codeTable = [...]struct {
	name   string
	status int
}{
	ErrorCodeUnknown:         {"unknown", http.StatusInternalServerError},
	ErrorCodePanic:           {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:     {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeTooManyRequests: {"too_many_requests", http.StatusTooManyRequests},
	ErrorCodeConflict:        {"conflict", http.StatusConflict},
	ErrorCodeUnauthorized:    {"unauthorized", http.StatusUnauthorized},
	ErrorCodeForbidden:       {"forbidden", http.StatusForbidden},
	ErrorCodeInvalidArgument: {"invalid_argument", http.StatusUnprocessableEntity},
	ErrorCodeValidation:      {"validation", http.StatusBadRequest},
	ErrorCodeJSON:            {"json", http.StatusBadRequest},
	ErrorCodeNotFound:        {"not_found", http.StatusNotFound},
	ErrorCodeDuplicateKey:    {"duplicate_key", http.StatusConflict},
	ErrorCodeDB:              {"db", http.StatusInternalServerError},
}

// String returns the snake case name used in logs
func (c ErrorCode) String() string {
	if int(c) < len(codeTable) {
		return codeTable[c].name
	}
	return codeTable[ErrorCodeUnknown].name
}

// HTTPStatusCode maps a code to its response status, unknown codes give 500
func HTTPStatusCode(c ErrorCode) int {
	if int(c) < len(codeTable) {
		return codeTable[c].status
	}
	return http.StatusInternalServerError
}
